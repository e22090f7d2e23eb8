package event

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/workhub/workspace-portal/internal"
	"github.com/workhub/workspace-portal/internal/transport"
)

type ServiceAPI interface {
	ListRange(ctx context.Context, q RangeQuery) ([]Event, error)
	AllEvents(ctx context.Context) ([]Event, error)
	GetEvent(ctx context.Context, id int64) (*Event, error)
	CreateEvent(ctx context.Context, dto EventDTO) (*Event, error)
	UpdateEvent(ctx context.Context, id int64, dto EventDTO) (*Event, error)
	DeleteEvent(ctx context.Context, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

// List serves the calendar range query; from/to are RFC 3339 and optional.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := RangeQuery{}
	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid from timestamp")
			return
		}
		q.From = t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid to timestamp")
			return
		}
		q.To = t
	}

	events, err := h.Service.ListRange(r.Context(), q)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, EventListResponse{Events: events})
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	events, err := h.Service.AllEvents(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, EventListResponse{Events: events})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := transport.URLParamInt64(r, "eventID")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	ev, err := h.Service.GetEvent(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ev)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.CreateEvent(r.Context(), dto)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := transport.URLParamInt64(r, "eventID")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.Service.UpdateEvent(r.Context(), id, dto)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := transport.URLParamInt64(r, "eventID")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	if err := h.Service.DeleteEvent(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *internal.AppError
	if errors.As(err, &appErr) {
		h.WriteAppError(w, appErr)
		return
	}
	h.WriteError(w, http.StatusInternalServerError, "internal server error")
}
