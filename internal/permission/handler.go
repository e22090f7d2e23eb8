package permission

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/workhub/workspace-portal/internal"
	"github.com/workhub/workspace-portal/internal/transport"
)

type ServiceAPI interface {
	SetBoardAccess(ctx context.Context, boardID string, dto SetBoardAccessDTO) error
	BoardAccessForBoard(ctx context.Context, boardID string) (*BoardAccessResponse, error)
	SetEventPermissions(ctx context.Context, dto SetEventPermissionsDTO) error
	EventPermissionsByRole(ctx context.Context) (*EventPermissionsResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

func (h *Handler) GetBoardAccess(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")

	resp, err := h.Service.BoardAccessForBoard(r.Context(), boardID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) PutBoardAccess(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")

	var dto SetBoardAccessDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.SetBoardAccess(r.Context(), boardID, dto); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetEventPermissions(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.EventPermissionsByRole(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) PutEventPermissions(w http.ResponseWriter, r *http.Request) {
	var dto SetEventPermissionsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.SetEventPermissions(r.Context(), dto); err != nil {
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
