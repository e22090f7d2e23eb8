package board

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
	VisibleBoards(ctx context.Context, actor internal.Actor) ([]Board, error)
	AllBoards(ctx context.Context) ([]Board, error)
	CreateBoard(ctx context.Context, dto CreateBoardDTO) (*Board, error)
	UpdateBoard(ctx context.Context, boardID string, dto UpdateBoardDTO) (*Board, error)
	DeleteBoard(ctx context.Context, boardID string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

// ListVisible serves the navigation catalog for the authenticated actor.
func (h *Handler) ListVisible(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		transport.WriteUnauthenticated(w)
		return
	}

	boards, err := h.Service.VisibleBoards(r.Context(), actor)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, BoardListResponse{Boards: boards})
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	boards, err := h.Service.AllBoards(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, BoardListResponse{Boards: boards})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateBoardDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.CreateBoard(r.Context(), dto)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")

	var dto UpdateBoardDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.Service.UpdateBoard(r.Context(), boardID, dto)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")

	if err := h.Service.DeleteBoard(r.Context(), boardID); err != nil {
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
