package post

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
	ListByBoard(ctx context.Context, boardID string) ([]Post, error)
	CreatePost(ctx context.Context, boardID string, dto CreatePostDTO) (*Post, error)
	DeletePost(ctx context.Context, boardID string, postID int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")

	posts, err := h.Service.ListByBoard(r.Context(), boardID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, PostListResponse{Posts: posts})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")

	var dto CreatePostDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.CreatePost(r.Context(), boardID, dto)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")
	postID, ok := transport.URLParamInt64(r, "postID")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := h.Service.DeletePost(r.Context(), boardID, postID); err != nil {
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
