package post

import (
	"context"
	"log/slog"

	"github.com/workhub/workspace-portal/internal"
	postDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/post"
)

type RepositoryAPI interface {
	GetByBoard(ctx context.Context, boardID string) ([]*postDatamodel.Post, error)
	GetByID(ctx context.Context, id int64) (*postDatamodel.Post, error)
	Create(ctx context.Context, p *postDatamodel.Post) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) ListByBoard(ctx context.Context, boardID string) ([]Post, error) {
	rows, err := s.repo.GetByBoard(ctx, boardID)
	if err != nil {
		s.logger.Error("failed to list posts", "board_id", boardID, "error", err)
		return nil, internal.NewInternalError("could not list posts", err)
	}

	posts := make([]Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, *FromDataModel(row))
	}
	return posts, nil
}

func (s *Service) CreatePost(ctx context.Context, boardID string, dto CreatePostDTO) (*Post, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	actor, ok := internal.ActorFromContext(ctx)
	if !ok {
		return nil, internal.ErrPermissionDenied
	}

	row := &postDatamodel.Post{
		BoardID:  boardID,
		AuthorID: actor.UserID,
		Title:    dto.Title,
		Content:  dto.Content,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create post", "board_id", boardID, "error", err)
		return nil, internal.NewInternalError("could not create post", err)
	}
	return FromDataModel(row), nil
}

// DeletePost verifies the post belongs to the board named in the URL so a
// delete grant on one board cannot reach content on another.
func (s *Service) DeletePost(ctx context.Context, boardID string, postID int64) error {
	row, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return internal.NewInternalError("could not look up post", err)
	}
	if row == nil || row.BoardID != boardID {
		return internal.ErrPostNotFound
	}

	if err := s.repo.Delete(ctx, postID); err != nil {
		s.logger.Error("failed to delete post", "post_id", postID, "error", err)
		return internal.NewInternalError("could not delete post", err)
	}
	return nil
}
