package board

import (
	"context"
	"log/slog"

	"github.com/workhub/workspace-portal/internal"
	"github.com/workhub/workspace-portal/internal/core/audit"
	boardDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/board"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*boardDatamodel.Board, error)
	GetActiveReadable(ctx context.Context, roleID string) ([]*boardDatamodel.Board, error)
	GetActive(ctx context.Context) ([]*boardDatamodel.Board, error)
	GetByID(ctx context.Context, id string) (*boardDatamodel.Board, error)
	Create(ctx context.Context, b *boardDatamodel.Board) error
	Update(ctx context.Context, b *boardDatamodel.Board) error
	CountPosts(ctx context.Context, boardID string) (int64, error)
	DeleteCascade(ctx context.Context, boardID string) error
}

type Service struct {
	repo     RepositoryAPI
	auditBus *audit.Bus
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, auditBus *audit.Bus, logger *slog.Logger) *Service {
	return &Service{repo: repo, auditBus: auditBus, logger: logger}
}

// VisibleBoards lists the active boards the actor's role can read, for
// navigation. Admins see every active board regardless of matrix rows.
func (s *Service) VisibleBoards(ctx context.Context, actor internal.Actor) ([]Board, error) {
	var (
		rows []*boardDatamodel.Board
		err  error
	)
	if actor.IsAdmin() {
		rows, err = s.repo.GetActive(ctx)
	} else {
		rows, err = s.repo.GetActiveReadable(ctx, actor.RoleID)
	}
	if err != nil {
		s.logger.Error("failed to list visible boards", "role_id", actor.RoleID, "error", err)
		return nil, internal.NewInternalError("could not list boards", err)
	}

	boards := make([]Board, 0, len(rows))
	for _, row := range rows {
		boards = append(boards, *FromDataModel(row))
	}
	return boards, nil
}

// AllBoards is the admin catalog view, inactive boards included.
func (s *Service) AllBoards(ctx context.Context) ([]Board, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list boards", "error", err)
		return nil, internal.NewInternalError("could not list boards", err)
	}

	boards := make([]Board, 0, len(rows))
	for _, row := range rows {
		boards = append(boards, *FromDataModel(row))
	}
	return boards, nil
}

func (s *Service) CreateBoard(ctx context.Context, dto CreateBoardDTO) (*Board, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, dto.ID)
	if err != nil {
		return nil, internal.NewInternalError("could not look up board", err)
	}
	if existing != nil {
		return nil, internal.NewConflictError("board id already exists", internal.ErrCodeDuplicateIdentifier)
	}

	b := NewBoard(dto.ID, dto.Name, dto.Description, dto.SortOrder)
	if err := s.repo.Create(ctx, ToDataModel(b)); err != nil {
		s.logger.Error("failed to create board", "board_id", dto.ID, "error", err)
		return nil, internal.NewInternalError("could not create board", err)
	}

	s.publishMutation(ctx, "board.create", b.ID, nil)
	return b, nil
}

func (s *Service) UpdateBoard(ctx context.Context, boardID string, dto UpdateBoardDTO) (*Board, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, boardID)
	if err != nil {
		return nil, internal.NewInternalError("could not look up board", err)
	}
	if row == nil {
		return nil, internal.ErrBoardNotFound
	}

	b := FromDataModel(row)
	b.Name = dto.Name
	b.Description = dto.Description
	b.SortOrder = dto.SortOrder
	b.IsActive = dto.IsActive

	if err := s.repo.Update(ctx, ToDataModel(b)); err != nil {
		s.logger.Error("failed to update board", "board_id", boardID, "error", err)
		return nil, internal.NewInternalError("could not update board", err)
	}

	s.publishMutation(ctx, "board.update", boardID, map[string]any{"is_active": b.IsActive})
	return b, nil
}

// DeleteBoard refuses while posts still reference the board, then removes the
// board and its access matrix rows in one transaction.
func (s *Service) DeleteBoard(ctx context.Context, boardID string) error {
	row, err := s.repo.GetByID(ctx, boardID)
	if err != nil {
		return internal.NewInternalError("could not look up board", err)
	}
	if row == nil {
		return internal.ErrBoardNotFound
	}

	count, err := s.repo.CountPosts(ctx, boardID)
	if err != nil {
		return internal.NewInternalError("could not count board content", err)
	}
	if count > 0 {
		return internal.NewConflictError("board still has posts", internal.ErrCodeReferentialIntegrity)
	}

	if err := s.repo.DeleteCascade(ctx, boardID); err != nil {
		s.logger.Error("failed to delete board", "board_id", boardID, "error", err)
		return internal.NewInternalError("could not delete board", err)
	}

	s.publishMutation(ctx, "board.delete", boardID, nil)
	return nil
}

func (s *Service) publishMutation(ctx context.Context, action, resource string, details map[string]any) {
	if s.auditBus == nil {
		return
	}
	actor, _ := internal.ActorFromContext(ctx)
	s.auditBus.PublishSync(ctx, audit.NewMutationEvent(actor.UserID, action, resource, details))
}
