package permission

import (
	"context"
	"log/slog"

	"github.com/workhub/workspace-portal/internal"
	"github.com/workhub/workspace-portal/internal/core/audit"
	boardDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/board"
	eventDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/event"
)

type RepositoryAPI interface {
	BoardExists(ctx context.Context, boardID string) (bool, error)
	RoleIDs(ctx context.Context) ([]string, error)
	BoardAccessRows(ctx context.Context, boardID string) ([]*boardDatamodel.BoardAccess, error)
	ReplaceBoardAccess(ctx context.Context, boardID string, rows []*boardDatamodel.BoardAccess) error
	EventPermissionRows(ctx context.Context) ([]*eventDatamodel.EventPermission, error)
	ReplaceEventPermissions(ctx context.Context, rows []*eventDatamodel.EventPermission) error
}

type Service struct {
	repo     RepositoryAPI
	auditBus *audit.Bus
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, auditBus *audit.Bus, logger *slog.Logger) *Service {
	return &Service{repo: repo, auditBus: auditBus, logger: logger}
}

// SetBoardAccess replaces the full matrix slice for one board. Rows naming
// unknown roles are dropped without error so a payload built against a stale
// role list still applies cleanly.
func (s *Service) SetBoardAccess(ctx context.Context, boardID string, dto SetBoardAccessDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	exists, err := s.repo.BoardExists(ctx, boardID)
	if err != nil {
		return internal.NewInternalError("could not look up board", err)
	}
	if !exists {
		return internal.ErrBoardNotFound
	}

	known, err := s.knownRoles(ctx)
	if err != nil {
		return err
	}

	rows := make([]*boardDatamodel.BoardAccess, 0, len(dto.Rows))
	for _, row := range dto.Rows {
		if !known[row.RoleID] {
			s.logger.Warn("dropping access row for unknown role", "board_id", boardID, "role_id", row.RoleID)
			continue
		}
		rows = append(rows, &boardDatamodel.BoardAccess{
			BoardID:   boardID,
			RoleID:    row.RoleID,
			CanRead:   row.CanRead,
			CanWrite:  row.CanWrite,
			CanDelete: row.CanDelete,
		})
	}

	if err := s.repo.ReplaceBoardAccess(ctx, boardID, rows); err != nil {
		s.logger.Error("failed to replace board access", "board_id", boardID, "error", err)
		return internal.NewInternalError("could not update board access", err)
	}

	s.publishMutation(ctx, "permission.set_board_access", boardID, map[string]any{"rows": len(rows)})
	return nil
}

// BoardAccessForBoard is the admin read view of one board's matrix slice.
func (s *Service) BoardAccessForBoard(ctx context.Context, boardID string) (*BoardAccessResponse, error) {
	exists, err := s.repo.BoardExists(ctx, boardID)
	if err != nil {
		return nil, internal.NewInternalError("could not look up board", err)
	}
	if !exists {
		return nil, internal.ErrBoardNotFound
	}

	stored, err := s.repo.BoardAccessRows(ctx, boardID)
	if err != nil {
		return nil, internal.NewInternalError("could not read board access", err)
	}

	rows := make([]BoardAccessRow, 0, len(stored))
	for _, row := range stored {
		rows = append(rows, BoardAccessRow{
			RoleID:    row.RoleID,
			CanRead:   row.CanRead,
			CanWrite:  row.CanWrite,
			CanDelete: row.CanDelete,
		})
	}
	return &BoardAccessResponse{BoardID: boardID, Rows: rows}, nil
}

// SetEventPermissions replaces the whole event permission table in one
// transaction, with the same silent drop of unknown roles.
func (s *Service) SetEventPermissions(ctx context.Context, dto SetEventPermissionsDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	known, err := s.knownRoles(ctx)
	if err != nil {
		return err
	}

	rows := make([]*eventDatamodel.EventPermission, 0, len(dto.Rows))
	for _, row := range dto.Rows {
		if !known[row.RoleID] {
			s.logger.Warn("dropping event permission for unknown role", "role_id", row.RoleID)
			continue
		}
		rows = append(rows, &eventDatamodel.EventPermission{
			RoleID:    row.RoleID,
			CanCreate: row.CanCreate,
			CanRead:   row.CanRead,
			CanUpdate: row.CanUpdate,
			CanDelete: row.CanDelete,
		})
	}

	if err := s.repo.ReplaceEventPermissions(ctx, rows); err != nil {
		s.logger.Error("failed to replace event permissions", "error", err)
		return internal.NewInternalError("could not update event permissions", err)
	}

	s.publishMutation(ctx, "permission.set_event_permissions", "events", map[string]any{"rows": len(rows)})
	return nil
}

// EventPermissionsByRole returns the effective grant for every role, with the
// read-only default filled in where no row is stored.
func (s *Service) EventPermissionsByRole(ctx context.Context) (*EventPermissionsResponse, error) {
	roleIDs, err := s.repo.RoleIDs(ctx)
	if err != nil {
		return nil, internal.NewInternalError("could not list roles", err)
	}

	stored, err := s.repo.EventPermissionRows(ctx)
	if err != nil {
		return nil, internal.NewInternalError("could not read event permissions", err)
	}

	byRole := make(map[string]*eventDatamodel.EventPermission, len(stored))
	for _, row := range stored {
		byRole[row.RoleID] = row
	}

	rows := make([]EventPermissionRow, 0, len(roleIDs))
	for _, roleID := range roleIDs {
		if row, ok := byRole[roleID]; ok {
			rows = append(rows, EventPermissionRow{
				RoleID:    row.RoleID,
				CanCreate: row.CanCreate,
				CanRead:   row.CanRead,
				CanUpdate: row.CanUpdate,
				CanDelete: row.CanDelete,
			})
			continue
		}
		rows = append(rows, DefaultEventPermissionRow(roleID))
	}
	return &EventPermissionsResponse{Rows: rows}, nil
}

func (s *Service) knownRoles(ctx context.Context) (map[string]bool, error) {
	roleIDs, err := s.repo.RoleIDs(ctx)
	if err != nil {
		return nil, internal.NewInternalError("could not list roles", err)
	}
	known := make(map[string]bool, len(roleIDs))
	for _, id := range roleIDs {
		known[id] = true
	}
	return known, nil
}

func (s *Service) publishMutation(ctx context.Context, action, resource string, details map[string]any) {
	if s.auditBus == nil {
		return
	}
	actor, _ := internal.ActorFromContext(ctx)
	s.auditBus.PublishSync(ctx, audit.NewMutationEvent(actor.UserID, action, resource, details))
}
