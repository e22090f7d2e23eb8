package role

import (
	"context"
	"log/slog"

	"github.com/workhub/workspace-portal/internal"
	"github.com/workhub/workspace-portal/internal/core/audit"
	identityDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/identity"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*identityDatamodel.Role, error)
	GetByID(ctx context.Context, id string) (*identityDatamodel.Role, error)
	Create(ctx context.Context, r *identityDatamodel.Role) error
	Update(ctx context.Context, r *identityDatamodel.Role) error
	CountUsers(ctx context.Context, roleID string) (int64, error)
	DeleteCascade(ctx context.Context, roleID string) error
}

type Service struct {
	repo     RepositoryAPI
	auditBus *audit.Bus
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, auditBus *audit.Bus, logger *slog.Logger) *Service {
	return &Service{repo: repo, auditBus: auditBus, logger: logger}
}

func (s *Service) AllRoles(ctx context.Context) ([]Role, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list roles", "error", err)
		return nil, internal.NewInternalError("could not list roles", err)
	}

	roles := make([]Role, 0, len(rows))
	for _, row := range rows {
		roles = append(roles, *FromDataModel(row))
	}
	return roles, nil
}

func (s *Service) CreateRole(ctx context.Context, dto CreateRoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, dto.ID)
	if err != nil {
		return nil, internal.NewInternalError("could not look up role", err)
	}
	if existing != nil {
		return nil, internal.NewConflictError("role id already exists", internal.ErrCodeDuplicateIdentifier)
	}

	r := NewRole(dto.ID, dto.Name, dto.Description)
	if err := s.repo.Create(ctx, ToDataModel(r)); err != nil {
		s.logger.Error("failed to create role", "role_id", dto.ID, "error", err)
		return nil, internal.NewInternalError("could not create role", err)
	}

	s.publishMutation(ctx, "role.create", r.ID, nil)
	return r, nil
}

// UpdateRole applies name, description and activation. The admin role can be
// renamed but never deactivated.
func (s *Service) UpdateRole(ctx context.Context, roleID string, dto UpdateRoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, roleID)
	if err != nil {
		return nil, internal.NewInternalError("could not look up role", err)
	}
	if row == nil {
		return nil, internal.ErrRoleNotFound
	}

	if roleID == internal.RoleAdminID && !dto.IsActive {
		return nil, internal.NewForbiddenError("the admin role cannot be deactivated", internal.ErrCodeSelfProtect)
	}

	r := FromDataModel(row)
	r.Name = dto.Name
	r.Description = dto.Description
	r.IsActive = dto.IsActive

	if err := s.repo.Update(ctx, ToDataModel(r)); err != nil {
		s.logger.Error("failed to update role", "role_id", roleID, "error", err)
		return nil, internal.NewInternalError("could not update role", err)
	}

	s.publishMutation(ctx, "role.update", roleID, map[string]any{"is_active": r.IsActive})
	return r, nil
}

// DeleteRole refuses for the admin role and for roles with assigned users,
// then removes the role together with its matrix and event-permission rows.
func (s *Service) DeleteRole(ctx context.Context, roleID string) error {
	if roleID == internal.RoleAdminID {
		return internal.NewForbiddenError("the admin role cannot be deleted", internal.ErrCodeSelfProtect)
	}

	row, err := s.repo.GetByID(ctx, roleID)
	if err != nil {
		return internal.NewInternalError("could not look up role", err)
	}
	if row == nil {
		return internal.ErrRoleNotFound
	}

	count, err := s.repo.CountUsers(ctx, roleID)
	if err != nil {
		return internal.NewInternalError("could not count role members", err)
	}
	if count > 0 {
		return internal.NewConflictError("role still has assigned users", internal.ErrCodeReferentialIntegrity)
	}

	if err := s.repo.DeleteCascade(ctx, roleID); err != nil {
		s.logger.Error("failed to delete role", "role_id", roleID, "error", err)
		return internal.NewInternalError("could not delete role", err)
	}

	s.publishMutation(ctx, "role.delete", roleID, nil)
	return nil
}

func (s *Service) publishMutation(ctx context.Context, action, resource string, details map[string]any) {
	if s.auditBus == nil {
		return
	}
	actor, _ := internal.ActorFromContext(ctx)
	s.auditBus.PublishSync(ctx, audit.NewMutationEvent(actor.UserID, action, resource, details))
}
