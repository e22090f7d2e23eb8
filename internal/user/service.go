package user

import (
	"context"
	"log/slog"
	"time"

	"github.com/workhub/workspace-portal/internal"
	"github.com/workhub/workspace-portal/internal/core/audit"
	identityDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/identity"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*identityDatamodel.User, error)
	GetByID(ctx context.Context, id string) (*identityDatamodel.User, error)
	GetRole(ctx context.Context, roleID string) (*identityDatamodel.Role, error)
	Create(ctx context.Context, u *identityDatamodel.User) error
	Update(ctx context.Context, u *identityDatamodel.User) error
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
	Delete(ctx context.Context, id string) error
}

// PasswordHasherAPI is satisfied by the auth service so both login and admin
// resets share one bcrypt cost.
type PasswordHasherAPI interface {
	HashPassword(password string) (string, error)
}

type Service struct {
	repo     RepositoryAPI
	hasher   PasswordHasherAPI
	auditBus *audit.Bus
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, hasher PasswordHasherAPI, auditBus *audit.Bus, logger *slog.Logger) *Service {
	return &Service{repo: repo, hasher: hasher, auditBus: auditBus, logger: logger}
}

func (s *Service) AllUsers(ctx context.Context) ([]User, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("could not list users", err)
	}

	users := make([]User, 0, len(rows))
	for _, row := range rows {
		users = append(users, *FromDataModel(row))
	}
	return users, nil
}

// CreateUser requires the target role to exist and be active; accounts are
// never created into a role nobody can log in with.
func (s *Service) CreateUser(ctx context.Context, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, dto.ID)
	if err != nil {
		return nil, internal.NewInternalError("could not look up user", err)
	}
	if existing != nil {
		return nil, internal.NewConflictError("user id already exists", internal.ErrCodeDuplicateIdentifier)
	}

	role, err := s.repo.GetRole(ctx, dto.RoleID)
	if err != nil {
		return nil, internal.NewInternalError("could not look up role", err)
	}
	if role == nil {
		return nil, internal.ErrRoleNotFound
	}
	if !role.IsActive {
		return nil, internal.ErrRoleInactive
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "user_id", dto.ID, "error", err)
		return nil, internal.NewInternalError("could not hash password", err)
	}

	now := time.Now()
	row := &identityDatamodel.User{
		ID:           dto.ID,
		Name:         dto.Name,
		RoleID:       dto.RoleID,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create user", "user_id", dto.ID, "error", err)
		return nil, internal.NewInternalError("could not create user", err)
	}

	s.publishMutation(ctx, "user.create", dto.ID, map[string]any{"role_id": dto.RoleID})
	return FromDataModel(row), nil
}

// UpdateUser renames and reassigns roles. Admins cannot move their own
// account out of the admin role, which would lock the admin API.
func (s *Service) UpdateUser(ctx context.Context, userID string, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, internal.NewInternalError("could not look up user", err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}

	if actor, ok := internal.ActorFromContext(ctx); ok {
		if actor.UserID == userID && dto.RoleID != row.RoleID {
			return nil, internal.NewForbiddenError("cannot change your own role", internal.ErrCodeSelfProtect)
		}
	}

	if dto.RoleID != row.RoleID {
		role, err := s.repo.GetRole(ctx, dto.RoleID)
		if err != nil {
			return nil, internal.NewInternalError("could not look up role", err)
		}
		if role == nil {
			return nil, internal.ErrRoleNotFound
		}
	}

	row.Name = dto.Name
	row.RoleID = dto.RoleID
	row.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update user", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("could not update user", err)
	}

	s.publishMutation(ctx, "user.update", userID, map[string]any{"role_id": dto.RoleID})
	return FromDataModel(row), nil
}

// DeleteUser refuses the actor's own account.
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	if actor, ok := internal.ActorFromContext(ctx); ok && actor.UserID == userID {
		return internal.NewForbiddenError("cannot delete your own account", internal.ErrCodeSelfProtect)
	}

	row, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return internal.NewInternalError("could not look up user", err)
	}
	if row == nil {
		return internal.ErrUserNotFound
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		s.logger.Error("failed to delete user", "user_id", userID, "error", err)
		return internal.NewInternalError("could not delete user", err)
	}

	s.publishMutation(ctx, "user.delete", userID, nil)
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, userID string, dto ResetPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	row, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return internal.NewInternalError("could not look up user", err)
	}
	if row == nil {
		return internal.ErrUserNotFound
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "user_id", userID, "error", err)
		return internal.NewInternalError("could not hash password", err)
	}

	if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		s.logger.Error("failed to reset password", "user_id", userID, "error", err)
		return internal.NewInternalError("could not reset password", err)
	}

	s.publishMutation(ctx, "user.reset_password", userID, nil)
	return nil
}

func (s *Service) publishMutation(ctx context.Context, action, resource string, details map[string]any) {
	if s.auditBus == nil {
		return
	}
	actor, _ := internal.ActorFromContext(ctx)
	s.auditBus.PublishSync(ctx, audit.NewMutationEvent(actor.UserID, action, resource, details))
}
