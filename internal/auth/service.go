package auth

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/workhub/workspace-portal/internal"
	"github.com/workhub/workspace-portal/internal/core/audit"
)

// Service is the login/refresh entry point: it verifies credentials against
// the identity store, enforces the role-activation check on every issue path,
// and turns a snapshot into a signed token.
type Service struct {
	repo       RepositoryAPI
	tokens     TokenIssuerAPI
	snapshots  *SnapshotBuilder
	auditBus   *audit.Bus
	logger     *slog.Logger
	bcryptCost int
}

func NewService(repo RepositoryAPI, tokens TokenIssuerAPI, auditBus *audit.Bus, logger *slog.Logger, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		tokens:     tokens,
		snapshots:  NewSnapshotBuilder(repo),
		auditBus:   auditBus,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// Authenticate validates credentials and returns a signed token with the
// permission snapshot embedded. A correct password is still rejected when the
// user's role is inactive.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (*AuthResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserWithRole(ctx, dto.ID)
	if err != nil {
		s.publishAuth(ctx, audit.EventTypeLogin, dto.ID, false, "unknown user")
		return nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		s.publishAuth(ctx, audit.EventTypeLogin, dto.ID, false, "bad password")
		return nil, internal.ErrInvalidCredentials
	}

	if !user.Role.IsActive {
		s.publishAuth(ctx, audit.EventTypeLogin, dto.ID, false, "role inactive")
		return nil, internal.ErrRoleInactive
	}

	result, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	s.publishAuth(ctx, audit.EventTypeLogin, user.ID, true, "")
	return result, nil
}

// Refresh re-runs the identity lookup and snapshot build from scratch. A role
// deactivated after issuance blocks refresh even though the presented token
// still passes raw signature and expiry checks.
func (s *Service) Refresh(ctx context.Context, tokenString string) (*AuthResult, error) {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserWithRole(ctx, claims.UserID)
	if err != nil {
		s.publishAuth(ctx, audit.EventTypeRefresh, claims.UserID, false, "unknown user")
		return nil, internal.ErrInvalidCredentials
	}

	if !user.Role.IsActive {
		s.publishAuth(ctx, audit.EventTypeRefresh, user.ID, false, "role inactive")
		return nil, internal.ErrRoleInactive
	}

	result, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	s.publishAuth(ctx, audit.EventTypeRefresh, user.ID, true, "")
	return result, nil
}

func (s *Service) issue(ctx context.Context, user *User) (*AuthResult, error) {
	snapshot, err := s.snapshots.Build(ctx, user)
	if err != nil {
		s.logger.Error("snapshot build failed", "user_id", user.ID, "error", err)
		return nil, internal.NewInternalError("could not build permission snapshot", err)
	}

	token, err := s.tokens.Issue(user, snapshot)
	if err != nil {
		s.logger.Error("token signing failed", "user_id", user.ID, "error", err)
		return nil, internal.NewInternalError("could not issue token", err)
	}

	return &AuthResult{
		Token: token,
		User: UserView{
			ID:          user.ID,
			Name:        user.Name,
			Role:        user.RoleID,
			RoleInfo:    user.Role,
			Permissions: snapshot.Boards,
		},
	}, nil
}

// VerifyToken validates an access token and returns its claims.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	return s.tokens.Verify(tokenString)
}

// LivePermissions queries the live tables, not the token snapshot. Used by
// clients to self-check after admin edits without waiting for token expiry.
func (s *Service) LivePermissions(ctx context.Context, roleID string) (*LivePermissions, error) {
	grants, err := s.repo.ReadableBoardGrants(ctx, roleID)
	if err != nil {
		return nil, internal.NewInternalError("could not load board permissions", err)
	}

	eventGrant, err := s.repo.GetEventGrant(ctx, roleID)
	if err != nil {
		return nil, internal.NewInternalError("could not load event permissions", err)
	}

	effective := DefaultEventGrant()
	if eventGrant != nil {
		effective = *eventGrant
	}

	return &LivePermissions{
		RoleID:           roleID,
		BoardPermissions: grants,
		EventPermissions: effective,
	}, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID string, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	user, err := s.repo.GetUserWithRole(ctx, userID)
	if err != nil {
		return internal.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.CurrentPassword)); err != nil {
		return internal.ErrInvalidCredentials
	}

	hash, err := s.HashPassword(dto.NewPassword)
	if err != nil {
		return internal.NewInternalError("could not hash password", err)
	}

	if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return internal.NewInternalError("could not update password", err)
	}

	return nil
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) publishAuth(ctx context.Context, eventType, userID string, success bool, reason string) {
	if s.auditBus == nil {
		return
	}
	if err := s.auditBus.PublishSync(ctx, audit.NewAuthEvent(eventType, userID, success, reason)); err != nil {
		s.logger.Error("audit publish failed", "event_type", eventType, "error", err)
	}
}
