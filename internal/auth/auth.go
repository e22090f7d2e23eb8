package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Action names a permission flag checked by the authorization stage.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
}

type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	RoleID       string `json:"role"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role_info"`
}

// BoardGrant is one denormalized row of the permission snapshot: a board the
// role can at least read, with the write/delete flags alongside for client
// navigation.
type BoardGrant struct {
	BoardID   string `json:"boardId"`
	BoardName string `json:"boardName"`
	CanRead   bool   `json:"canRead"`
	CanWrite  bool   `json:"canWrite"`
	CanDelete bool   `json:"canDelete"`
}

// PermissionSnapshot is the point-in-time read-visibility summary embedded in
// a token at issue time. It is never mutated in place; a change requires
// reissuing the token.
type PermissionSnapshot struct {
	RoleID   string       `json:"role"`
	Boards   []BoardGrant `json:"boards"`
	IssuedAt time.Time    `json:"issuedAt"`
}

// EventGrant is the effective per-role event permission row. It only applies
// to events the actor does not own.
type EventGrant struct {
	CanCreate bool `json:"canCreate"`
	CanRead   bool `json:"canRead"`
	CanUpdate bool `json:"canUpdate"`
	CanDelete bool `json:"canDelete"`
}

// DefaultEventGrant is the fail-safe applied when a role has no
// event-permission row: read only.
func DefaultEventGrant() EventGrant {
	return EventGrant{CanRead: true}
}

// Claims is the token payload. Clients may decode it for UI purposes; the
// server treats the embedded snapshot as a navigation hint only and re-checks
// the live tables on every consequential request.
type Claims struct {
	UserID      string       `json:"user_id"`
	DisplayName string       `json:"name"`
	RoleID      string       `json:"role"`
	Permissions []BoardGrant `json:"permissions"`
	jwt.RegisteredClaims
}

// LivePermissions is the current permission view queried from the live
// tables, returned for client self-checks. Distinct from the token snapshot.
type LivePermissions struct {
	RoleID           string       `json:"role"`
	BoardPermissions []BoardGrant `json:"boardPermissions"`
	EventPermissions EventGrant   `json:"eventPermissions"`
}

// AuthResult is what login and refresh hand back to the transport layer.
type AuthResult struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

type UserView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Role        string       `json:"role"`
	RoleInfo    Role         `json:"roleInfo"`
	Permissions []BoardGrant `json:"permissions"`
}

type RepositoryAPI interface {
	GetUserWithRole(ctx context.Context, userID string) (*User, error)
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error
	ReadableBoardGrants(ctx context.Context, roleID string) ([]BoardGrant, error)
	GetEventGrant(ctx context.Context, roleID string) (*EventGrant, error)
}

type TokenIssuerAPI interface {
	Issue(user *User, snapshot PermissionSnapshot) (string, error)
	Verify(tokenString string) (*Claims, error)
}

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (*AuthResult, error)
	Refresh(ctx context.Context, tokenString string) (*AuthResult, error)
	VerifyToken(tokenString string) (*Claims, error)
	LivePermissions(ctx context.Context, roleID string) (*LivePermissions, error)
	ChangePassword(ctx context.Context, userID string, dto ChangePasswordDTO) error
	HashPassword(password string) (string, error)
}
