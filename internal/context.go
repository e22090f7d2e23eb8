package internal

import (
	"context"
	"time"
)

// Actor is the authenticated-request identity produced by the authentication
// stage. Handlers and authorization middleware receive it explicitly through
// the request context; nothing downstream re-parses the token.
type Actor struct {
	UserID      string
	DisplayName string
	RoleID      string
}

// IsAdmin reports whether the actor holds the distinguished admin role.
func (a Actor) IsAdmin() bool {
	return a.RoleID == RoleAdminID
}

// RoleAdminID is the distinguished role id. It always exists and can never be
// deactivated or deleted.
const RoleAdminID = "admin"

type ctxKey string

const contextActorKey ctxKey = "actor"

func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(contextActorKey).(Actor)
	return actor, ok
}

func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, contextActorKey, actor)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
