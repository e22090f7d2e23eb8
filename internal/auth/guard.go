package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/workhub/workspace-portal/internal"
	"github.com/workhub/workspace-portal/internal/core/audit"
	"github.com/workhub/workspace-portal/internal/transport"
)

// BoardInfo is the live board state the board guard needs.
type BoardInfo struct {
	ID       string
	Name     string
	IsActive bool
}

// BoardGrantFlags is one live matrix row. A nil result from the store means
// no row, which is a deny.
type BoardGrantFlags struct {
	CanRead   bool
	CanWrite  bool
	CanDelete bool
}

func (f BoardGrantFlags) Allows(action Action) bool {
	switch action {
	case ActionRead:
		return f.CanRead
	case ActionWrite:
		return f.CanWrite
	case ActionDelete:
		return f.CanDelete
	default:
		return false
	}
}

func (g EventGrant) Allows(action Action) bool {
	switch action {
	case ActionCreate:
		return g.CanCreate
	case ActionRead:
		return g.CanRead
	case ActionUpdate:
		return g.CanUpdate
	case ActionDelete:
		return g.CanDelete
	default:
		return false
	}
}

type BoardAccessStore interface {
	GetBoard(ctx context.Context, boardID string) (*BoardInfo, error)
	GetBoardGrant(ctx context.Context, boardID, roleID string) (*BoardGrantFlags, error)
}

type EventAccessStore interface {
	GetEventOwner(ctx context.Context, eventID int64) (string, error)
	GetEventGrant(ctx context.Context, roleID string) (*EventGrant, error)
}

// Authorizer is the authorization stage of the request pipeline. Every check
// runs against the live tables; the snapshot inside the token is never
// consulted here. Decisions are never cached past the single request.
type Authorizer struct {
	boards   BoardAccessStore
	events   EventAccessStore
	auditBus *audit.Bus
	logger   *slog.Logger
}

func NewAuthorizer(boards BoardAccessStore, events EventAccessStore, auditBus *audit.Bus, logger *slog.Logger) *Authorizer {
	return &Authorizer{
		boards:   boards,
		events:   events,
		auditBus: auditBus,
		logger:   logger,
	}
}

// RequireBoard gates a board-scoped content action on the live permission
// matrix. Order of checks: board exists, board active, matrix row grants the
// action. Absence of a row is a deny.
func (a *Authorizer) RequireBoard(action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := internal.ActorFromContext(r.Context())
			if !ok {
				transport.WriteUnauthenticated(w)
				return
			}

			boardID := chi.URLParam(r, "boardID")
			if boardID == "" {
				transport.WriteAppError(w, internal.NewValidationError("board id is required", internal.ErrCodeMissingField))
				return
			}
			resource := "board:" + boardID

			board, err := a.boards.GetBoard(r.Context(), boardID)
			if err != nil {
				a.fail(w, r.Context(), actor, action, resource, err)
				return
			}
			if board == nil {
				a.deny(w, r.Context(), actor, action, resource, internal.ErrBoardNotFound)
				return
			}
			if !board.IsActive {
				a.deny(w, r.Context(), actor, action, resource, internal.ErrBoardInactive)
				return
			}

			grant, err := a.boards.GetBoardGrant(r.Context(), boardID, actor.RoleID)
			if err != nil {
				a.fail(w, r.Context(), actor, action, resource, err)
				return
			}
			if grant == nil || !grant.Allows(action) {
				a.deny(w, r.Context(), actor, action, resource, internal.ErrPermissionDenied)
				return
			}

			a.allow(r.Context(), actor, action, resource, "")
			next.ServeHTTP(w, r)
		})
	}
}

// RequireEvent gates a calendar-event action. For update and delete the
// target event is loaded first: its owner always passes regardless of role
// flags. Everyone else falls back to the live per-role row, defaulting to
// read-only when no row exists.
func (a *Authorizer) RequireEvent(action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := internal.ActorFromContext(r.Context())
			if !ok {
				transport.WriteUnauthenticated(w)
				return
			}

			resource := "event"
			if raw := chi.URLParam(r, "eventID"); raw != "" {
				eventID, err := strconv.ParseInt(raw, 10, 64)
				if err != nil || eventID <= 0 {
					transport.WriteAppError(w, internal.NewValidationError("event id must be a positive integer", internal.ErrCodeInvalidIdentifier))
					return
				}
				resource = "event:" + raw

				owner, err := a.events.GetEventOwner(r.Context(), eventID)
				if err != nil {
					a.fail(w, r.Context(), actor, action, resource, err)
					return
				}
				if owner == "" {
					a.deny(w, r.Context(), actor, action, resource, internal.ErrEventNotFound)
					return
				}
				if owner == actor.UserID {
					a.allow(r.Context(), actor, action, resource, "ownership override")
					next.ServeHTTP(w, r)
					return
				}
			}

			grant, err := a.events.GetEventGrant(r.Context(), actor.RoleID)
			if err != nil {
				a.fail(w, r.Context(), actor, action, resource, err)
				return
			}

			effective := DefaultEventGrant()
			if grant != nil {
				effective = *grant
			}

			if !effective.Allows(action) {
				a.deny(w, r.Context(), actor, action, resource, internal.ErrPermissionDenied)
				return
			}

			a.allow(r.Context(), actor, action, resource, "")
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin gates the admin resource family on the distinguished role id.
func (a *Authorizer) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := internal.ActorFromContext(r.Context())
			if !ok {
				transport.WriteUnauthenticated(w)
				return
			}

			resource := "admin:" + r.URL.Path
			if !actor.IsAdmin() {
				a.deny(w, r.Context(), actor, "admin", resource, internal.ErrPermissionDenied)
				return
			}

			a.allow(r.Context(), actor, "admin", resource, "")
			next.ServeHTTP(w, r)
		})
	}
}

func (a *Authorizer) allow(ctx context.Context, actor internal.Actor, action Action, resource, reason string) {
	a.publish(ctx, actor, action, resource, true, reason)
}

func (a *Authorizer) deny(w http.ResponseWriter, ctx context.Context, actor internal.Actor, action Action, resource string, appErr *internal.AppError) {
	a.publish(ctx, actor, action, resource, false, string(appErr.Code))
	transport.WriteAppError(w, appErr)
}

func (a *Authorizer) fail(w http.ResponseWriter, ctx context.Context, actor internal.Actor, action Action, resource string, err error) {
	a.logger.Error("authorization check failed",
		"actor_id", actor.UserID,
		"action", action,
		"resource", resource,
		"error", err)
	transport.WriteAppError(w, internal.NewInternalError("authorization check failed", err))
}

func (a *Authorizer) publish(ctx context.Context, actor internal.Actor, action Action, resource string, allowed bool, reason string) {
	if a.auditBus == nil {
		return
	}
	event := audit.NewDecisionEvent(actor.UserID, actor.RoleID, string(action), resource, allowed, reason)
	if err := a.auditBus.PublishSync(ctx, event); err != nil {
		a.logger.Error("audit publish failed", "resource", resource, "error", err)
	}
}
