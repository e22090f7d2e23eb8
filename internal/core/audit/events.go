package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeDecision = "authz.decision"
	EventTypeMutation = "admin.mutation"
	EventTypeLogin    = "auth.login"
	EventTypeRefresh  = "auth.refresh"
)

// DecisionEvent records one authorization decision. Allow and deny are both
// recorded so every decision is attributable to (actor, action, resource).
type DecisionEvent struct {
	BaseEvent
	ActorID  string `json:"actor_id"`
	RoleID   string `json:"role_id"`
	Action   string `json:"action"`
	Resource string `json:"resource"`
	Allowed  bool   `json:"allowed"`
	Reason   string `json:"reason,omitempty"`
}

func NewDecisionEvent(actorID, roleID, action, resource string, allowed bool, reason string) *DecisionEvent {
	return &DecisionEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeDecision,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"actor_id": actorID,
				"role_id":  roleID,
				"action":   action,
				"resource": resource,
				"allowed":  allowed,
				"reason":   reason,
			},
		},
		ActorID:  actorID,
		RoleID:   roleID,
		Action:   action,
		Resource: resource,
		Allowed:  allowed,
		Reason:   reason,
	}
}

// MutationEvent records a privileged admin mutation.
type MutationEvent struct {
	BaseEvent
	ActorID  string                 `json:"actor_id"`
	Action   string                 `json:"action"`
	Resource string                 `json:"resource"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

func NewMutationEvent(actorID, action, resource string, details map[string]interface{}) *MutationEvent {
	return &MutationEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeMutation,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"actor_id": actorID,
				"action":   action,
				"resource": resource,
				"details":  details,
			},
		},
		ActorID:  actorID,
		Action:   action,
		Resource: resource,
		Details:  details,
	}
}

// AuthEvent records a login or refresh outcome.
type AuthEvent struct {
	BaseEvent
	UserID  string `json:"user_id"`
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
}

func NewAuthEvent(eventType, userID string, success bool, reason string) *AuthEvent {
	return &AuthEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
				"success": success,
				"reason":  reason,
			},
		},
		UserID:  userID,
		Success: success,
		Reason:  reason,
	}
}

// RegisterLogSink attaches the default slog subscriber for every audit event
// type. Denied decisions and failed logins land at warn level.
func RegisterLogSink(bus *Bus, logger *slog.Logger) {
	bus.Subscribe(EventTypeDecision, func(ctx context.Context, event Event) error {
		d, ok := event.(*DecisionEvent)
		if !ok {
			logger.Info("authz decision", "event_id", event.EventID(), "payload", event.Payload())
			return nil
		}
		level := slog.LevelInfo
		if !d.Allowed {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "authz decision",
			"event_id", d.EventID(),
			"actor_id", d.ActorID,
			"role_id", d.RoleID,
			"action", d.Action,
			"resource", d.Resource,
			"allowed", d.Allowed,
			"reason", d.Reason)
		return nil
	})

	bus.Subscribe(EventTypeMutation, func(ctx context.Context, event Event) error {
		m, ok := event.(*MutationEvent)
		if !ok {
			logger.Info("admin mutation", "event_id", event.EventID(), "payload", event.Payload())
			return nil
		}
		logger.Info("admin mutation",
			"event_id", m.EventID(),
			"actor_id", m.ActorID,
			"action", m.Action,
			"resource", m.Resource,
			"details", m.Details)
		return nil
	})

	for _, eventType := range []string{EventTypeLogin, EventTypeRefresh} {
		bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
			a, ok := event.(*AuthEvent)
			if !ok {
				logger.Info("auth event", "event_id", event.EventID(), "payload", event.Payload())
				return nil
			}
			level := slog.LevelInfo
			if !a.Success {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, a.EventType(),
				"event_id", a.EventID(),
				"user_id", a.UserID,
				"success", a.Success,
				"reason", a.Reason)
			return nil
		})
	}
}
