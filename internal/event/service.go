package event

import (
	"context"
	"log/slog"
	"time"

	"github.com/workhub/workspace-portal/internal"
	"github.com/workhub/workspace-portal/internal/core/audit"
	eventDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/event"
)

type RepositoryAPI interface {
	GetRange(ctx context.Context, from, to time.Time) ([]*eventDatamodel.Event, error)
	GetAll(ctx context.Context) ([]*eventDatamodel.Event, error)
	GetByID(ctx context.Context, id int64) (*eventDatamodel.Event, error)
	Create(ctx context.Context, e *eventDatamodel.Event) error
	Update(ctx context.Context, e *eventDatamodel.Event) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo     RepositoryAPI
	auditBus *audit.Bus
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, auditBus *audit.Bus, logger *slog.Logger) *Service {
	return &Service{repo: repo, auditBus: auditBus, logger: logger}
}

func (s *Service) ListRange(ctx context.Context, q RangeQuery) ([]Event, error) {
	rows, err := s.repo.GetRange(ctx, q.From, q.To)
	if err != nil {
		s.logger.Error("failed to list events", "error", err)
		return nil, internal.NewInternalError("could not list events", err)
	}
	return fromRows(rows), nil
}

func (s *Service) AllEvents(ctx context.Context) ([]Event, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list events", "error", err)
		return nil, internal.NewInternalError("could not list events", err)
	}
	return fromRows(rows), nil
}

func (s *Service) GetEvent(ctx context.Context, id int64) (*Event, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("could not look up event", err)
	}
	if row == nil {
		return nil, internal.ErrEventNotFound
	}
	return FromDataModel(row), nil
}

// CreateEvent records the authenticated actor as owner.
func (s *Service) CreateEvent(ctx context.Context, dto EventDTO) (*Event, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	actor, ok := internal.ActorFromContext(ctx)
	if !ok {
		return nil, internal.ErrPermissionDenied
	}

	row := &eventDatamodel.Event{
		Title:    dto.Title,
		Body:     dto.Body,
		Location: dto.Location,
		Start:    dto.Start,
		End:      dto.End,
		OwnerID:  actor.UserID,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create event", "error", err)
		return nil, internal.NewInternalError("could not create event", err)
	}
	return FromDataModel(row), nil
}

// UpdateEvent assumes the event guard already settled who may touch the
// event; ownership is never transferred by an update.
func (s *Service) UpdateEvent(ctx context.Context, id int64, dto EventDTO) (*Event, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("could not look up event", err)
	}
	if row == nil {
		return nil, internal.ErrEventNotFound
	}

	row.Title = dto.Title
	row.Body = dto.Body
	row.Location = dto.Location
	row.Start = dto.Start
	row.End = dto.End

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update event", "event_id", id, "error", err)
		return nil, internal.NewInternalError("could not update event", err)
	}
	return FromDataModel(row), nil
}

func (s *Service) DeleteEvent(ctx context.Context, id int64) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return internal.NewInternalError("could not look up event", err)
	}
	if row == nil {
		return internal.ErrEventNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete event", "event_id", id, "error", err)
		return internal.NewInternalError("could not delete event", err)
	}

	if s.auditBus != nil {
		actor, _ := internal.ActorFromContext(ctx)
		s.auditBus.PublishSync(ctx, audit.NewMutationEvent(actor.UserID, "event.delete", row.Title, nil))
	}
	return nil
}

func fromRows(rows []*eventDatamodel.Event) []Event {
	events := make([]Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, *FromDataModel(row))
	}
	return events
}
