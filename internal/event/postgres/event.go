package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	eventDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/event"
	"github.com/workhub/workspace-portal/internal/event"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) event.RepositoryAPI {
	return &EventRepository{db: db}
}

// GetRange returns events overlapping [from, to]. A zero bound drops that
// side of the window.
func (r *EventRepository) GetRange(ctx context.Context, from, to time.Time) ([]*eventDatamodel.Event, error) {
	q := r.db.WithContext(ctx).Order("start_at ASC")
	if !to.IsZero() {
		q = q.Where("start_at <= ?", to)
	}
	if !from.IsZero() {
		q = q.Where("end_at >= ?", from)
	}

	var events []*eventDatamodel.Event
	err := q.Find(&events).Error
	return events, err
}

func (r *EventRepository) GetAll(ctx context.Context) ([]*eventDatamodel.Event, error) {
	var events []*eventDatamodel.Event
	err := r.db.WithContext(ctx).Order("start_at ASC").Find(&events).Error
	return events, err
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*eventDatamodel.Event, error) {
	var e eventDatamodel.Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *EventRepository) Create(ctx context.Context, e *eventDatamodel.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EventRepository) Update(ctx context.Context, e *eventDatamodel.Event) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&eventDatamodel.Event{}).Error
}
