package event

import (
	"time"

	eventDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/event"
)

// Event is a calendar entry. The owner keeps full control over it regardless
// of what the role's event permission row says.
type Event struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Location  string    `json:"location"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ToDataModel(e *Event) *eventDatamodel.Event {
	return &eventDatamodel.Event{
		ID:        e.ID,
		Title:     e.Title,
		Body:      e.Body,
		Location:  e.Location,
		Start:     e.Start,
		End:       e.End,
		OwnerID:   e.OwnerID,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func FromDataModel(e *eventDatamodel.Event) *Event {
	return &Event{
		ID:        e.ID,
		Title:     e.Title,
		Body:      e.Body,
		Location:  e.Location,
		Start:     e.Start,
		End:       e.End,
		OwnerID:   e.OwnerID,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
