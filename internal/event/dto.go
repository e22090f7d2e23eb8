package event

import (
	"strings"
	"time"

	"github.com/workhub/workspace-portal/internal"
)

type EventDTO struct {
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Location string    `json:"location"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

func (d *EventDTO) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return internal.NewValidationFieldError("title", "title is required", internal.ErrCodeMissingField)
	}
	if d.Start.IsZero() || d.End.IsZero() {
		return internal.NewValidationFieldError("start", "start and end are required", internal.ErrCodeMissingField)
	}
	if d.End.Before(d.Start) {
		return internal.NewValidationFieldError("end", "end must not be before start", internal.ErrCodeValidationFailed)
	}
	return nil
}

// RangeQuery selects events overlapping [From, To]. Zero values widen the
// window to everything.
type RangeQuery struct {
	From time.Time
	To   time.Time
}

type EventListResponse struct {
	Events []Event `json:"events"`
}
