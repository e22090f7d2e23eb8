package event_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/workhub/workspace-portal/internal"
	eventDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/event"
	"github.com/workhub/workspace-portal/internal/event"
)

func TestEventService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Event Service Suite")
}

// MockRepository implements event.RepositoryAPI for testing
type MockRepository struct {
	events map[int64]*eventDatamodel.Event
	nextID int64
}

func NewMockRepository() *MockRepository {
	return &MockRepository{events: make(map[int64]*eventDatamodel.Event), nextID: 1}
}

func (m *MockRepository) GetRange(ctx context.Context, from, to time.Time) ([]*eventDatamodel.Event, error) {
	var result []*eventDatamodel.Event
	for _, e := range m.events {
		if !to.IsZero() && e.Start.After(to) {
			continue
		}
		if !from.IsZero() && e.End.Before(from) {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

func (m *MockRepository) GetAll(ctx context.Context) ([]*eventDatamodel.Event, error) {
	var result []*eventDatamodel.Event
	for _, e := range m.events {
		result = append(result, e)
	}
	return result, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*eventDatamodel.Event, error) {
	return m.events[id], nil
}

func (m *MockRepository) Create(ctx context.Context, e *eventDatamodel.Event) error {
	e.ID = m.nextID
	m.nextID++
	m.events[e.ID] = e
	return nil
}

func (m *MockRepository) Update(ctx context.Context, e *eventDatamodel.Event) error {
	m.events[e.ID] = e
	return nil
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	delete(m.events, id)
	return nil
}

var _ = Describe("Event Service", func() {
	var (
		repo    *MockRepository
		service *event.Service
		ctx     context.Context
		day     = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	)

	asActor := func(userID string) context.Context {
		return internal.ContextWithActor(context.Background(), internal.Actor{
			UserID: userID,
			RoleID: "staff",
		})
	}

	BeforeEach(func() {
		repo = NewMockRepository()
		service = event.NewService(repo, nil, slog.Default())
		ctx = context.Background()
	})

	Describe("CreateEvent", func() {
		It("should record the actor as owner", func() {
			created, err := service.CreateEvent(asActor("alice"), event.EventDTO{
				Title: "Standup",
				Start: day,
				End:   day.Add(30 * time.Minute),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.OwnerID).To(Equal("alice"))
			Expect(created.ID).NotTo(BeZero())
		})

		It("should reject an end before the start", func() {
			_, err := service.CreateEvent(asActor("alice"), event.EventDTO{
				Title: "Backwards",
				Start: day,
				End:   day.Add(-time.Hour),
			})
			Expect(err).To(HaveOccurred())
		})

		It("should reject a missing title", func() {
			_, err := service.CreateEvent(asActor("alice"), event.EventDTO{
				Title: "   ",
				Start: day,
				End:   day.Add(time.Hour),
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ListRange", func() {
		BeforeEach(func() {
			repo.events[1] = &eventDatamodel.Event{ID: 1, Title: "Early", Start: day, End: day.Add(time.Hour)}
			repo.events[2] = &eventDatamodel.Event{ID: 2, Title: "Late", Start: day.AddDate(0, 1, 0), End: day.AddDate(0, 1, 0).Add(time.Hour)}
		})

		It("should return only events overlapping the window", func() {
			events, err := service.ListRange(ctx, event.RangeQuery{
				From: day.Add(-time.Hour),
				To:   day.Add(2 * time.Hour),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(events).To(HaveLen(1))
			Expect(events[0].Title).To(Equal("Early"))
		})

		It("should widen to everything when the window is zero", func() {
			events, err := service.ListRange(ctx, event.RangeQuery{})
			Expect(err).NotTo(HaveOccurred())
			Expect(events).To(HaveLen(2))
		})
	})

	Describe("UpdateEvent", func() {
		It("should keep the original owner", func() {
			repo.events[7] = &eventDatamodel.Event{
				ID: 7, Title: "Review", OwnerID: "alice",
				Start: day, End: day.Add(time.Hour),
			}

			updated, err := service.UpdateEvent(asActor("bob"), 7, event.EventDTO{
				Title: "Review (moved)",
				Start: day.Add(time.Hour),
				End:   day.Add(2 * time.Hour),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Title).To(Equal("Review (moved)"))
			Expect(updated.OwnerID).To(Equal("alice"))
		})

		It("should return not found for an unknown event", func() {
			_, err := service.UpdateEvent(asActor("alice"), 99, event.EventDTO{
				Title: "Ghost",
				Start: day,
				End:   day.Add(time.Hour),
			})
			Expect(err).To(MatchError(internal.ErrEventNotFound))
		})
	})

	Describe("DeleteEvent", func() {
		It("should remove the event", func() {
			repo.events[3] = &eventDatamodel.Event{ID: 3, Title: "Old", Start: day, End: day.Add(time.Hour)}

			Expect(service.DeleteEvent(asActor("alice"), 3)).To(Succeed())
			Expect(repo.events).NotTo(HaveKey(int64(3)))
		})

		It("should return not found for an unknown event", func() {
			err := service.DeleteEvent(asActor("alice"), 42)
			Expect(err).To(MatchError(internal.ErrEventNotFound))
		})
	})
})
