package auth_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/workhub/workspace-portal/internal"
	"github.com/workhub/workspace-portal/internal/auth"
	"github.com/workhub/workspace-portal/internal/core/audit"
)

// MockAccessStore implements auth.BoardAccessStore and auth.EventAccessStore
type MockAccessStore struct {
	boards      map[string]*auth.BoardInfo
	boardGrants map[string]*auth.BoardGrantFlags
	eventOwners map[int64]string
	eventGrants map[string]*auth.EventGrant
}

func NewMockAccessStore() *MockAccessStore {
	return &MockAccessStore{
		boards:      make(map[string]*auth.BoardInfo),
		boardGrants: make(map[string]*auth.BoardGrantFlags),
		eventOwners: make(map[int64]string),
		eventGrants: make(map[string]*auth.EventGrant),
	}
}

func (m *MockAccessStore) GetBoard(ctx context.Context, boardID string) (*auth.BoardInfo, error) {
	return m.boards[boardID], nil
}

func (m *MockAccessStore) GetBoardGrant(ctx context.Context, boardID, roleID string) (*auth.BoardGrantFlags, error) {
	return m.boardGrants[boardID+"/"+roleID], nil
}

func (m *MockAccessStore) GetEventOwner(ctx context.Context, eventID int64) (string, error) {
	return m.eventOwners[eventID], nil
}

func (m *MockAccessStore) GetEventGrant(ctx context.Context, roleID string) (*auth.EventGrant, error) {
	return m.eventGrants[roleID], nil
}

var _ = Describe("Authorizer", func() {
	var (
		store      *MockAccessStore
		authorizer *auth.Authorizer
		decisions  []*audit.DecisionEvent
		nextCalled bool
		next       http.Handler
	)

	BeforeEach(func() {
		store = NewMockAccessStore()
		decisions = nil
		nextCalled = false

		bus := audit.NewBus(slog.Default())
		bus.Subscribe(audit.EventTypeDecision, func(ctx context.Context, e audit.Event) error {
			if d, ok := e.(*audit.DecisionEvent); ok {
				decisions = append(decisions, d)
			}
			return nil
		})

		authorizer = auth.NewAuthorizer(store, store, bus, slog.Default())
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nextCalled = true
			w.WriteHeader(http.StatusOK)
		})
	})

	makeRequest := func(mw func(http.Handler) http.Handler, method, path string, actor *internal.Actor, params map[string]string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)

		rctx := chi.NewRouteContext()
		for key, value := range params {
			rctx.URLParams.Add(key, value)
		}
		ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
		if actor != nil {
			ctx = internal.ContextWithActor(ctx, *actor)
		}

		rec := httptest.NewRecorder()
		mw(next).ServeHTTP(rec, req.WithContext(ctx))
		return rec
	}

	errorCode := func(rec *httptest.ResponseRecorder) string {
		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		return body.Error.Code
	}

	staff := internal.Actor{UserID: "alice", RoleID: "staff"}
	admin := internal.Actor{UserID: "root", RoleID: internal.RoleAdminID}

	Describe("RequireBoard", func() {
		BeforeEach(func() {
			store.boards["general"] = &auth.BoardInfo{ID: "general", Name: "General", IsActive: true}
		})

		It("should return 401 without an authenticated actor", func() {
			rec := makeRequest(authorizer.RequireBoard(auth.ActionRead), http.MethodGet, "/boards/general/posts", nil, map[string]string{"boardID": "general"})
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(nextCalled).To(BeFalse())
		})

		It("should deny when no matrix row exists", func() {
			rec := makeRequest(authorizer.RequireBoard(auth.ActionRead), http.MethodGet, "/boards/general/posts", &staff, map[string]string{"boardID": "general"})
			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(errorCode(rec)).To(Equal("PERMISSION_DENIED"))
			Expect(nextCalled).To(BeFalse())
		})

		It("should allow read but deny write on a read-only row", func() {
			store.boardGrants["general/staff"] = &auth.BoardGrantFlags{CanRead: true}

			rec := makeRequest(authorizer.RequireBoard(auth.ActionRead), http.MethodGet, "/boards/general/posts", &staff, map[string]string{"boardID": "general"})
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(nextCalled).To(BeTrue())

			nextCalled = false
			rec = makeRequest(authorizer.RequireBoard(auth.ActionWrite), http.MethodPost, "/boards/general/posts", &staff, map[string]string{"boardID": "general"})
			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(nextCalled).To(BeFalse())
		})

		It("should return 404 for a missing board", func() {
			rec := makeRequest(authorizer.RequireBoard(auth.ActionRead), http.MethodGet, "/boards/nope/posts", &staff, map[string]string{"boardID": "nope"})
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(errorCode(rec)).To(Equal("BOARD_NOT_FOUND"))
		})

		It("should deny an inactive board for everyone, admin included", func() {
			store.boards["archive"] = &auth.BoardInfo{ID: "archive", Name: "Archive", IsActive: false}
			store.boardGrants["archive/"+internal.RoleAdminID] = &auth.BoardGrantFlags{CanRead: true, CanWrite: true, CanDelete: true}

			rec := makeRequest(authorizer.RequireBoard(auth.ActionRead), http.MethodGet, "/boards/archive/posts", &admin, map[string]string{"boardID": "archive"})
			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(errorCode(rec)).To(Equal("BOARD_INACTIVE"))
		})

		It("should publish a decision for allow and deny alike", func() {
			store.boardGrants["general/staff"] = &auth.BoardGrantFlags{CanRead: true}

			makeRequest(authorizer.RequireBoard(auth.ActionRead), http.MethodGet, "/boards/general/posts", &staff, map[string]string{"boardID": "general"})
			makeRequest(authorizer.RequireBoard(auth.ActionDelete), http.MethodDelete, "/boards/general/posts/1", &staff, map[string]string{"boardID": "general"})

			Expect(decisions).To(HaveLen(2))
			Expect(decisions[0].Allowed).To(BeTrue())
			Expect(decisions[1].Allowed).To(BeFalse())
			Expect(decisions[1].ActorID).To(Equal("alice"))
			Expect(decisions[1].Resource).To(Equal("board:general"))
		})
	})

	Describe("RequireEvent", func() {
		It("should allow the owner to update regardless of role flags", func() {
			store.eventOwners[7] = "alice"
			store.eventGrants["staff"] = &auth.EventGrant{CanRead: true}

			rec := makeRequest(authorizer.RequireEvent(auth.ActionUpdate), http.MethodPut, "/events/7", &staff, map[string]string{"eventID": "7"})
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(nextCalled).To(BeTrue())
		})

		It("should deny a non-owner without an update grant", func() {
			store.eventOwners[7] = "bob"

			rec := makeRequest(authorizer.RequireEvent(auth.ActionUpdate), http.MethodPut, "/events/7", &staff, map[string]string{"eventID": "7"})
			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(nextCalled).To(BeFalse())
		})

		It("should default a missing permission row to read-only", func() {
			rec := makeRequest(authorizer.RequireEvent(auth.ActionRead), http.MethodGet, "/events", &staff, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			nextCalled = false
			rec = makeRequest(authorizer.RequireEvent(auth.ActionCreate), http.MethodPost, "/events", &staff, nil)
			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(nextCalled).To(BeFalse())
		})

		It("should return 404 for a missing event", func() {
			rec := makeRequest(authorizer.RequireEvent(auth.ActionDelete), http.MethodDelete, "/events/99", &staff, map[string]string{"eventID": "99"})
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(errorCode(rec)).To(Equal("EVENT_NOT_FOUND"))
		})

		It("should honor an explicit row over the default", func() {
			store.eventGrants["staff"] = &auth.EventGrant{CanCreate: true, CanRead: true}

			rec := makeRequest(authorizer.RequireEvent(auth.ActionCreate), http.MethodPost, "/events", &staff, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(nextCalled).To(BeTrue())
		})

		It("should reject a malformed event id before any permission check", func() {
			store.eventGrants["staff"] = &auth.EventGrant{CanRead: true, CanUpdate: true}

			rec := makeRequest(authorizer.RequireEvent(auth.ActionUpdate), http.MethodPut, "/events/abc", &staff, map[string]string{"eventID": "abc"})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(errorCode(rec)).To(Equal("INVALID_IDENTIFIER_FORMAT"))
			Expect(nextCalled).To(BeFalse())
		})
	})

	Describe("RequireAdmin", func() {
		It("should pass the admin role through", func() {
			rec := makeRequest(authorizer.RequireAdmin(), http.MethodGet, "/admin/users", &admin, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(nextCalled).To(BeTrue())
		})

		It("should deny every other role", func() {
			rec := makeRequest(authorizer.RequireAdmin(), http.MethodGet, "/admin/users", &staff, nil)
			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(nextCalled).To(BeFalse())
			Expect(decisions).To(HaveLen(1))
			Expect(decisions[0].Allowed).To(BeFalse())
		})
	})
})
