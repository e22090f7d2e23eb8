package auth_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/workhub/workspace-portal/internal"
	"github.com/workhub/workspace-portal/internal/auth"
)

func TestAuthService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Service Suite")
}

// MockRepository implements auth.RepositoryAPI for testing
type MockRepository struct {
	users      map[string]*auth.User
	grants     map[string][]auth.BoardGrant
	eventRows  map[string]*auth.EventGrant
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		users:     make(map[string]*auth.User),
		grants:    make(map[string][]auth.BoardGrant),
		eventRows: make(map[string]*auth.EventGrant),
	}
}

func (m *MockRepository) GetUserWithRole(ctx context.Context, userID string) (*auth.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	u, ok := m.users[userID]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (m *MockRepository) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	if m.shouldFail {
		return m.failError
	}
	if u, ok := m.users[userID]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func (m *MockRepository) ReadableBoardGrants(ctx context.Context, roleID string) ([]auth.BoardGrant, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.grants[roleID], nil
}

func (m *MockRepository) GetEventGrant(ctx context.Context, roleID string) (*auth.EventGrant, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.eventRows[roleID], nil
}

var _ = Describe("Auth Service", func() {
	var (
		repo    *MockRepository
		tokens  *auth.TokenIssuer
		service *auth.Service
		ctx     context.Context
	)

	const secret = "test-secret-at-least-32-characters-long"

	addUser := func(id, password, roleID string, roleActive bool) {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())
		repo.users[id] = &auth.User{
			ID:           id,
			Name:         "Test " + id,
			RoleID:       roleID,
			PasswordHash: string(hash),
			Role: auth.Role{
				ID:       roleID,
				Name:     roleID,
				IsActive: roleActive,
			},
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		repo = NewMockRepository()
		tokens = auth.NewTokenIssuer(secret, time.Hour)
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		service = auth.NewService(repo, tokens, nil, logger, bcrypt.MinCost)
	})

	Describe("Authenticate", func() {
		It("should reject unknown users with invalid credentials", func() {
			_, err := service.Authenticate(ctx, auth.LoginDTO{ID: "ghost", Password: "whatever"})
			Expect(err).To(MatchError(internal.ErrInvalidCredentials))
		})

		It("should reject a wrong password with invalid credentials", func() {
			addUser("alice", "correct-horse", "staff", true)

			_, err := service.Authenticate(ctx, auth.LoginDTO{ID: "alice", Password: "battery-staple"})
			Expect(err).To(MatchError(internal.ErrInvalidCredentials))
		})

		It("should reject a correct password when the role is inactive", func() {
			addUser("bob", "hunter22", "retired", false)

			_, err := service.Authenticate(ctx, auth.LoginDTO{ID: "bob", Password: "hunter22"})
			Expect(err).To(MatchError(internal.ErrRoleInactive))
		})

		It("should issue a verifiable token with the snapshot embedded", func() {
			addUser("alice", "correct-horse", "staff", true)
			repo.grants["staff"] = []auth.BoardGrant{
				{BoardID: "general", BoardName: "General", CanRead: true, CanWrite: true},
			}

			result, err := service.Authenticate(ctx, auth.LoginDTO{ID: "alice", Password: "correct-horse"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Token).NotTo(BeEmpty())
			Expect(result.User.ID).To(Equal("alice"))

			claims, err := tokens.Verify(result.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal("alice"))
			Expect(claims.RoleID).To(Equal("staff"))
			Expect(claims.Permissions).To(HaveLen(1))
			Expect(claims.Permissions[0].BoardID).To(Equal("general"))
		})

		It("should sort the snapshot by board name ascending", func() {
			addUser("alice", "correct-horse", "staff", true)
			repo.grants["staff"] = []auth.BoardGrant{
				{BoardID: "z", BoardName: "Zeta", CanRead: true},
				{BoardID: "a", BoardName: "Alpha", CanRead: true},
				{BoardID: "m", BoardName: "Mid", CanRead: true},
			}

			result, err := service.Authenticate(ctx, auth.LoginDTO{ID: "alice", Password: "correct-horse"})
			Expect(err).NotTo(HaveOccurred())

			names := make([]string, 0, 3)
			for _, g := range result.User.Permissions {
				names = append(names, g.BoardName)
			}
			Expect(names).To(Equal([]string{"Alpha", "Mid", "Zeta"}))
		})
	})

	Describe("Refresh", func() {
		It("should reissue a token for an active role", func() {
			addUser("alice", "correct-horse", "staff", true)

			login, err := service.Authenticate(ctx, auth.LoginDTO{ID: "alice", Password: "correct-horse"})
			Expect(err).NotTo(HaveOccurred())

			refreshed, err := service.Refresh(ctx, login.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(refreshed.Token).NotTo(BeEmpty())
		})

		It("should block refresh after the role is deactivated", func() {
			addUser("alice", "correct-horse", "staff", true)

			login, err := service.Authenticate(ctx, auth.LoginDTO{ID: "alice", Password: "correct-horse"})
			Expect(err).NotTo(HaveOccurred())

			repo.users["alice"].Role.IsActive = false

			_, err = service.Refresh(ctx, login.Token)
			Expect(err).To(MatchError(internal.ErrRoleInactive))
		})

		It("should pick up matrix changes in the new snapshot", func() {
			addUser("alice", "correct-horse", "staff", true)
			repo.grants["staff"] = []auth.BoardGrant{
				{BoardID: "general", BoardName: "General", CanRead: true},
			}

			login, err := service.Authenticate(ctx, auth.LoginDTO{ID: "alice", Password: "correct-horse"})
			Expect(err).NotTo(HaveOccurred())

			repo.grants["staff"] = nil

			refreshed, err := service.Refresh(ctx, login.Token)
			Expect(err).NotTo(HaveOccurred())

			claims, err := tokens.Verify(refreshed.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.Permissions).To(BeEmpty())
		})
	})

	Describe("VerifyToken", func() {
		It("should report an expired token as expired", func() {
			shortTokens := auth.NewTokenIssuer(secret, -time.Minute)
			shortService := auth.NewService(repo, shortTokens, nil, slog.Default(), bcrypt.MinCost)
			addUser("alice", "correct-horse", "staff", true)

			result, err := shortService.Authenticate(ctx, auth.LoginDTO{ID: "alice", Password: "correct-horse"})
			Expect(err).NotTo(HaveOccurred())

			_, err = shortService.VerifyToken(result.Token)
			Expect(err).To(MatchError(internal.ErrTokenExpired))
		})

		It("should report a token signed with another secret as malformed", func() {
			otherTokens := auth.NewTokenIssuer("another-secret-also-32-characters!!!", time.Hour)
			addUser("alice", "correct-horse", "staff", true)

			token, err := otherTokens.Issue(repo.users["alice"], auth.PermissionSnapshot{RoleID: "staff"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.VerifyToken(token)
			Expect(err).To(MatchError(internal.ErrTokenMalformed))
		})

		It("should report garbage as malformed", func() {
			_, err := service.VerifyToken("not.a.token")
			Expect(err).To(MatchError(internal.ErrTokenMalformed))
		})
	})

	Describe("LivePermissions", func() {
		It("should fall back to read-only when the role has no event row", func() {
			perms, err := service.LivePermissions(ctx, "staff")
			Expect(err).NotTo(HaveOccurred())
			Expect(perms.EventPermissions.CanRead).To(BeTrue())
			Expect(perms.EventPermissions.CanCreate).To(BeFalse())
			Expect(perms.EventPermissions.CanUpdate).To(BeFalse())
			Expect(perms.EventPermissions.CanDelete).To(BeFalse())
		})

		It("should use the stored event row when present", func() {
			repo.eventRows["staff"] = &auth.EventGrant{CanCreate: true, CanRead: true}

			perms, err := service.LivePermissions(ctx, "staff")
			Expect(err).NotTo(HaveOccurred())
			Expect(perms.EventPermissions.CanCreate).To(BeTrue())
		})
	})

	Describe("ChangePassword", func() {
		It("should reject a wrong current password", func() {
			addUser("alice", "correct-horse", "staff", true)

			err := service.ChangePassword(ctx, "alice", auth.ChangePasswordDTO{
				CurrentPassword: "wrong",
				NewPassword:     "new-password",
			})
			Expect(err).To(MatchError(internal.ErrInvalidCredentials))
		})

		It("should store a hash of the new password", func() {
			addUser("alice", "correct-horse", "staff", true)

			err := service.ChangePassword(ctx, "alice", auth.ChangePasswordDTO{
				CurrentPassword: "correct-horse",
				NewPassword:     "new-password",
			})
			Expect(err).NotTo(HaveOccurred())

			err = bcrypt.CompareHashAndPassword([]byte(repo.users["alice"].PasswordHash), []byte("new-password"))
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
