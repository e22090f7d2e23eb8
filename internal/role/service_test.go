package role_test

import (
	"context"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/workhub/workspace-portal/internal"
	identityDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/identity"
	"github.com/workhub/workspace-portal/internal/role"
)

func TestRoleService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Role Service Suite")
}

// MockRepository implements role.RepositoryAPI for testing
type MockRepository struct {
	roles      map[string]*identityDatamodel.Role
	userCounts map[string]int64
	cascaded   []string
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		roles:      make(map[string]*identityDatamodel.Role),
		userCounts: make(map[string]int64),
	}
}

func (m *MockRepository) GetAll(ctx context.Context) ([]*identityDatamodel.Role, error) {
	var result []*identityDatamodel.Role
	for _, r := range m.roles {
		result = append(result, r)
	}
	return result, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*identityDatamodel.Role, error) {
	return m.roles[id], nil
}

func (m *MockRepository) Create(ctx context.Context, r *identityDatamodel.Role) error {
	m.roles[r.ID] = r
	return nil
}

func (m *MockRepository) Update(ctx context.Context, r *identityDatamodel.Role) error {
	m.roles[r.ID] = r
	return nil
}

func (m *MockRepository) CountUsers(ctx context.Context, roleID string) (int64, error) {
	return m.userCounts[roleID], nil
}

func (m *MockRepository) DeleteCascade(ctx context.Context, roleID string) error {
	delete(m.roles, roleID)
	m.cascaded = append(m.cascaded, roleID)
	return nil
}

var _ = Describe("Role Service", func() {
	var (
		repo    *MockRepository
		service *role.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		repo = NewMockRepository()
		repo.roles[internal.RoleAdminID] = &identityDatamodel.Role{
			ID: internal.RoleAdminID, Name: "Administrators", IsActive: true,
		}
		service = role.NewService(repo, nil, slog.Default())
		ctx = context.Background()
	})

	Describe("CreateRole", func() {
		It("should create a role with a valid identifier", func() {
			created, err := service.CreateRole(ctx, role.CreateRoleDTO{
				ID: "editors", Name: "Editors",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.IsActive).To(BeTrue())
			Expect(repo.roles).To(HaveKey("editors"))
		})

		It("should reject identifiers outside the allowed charset", func() {
			_, err := service.CreateRole(ctx, role.CreateRoleDTO{
				ID: "no spaces", Name: "Bad",
			})
			Expect(err).To(HaveOccurred())
		})

		It("should reject a duplicate id with a conflict", func() {
			_, err := service.CreateRole(ctx, role.CreateRoleDTO{
				ID: internal.RoleAdminID, Name: "Clone",
			})
			Expect(err).To(HaveOccurred())

			appErr, ok := err.(*internal.AppError)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateIdentifier))
		})
	})

	Describe("UpdateRole", func() {
		It("should refuse to deactivate the admin role", func() {
			_, err := service.UpdateRole(ctx, internal.RoleAdminID, role.UpdateRoleDTO{
				Name: "Administrators", IsActive: false,
			})
			Expect(err).To(HaveOccurred())

			appErr, ok := err.(*internal.AppError)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeSelfProtect))
		})

		It("should allow renaming the admin role while it stays active", func() {
			updated, err := service.UpdateRole(ctx, internal.RoleAdminID, role.UpdateRoleDTO{
				Name: "Portal Admins", IsActive: true,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Portal Admins"))
		})

		It("should deactivate an ordinary role", func() {
			repo.roles["staff"] = &identityDatamodel.Role{ID: "staff", Name: "Staff", IsActive: true}

			updated, err := service.UpdateRole(ctx, "staff", role.UpdateRoleDTO{
				Name: "Staff", IsActive: false,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.IsActive).To(BeFalse())
		})
	})

	Describe("DeleteRole", func() {
		It("should never delete the admin role", func() {
			err := service.DeleteRole(ctx, internal.RoleAdminID)
			Expect(err).To(HaveOccurred())

			appErr, ok := err.(*internal.AppError)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeSelfProtect))
			Expect(repo.roles).To(HaveKey(internal.RoleAdminID))
		})

		It("should refuse while users are still assigned", func() {
			repo.roles["staff"] = &identityDatamodel.Role{ID: "staff", Name: "Staff", IsActive: true}
			repo.userCounts["staff"] = 3

			err := service.DeleteRole(ctx, "staff")
			Expect(err).To(HaveOccurred())

			appErr, ok := err.(*internal.AppError)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeReferentialIntegrity))
		})

		It("should cascade delete an unassigned role", func() {
			repo.roles["staff"] = &identityDatamodel.Role{ID: "staff", Name: "Staff", IsActive: true}

			Expect(service.DeleteRole(ctx, "staff")).To(Succeed())
			Expect(repo.cascaded).To(ContainElement("staff"))
			Expect(repo.roles).NotTo(HaveKey("staff"))
		})

		It("should return not found for an unknown role", func() {
			err := service.DeleteRole(ctx, "ghost")
			Expect(err).To(MatchError(internal.ErrRoleNotFound))
		})
	})
})
