package postgres_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	boardDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/board"
	eventDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/event"
	identityDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/identity"
	"github.com/workhub/workspace-portal/internal/permission"
	permissionPostgres "github.com/workhub/workspace-portal/internal/permission/postgres"
)

func TestPermissionPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Permission Postgres Suite")
}

var _ = Describe("Permission Repository", func() {
	var (
		db   *gorm.DB
		repo permission.RepositoryAPI
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&identityDatamodel.Role{},
			&boardDatamodel.Board{},
			&boardDatamodel.BoardAccess{},
			&eventDatamodel.EventPermission{},
		)
		Expect(err).NotTo(HaveOccurred())

		Expect(db.Create(&identityDatamodel.Role{ID: "staff", Name: "Staff", IsActive: true}).Error).To(Succeed())
		Expect(db.Create(&identityDatamodel.Role{ID: "guest", Name: "Guest", IsActive: true}).Error).To(Succeed())
		Expect(db.Create(&boardDatamodel.Board{ID: "general", Name: "General", IsActive: true}).Error).To(Succeed())

		repo = permissionPostgres.NewPermissionRepository(db)
		ctx = context.Background()
	})

	Describe("ReplaceBoardAccess", func() {
		It("should insert the provided rows", func() {
			err := repo.ReplaceBoardAccess(ctx, "general", []*boardDatamodel.BoardAccess{
				{BoardID: "general", RoleID: "staff", CanRead: true, CanWrite: true},
			})
			Expect(err).NotTo(HaveOccurred())

			rows, err := repo.BoardAccessRows(ctx, "general")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].RoleID).To(Equal("staff"))
			Expect(rows[0].CanWrite).To(BeTrue())
		})

		It("should leave no stale rows after a shrinking replace", func() {
			err := repo.ReplaceBoardAccess(ctx, "general", []*boardDatamodel.BoardAccess{
				{BoardID: "general", RoleID: "staff", CanRead: true},
				{BoardID: "general", RoleID: "guest", CanRead: true},
			})
			Expect(err).NotTo(HaveOccurred())

			err = repo.ReplaceBoardAccess(ctx, "general", []*boardDatamodel.BoardAccess{
				{BoardID: "general", RoleID: "staff", CanRead: true},
			})
			Expect(err).NotTo(HaveOccurred())

			rows, err := repo.BoardAccessRows(ctx, "general")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].RoleID).To(Equal("staff"))
		})

		It("should clear the slice when given no rows", func() {
			err := repo.ReplaceBoardAccess(ctx, "general", []*boardDatamodel.BoardAccess{
				{BoardID: "general", RoleID: "staff", CanRead: true},
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(repo.ReplaceBoardAccess(ctx, "general", nil)).To(Succeed())

			rows, err := repo.BoardAccessRows(ctx, "general")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(BeEmpty())
		})

		It("should be idempotent for the same payload", func() {
			payload := []*boardDatamodel.BoardAccess{
				{BoardID: "general", RoleID: "staff", CanRead: true, CanDelete: true},
			}

			Expect(repo.ReplaceBoardAccess(ctx, "general", payload)).To(Succeed())
			Expect(repo.ReplaceBoardAccess(ctx, "general", payload)).To(Succeed())

			rows, err := repo.BoardAccessRows(ctx, "general")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].CanDelete).To(BeTrue())
		})

		It("should not touch other boards' rows", func() {
			Expect(db.Create(&boardDatamodel.Board{ID: "random", Name: "Random", IsActive: true}).Error).To(Succeed())
			Expect(db.Create(&boardDatamodel.BoardAccess{BoardID: "random", RoleID: "staff", CanRead: true}).Error).To(Succeed())

			Expect(repo.ReplaceBoardAccess(ctx, "general", nil)).To(Succeed())

			rows, err := repo.BoardAccessRows(ctx, "random")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
		})
	})

	Describe("ReplaceEventPermissions", func() {
		It("should replace the whole table", func() {
			err := repo.ReplaceEventPermissions(ctx, []*eventDatamodel.EventPermission{
				{RoleID: "staff", CanCreate: true, CanRead: true},
				{RoleID: "guest", CanRead: true},
			})
			Expect(err).NotTo(HaveOccurred())

			err = repo.ReplaceEventPermissions(ctx, []*eventDatamodel.EventPermission{
				{RoleID: "guest", CanRead: true},
			})
			Expect(err).NotTo(HaveOccurred())

			rows, err := repo.EventPermissionRows(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].RoleID).To(Equal("guest"))
		})
	})

	Describe("BoardExists", func() {
		It("should report known and unknown boards", func() {
			exists, err := repo.BoardExists(ctx, "general")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())

			exists, err = repo.BoardExists(ctx, "nope")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})
	})

	Describe("RoleIDs", func() {
		It("should list role ids in order", func() {
			ids, err := repo.RoleIDs(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(Equal([]string{"guest", "staff"}))
		})
	})
})

// This suite builds the tables from hand-written DDL carrying the same column
// set as the goose migration, so a model column the migration does not create
// fails here instead of in production.
var _ = Describe("Permission Repository against migrated schema", func() {
	var (
		db   *gorm.DB
		repo permission.RepositoryAPI
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		for _, ddl := range []string{
			`CREATE TABLE roles (
				id VARCHAR(50) PRIMARY KEY,
				name VARCHAR(100) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				is_active BOOLEAN NOT NULL DEFAULT TRUE,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE boards (
				id VARCHAR(50) PRIMARY KEY,
				name VARCHAR(100) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				sort_order INTEGER NOT NULL DEFAULT 0,
				is_active BOOLEAN NOT NULL DEFAULT TRUE,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE board_access (
				board_id VARCHAR(50) NOT NULL REFERENCES boards(id),
				role_id VARCHAR(50) NOT NULL REFERENCES roles(id),
				can_read BOOLEAN NOT NULL DEFAULT FALSE,
				can_write BOOLEAN NOT NULL DEFAULT FALSE,
				can_delete BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				PRIMARY KEY (board_id, role_id)
			)`,
			`CREATE TABLE event_permissions (
				role_id VARCHAR(50) PRIMARY KEY REFERENCES roles(id),
				can_create BOOLEAN NOT NULL DEFAULT FALSE,
				can_read BOOLEAN NOT NULL DEFAULT TRUE,
				can_update BOOLEAN NOT NULL DEFAULT FALSE,
				can_delete BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		} {
			Expect(db.Exec(ddl).Error).To(Succeed())
		}

		Expect(db.Create(&identityDatamodel.Role{ID: "staff", Name: "Staff", IsActive: true}).Error).To(Succeed())
		Expect(db.Create(&boardDatamodel.Board{ID: "general", Name: "General", IsActive: true}).Error).To(Succeed())

		repo = permissionPostgres.NewPermissionRepository(db)
		ctx = context.Background()
	})

	It("should write board access rows into the migrated table shape", func() {
		err := repo.ReplaceBoardAccess(ctx, "general", []*boardDatamodel.BoardAccess{
			{BoardID: "general", RoleID: "staff", CanRead: true},
		})
		Expect(err).NotTo(HaveOccurred())

		rows, err := repo.BoardAccessRows(ctx, "general")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].CanRead).To(BeTrue())
	})

	It("should write event permission rows into the migrated table shape", func() {
		err := repo.ReplaceEventPermissions(ctx, []*eventDatamodel.EventPermission{
			{RoleID: "staff", CanCreate: true, CanRead: true},
		})
		Expect(err).NotTo(HaveOccurred())

		rows, err := repo.EventPermissionRows(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].CanCreate).To(BeTrue())
	})
})
