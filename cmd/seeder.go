package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/workhub/workspace-portal/internal"
	boardDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/board"
	eventDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/event"
	identityDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/identity"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the initial admin account and defaults",
	Long: `Ensure the admin role, the initial admin account and a default board
exist. Safe to run repeatedly: existing rows are left untouched.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlxDB.Close()

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm: %v", err)
		}

		if err := ensureSeed(db, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
		fmt.Println("seed complete")
	},
}

// ensureSeed converges the database toward the required baseline. Idempotency
// comes from checking persisted rows, never from process state.
func ensureSeed(db *gorm.DB, cfg *internal.Config) error {
	roles := []identityDatamodel.Role{
		{ID: internal.RoleAdminID, Name: "Administrators", Description: "Full control over the portal", IsActive: true},
		{ID: "staff", Name: "Staff", Description: "Default member role", IsActive: true},
	}
	for _, role := range roles {
		if err := ensureRole(db, role); err != nil {
			return err
		}
	}

	if err := ensureUser(db, identityDatamodel.User{
		ID:     "admin",
		Name:   "Administrator",
		RoleID: internal.RoleAdminID,
	}, "admin", cfg.Security.BCryptCost); err != nil {
		return err
	}

	if err := ensureBoard(db, boardDatamodel.Board{
		ID:          "general",
		Name:        "General",
		Description: "Announcements and general discussion",
		SortOrder:   1,
		IsActive:    true,
	}); err != nil {
		return err
	}

	if err := ensureBoardAccess(db, boardDatamodel.BoardAccess{
		BoardID: "general", RoleID: "staff",
		CanRead: true, CanWrite: true, CanDelete: false,
	}); err != nil {
		return err
	}

	return ensureEventPermission(db, eventDatamodel.EventPermission{
		RoleID: "staff", CanCreate: true, CanRead: true, CanUpdate: false, CanDelete: false,
	})
}

func ensureRole(db *gorm.DB, role identityDatamodel.Role) error {
	var existing identityDatamodel.Role
	err := db.Where("id = ?", role.ID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	fmt.Println("seeding role:", role.ID)
	return db.Create(&role).Error
}

func ensureUser(db *gorm.DB, user identityDatamodel.User, password string, cost int) error {
	var existing identityDatamodel.User
	err := db.Where("id = ?", user.ID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)

	fmt.Println("seeding user:", user.ID)
	return db.Create(&user).Error
}

func ensureBoard(db *gorm.DB, board boardDatamodel.Board) error {
	var existing boardDatamodel.Board
	err := db.Where("id = ?", board.ID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	fmt.Println("seeding board:", board.ID)
	return db.Create(&board).Error
}

func ensureBoardAccess(db *gorm.DB, row boardDatamodel.BoardAccess) error {
	var existing boardDatamodel.BoardAccess
	err := db.Where("board_id = ? AND role_id = ?", row.BoardID, row.RoleID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.Create(&row).Error
}

func ensureEventPermission(db *gorm.DB, row eventDatamodel.EventPermission) error {
	var existing eventDatamodel.EventPermission
	err := db.Where("role_id = ?", row.RoleID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.Create(&row).Error
}
