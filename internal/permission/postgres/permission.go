package postgres

import (
	"context"

	"gorm.io/gorm"

	boardDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/board"
	eventDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/event"
	identityDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/identity"
	"github.com/workhub/workspace-portal/internal/permission"
)

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) permission.RepositoryAPI {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) BoardExists(ctx context.Context, boardID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&boardDatamodel.Board{}).
		Where("id = ?", boardID).
		Count(&count).Error
	return count > 0, err
}

func (r *PermissionRepository) RoleIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&identityDatamodel.Role{}).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *PermissionRepository) BoardAccessRows(ctx context.Context, boardID string) ([]*boardDatamodel.BoardAccess, error) {
	var rows []*boardDatamodel.BoardAccess
	err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("role_id ASC").
		Find(&rows).Error
	return rows, err
}

// ReplaceBoardAccess swaps one board's matrix slice atomically. Delete then
// insert keeps the table authoritative: no stale rows survive a shrink.
func (r *PermissionRepository) ReplaceBoardAccess(ctx context.Context, boardID string, rows []*boardDatamodel.BoardAccess) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("board_id = ?", boardID).Delete(&boardDatamodel.BoardAccess{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(rows).Error
	})
}

func (r *PermissionRepository) EventPermissionRows(ctx context.Context) ([]*eventDatamodel.EventPermission, error) {
	var rows []*eventDatamodel.EventPermission
	err := r.db.WithContext(ctx).Order("role_id ASC").Find(&rows).Error
	return rows, err
}

func (r *PermissionRepository) ReplaceEventPermissions(ctx context.Context, rows []*eventDatamodel.EventPermission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&eventDatamodel.EventPermission{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(rows).Error
	})
}
