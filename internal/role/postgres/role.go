package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	boardDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/board"
	eventDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/event"
	identityDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/identity"
	"github.com/workhub/workspace-portal/internal/role"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.RepositoryAPI {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) GetAll(ctx context.Context) ([]*identityDatamodel.Role, error) {
	var roles []*identityDatamodel.Role
	err := r.db.WithContext(ctx).Order("id ASC").Find(&roles).Error
	return roles, err
}

func (r *RoleRepository) GetByID(ctx context.Context, id string) (*identityDatamodel.Role, error) {
	var row identityDatamodel.Role
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *RoleRepository) Create(ctx context.Context, row *identityDatamodel.Role) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *RoleRepository) Update(ctx context.Context, row *identityDatamodel.Role) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *RoleRepository) CountUsers(ctx context.Context, roleID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&identityDatamodel.User{}).
		Where("role_id = ?", roleID).
		Count(&count).Error
	return count, err
}

// DeleteCascade removes the role and every permission row keyed to it in one
// transaction, so a half-deleted role can never grant anything.
func (r *RoleRepository) DeleteCascade(ctx context.Context, roleID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", roleID).Delete(&boardDatamodel.BoardAccess{}).Error; err != nil {
			return err
		}
		if err := tx.Where("role_id = ?", roleID).Delete(&eventDatamodel.EventPermission{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", roleID).Delete(&identityDatamodel.Role{}).Error
	})
}
