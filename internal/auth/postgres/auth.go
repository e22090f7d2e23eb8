package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/workhub/workspace-portal/internal/auth"
	boardDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/board"
	eventDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/event"
	identityDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/identity"
)

// Repository backs the identity store, the snapshot builder and both
// authorization guards with one gorm handle.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetUserWithRole(ctx context.Context, userID string) (*auth.User, error) {
	var u identityDatamodel.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		return nil, err
	}

	var role identityDatamodel.Role
	if err := r.db.WithContext(ctx).Where("id = ?", u.RoleID).First(&role).Error; err != nil {
		return nil, err
	}

	return &auth.User{
		ID:           u.ID,
		Name:         u.Name,
		RoleID:       u.RoleID,
		PasswordHash: u.PasswordHash,
		Role: auth.Role{
			ID:          role.ID,
			Name:        role.Name,
			Description: role.Description,
			IsActive:    role.IsActive,
		},
	}, nil
}

func (r *Repository) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&identityDatamodel.User{}).
		Where("id = ?", userID).
		Update("password_hash", passwordHash).Error
}

// ReadableBoardGrants joins readable matrix rows against active boards. Rows
// for inactive boards are dropped here so snapshots never mention them.
func (r *Repository) ReadableBoardGrants(ctx context.Context, roleID string) ([]auth.BoardGrant, error) {
	query := `SELECT ba.board_id, b.name AS board_name, ba.can_read, ba.can_write, ba.can_delete
	          FROM board_access ba
	          JOIN boards b ON b.id = ba.board_id
	          WHERE ba.role_id = ? AND ba.can_read = true AND b.is_active = true
	          ORDER BY b.name ASC`

	rows, err := r.db.WithContext(ctx).Raw(query, roleID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grants := make([]auth.BoardGrant, 0)
	for rows.Next() {
		var g auth.BoardGrant
		if err := rows.Scan(&g.BoardID, &g.BoardName, &g.CanRead, &g.CanWrite, &g.CanDelete); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

func (r *Repository) GetBoard(ctx context.Context, boardID string) (*auth.BoardInfo, error) {
	var b boardDatamodel.Board
	err := r.db.WithContext(ctx).Where("id = ?", boardID).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &auth.BoardInfo{ID: b.ID, Name: b.Name, IsActive: b.IsActive}, nil
}

func (r *Repository) GetBoardGrant(ctx context.Context, boardID, roleID string) (*auth.BoardGrantFlags, error) {
	var row boardDatamodel.BoardAccess
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND role_id = ?", boardID, roleID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &auth.BoardGrantFlags{
		CanRead:   row.CanRead,
		CanWrite:  row.CanWrite,
		CanDelete: row.CanDelete,
	}, nil
}

func (r *Repository) GetEventOwner(ctx context.Context, eventID int64) (string, error) {
	var ev eventDatamodel.Event
	err := r.db.WithContext(ctx).Select("owner_id").Where("id = ?", eventID).First(&ev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return ev.OwnerID, nil
}

func (r *Repository) GetEventGrant(ctx context.Context, roleID string) (*auth.EventGrant, error) {
	var row eventDatamodel.EventPermission
	err := r.db.WithContext(ctx).Where("role_id = ?", roleID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &auth.EventGrant{
		CanCreate: row.CanCreate,
		CanRead:   row.CanRead,
		CanUpdate: row.CanUpdate,
		CanDelete: row.CanDelete,
	}, nil
}
