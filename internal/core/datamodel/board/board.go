package board

import "time"

type Board struct {
	ID          string    `gorm:"primaryKey;size:50"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description"`
	SortOrder   int       `gorm:"column:sort_order;default:0"`
	IsActive    bool      `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:now()"`
}

func (Board) TableName() string {
	return "boards"
}

// BoardAccess is one cell of the permission matrix. Absence of a row means
// default-deny for that (board, role) pair.
type BoardAccess struct {
	BoardID   string    `gorm:"primaryKey;size:50"`
	RoleID    string    `gorm:"primaryKey;size:50"`
	CanRead   bool      `gorm:"column:can_read;default:false"`
	CanWrite  bool      `gorm:"column:can_write;default:false"`
	CanDelete bool      `gorm:"column:can_delete;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (BoardAccess) TableName() string {
	return "board_access"
}
