package event

import "time"

type Event struct {
	ID        int64     `gorm:"primaryKey"`
	Title     string    `gorm:"column:title;not null"`
	Body      string    `gorm:"column:body"`
	Location  string    `gorm:"column:location"`
	Start     time.Time `gorm:"column:start_at;not null"`
	End       time.Time `gorm:"column:end_at;not null"`
	OwnerID   string    `gorm:"column:owner_id;size:50;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (Event) TableName() string {
	return "events"
}

// EventPermission governs access to events the acting user does not own.
// Owners always keep full control of their own events. At most one row per
// role; a missing row falls back to read-only.
type EventPermission struct {
	RoleID    string    `gorm:"primaryKey;size:50"`
	CanCreate bool      `gorm:"column:can_create;default:false"`
	CanRead   bool      `gorm:"column:can_read;default:true"`
	CanUpdate bool      `gorm:"column:can_update;default:false"`
	CanDelete bool      `gorm:"column:can_delete;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (EventPermission) TableName() string {
	return "event_permissions"
}
