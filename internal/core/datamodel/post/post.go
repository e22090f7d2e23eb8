package post

import "time"

// Post is the minimal content row a board references. Rendering and rich-text
// concerns live outside this service; the row exists so board-scoped
// authorization and the board deletion guard have something real to protect.
type Post struct {
	ID        int64     `gorm:"primaryKey"`
	BoardID   string    `gorm:"column:board_id;size:50;not null;index"`
	AuthorID  string    `gorm:"column:author_id;size:50;not null"`
	Title     string    `gorm:"column:title;not null"`
	Content   string    `gorm:"column:content"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (Post) TableName() string {
	return "posts"
}
