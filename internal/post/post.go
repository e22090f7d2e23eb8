package post

import (
	"time"

	postDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/post"
)

// Post is a minimal content row on a board. Reading, writing and deleting
// posts is gated upstream by the board access matrix middleware.
type Post struct {
	ID        int64     `json:"id"`
	BoardID   string    `json:"boardId"`
	AuthorID  string    `json:"authorId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func FromDataModel(p *postDatamodel.Post) *Post {
	return &Post{
		ID:        p.ID,
		BoardID:   p.BoardID,
		AuthorID:  p.AuthorID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
