package board

import (
	"time"

	boardDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/board"
)

// Board is a pinboard-style content area. Visibility is governed entirely by
// the board access matrix; the board itself only carries catalog metadata.
type Board struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	SortOrder   int       `json:"sortOrder"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewBoard(id, name, description string, sortOrder int) *Board {
	now := time.Now()
	return &Board{
		ID:          id,
		Name:        name,
		Description: description,
		SortOrder:   sortOrder,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func ToDataModel(b *Board) *boardDatamodel.Board {
	return &boardDatamodel.Board{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		SortOrder:   b.SortOrder,
		IsActive:    b.IsActive,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func FromDataModel(b *boardDatamodel.Board) *Board {
	return &Board{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		SortOrder:   b.SortOrder,
		IsActive:    b.IsActive,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
