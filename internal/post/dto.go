package post

import (
	"strings"

	"github.com/workhub/workspace-portal/internal"
)

type CreatePostDTO struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (d *CreatePostDTO) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return internal.NewValidationFieldError("title", "title is required", internal.ErrCodeMissingField)
	}
	if len(d.Title) > 200 {
		return internal.NewValidationFieldError("title", "title must be at most 200 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

type PostListResponse struct {
	Posts []Post `json:"posts"`
}
