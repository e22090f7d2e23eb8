package board

import (
	"github.com/go-playground/validator/v10"

	"github.com/workhub/workspace-portal/internal"
	"github.com/workhub/workspace-portal/internal/core/common/validation"
)

var validate = validator.New()

type CreateBoardDTO struct {
	ID          string `json:"id" validate:"required,max=50"`
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	SortOrder   int    `json:"sortOrder" validate:"gte=0"`
}

func (d *CreateBoardDTO) Validate() error {
	if err := validate.Struct(d); err != nil {
		return internal.NewValidationError("invalid board payload", internal.ErrCodeValidationFailed)
	}
	if appErr := validation.ValidateIdentifier("id", d.ID); appErr != nil {
		return appErr
	}
	return nil
}

type UpdateBoardDTO struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	SortOrder   int    `json:"sortOrder" validate:"gte=0"`
	IsActive    bool   `json:"isActive"`
}

func (d *UpdateBoardDTO) Validate() error {
	if err := validate.Struct(d); err != nil {
		return internal.NewValidationError("invalid board payload", internal.ErrCodeValidationFailed)
	}
	return nil
}

type BoardListResponse struct {
	Boards []Board `json:"boards"`
}
