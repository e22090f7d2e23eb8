package role

import (
	"github.com/go-playground/validator/v10"

	"github.com/workhub/workspace-portal/internal"
	"github.com/workhub/workspace-portal/internal/core/common/validation"
)

var validate = validator.New()

type CreateRoleDTO struct {
	ID          string `json:"id" validate:"required,max=50"`
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

func (d *CreateRoleDTO) Validate() error {
	if err := validate.Struct(d); err != nil {
		return internal.NewValidationError("invalid role payload", internal.ErrCodeValidationFailed)
	}
	if appErr := validation.ValidateIdentifier("id", d.ID); appErr != nil {
		return appErr
	}
	return nil
}

type UpdateRoleDTO struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	IsActive    bool   `json:"isActive"`
}

func (d *UpdateRoleDTO) Validate() error {
	if err := validate.Struct(d); err != nil {
		return internal.NewValidationError("invalid role payload", internal.ErrCodeValidationFailed)
	}
	return nil
}

type RoleListResponse struct {
	Roles []Role `json:"roles"`
}
