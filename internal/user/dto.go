package user

import (
	"github.com/go-playground/validator/v10"

	"github.com/workhub/workspace-portal/internal"
	"github.com/workhub/workspace-portal/internal/core/common/validation"
)

var validate = validator.New()

type CreateUserDTO struct {
	ID       string `json:"id" validate:"required,max=50"`
	Name     string `json:"name" validate:"required,max=100"`
	RoleID   string `json:"roleId" validate:"required,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

func (d *CreateUserDTO) Validate() error {
	if err := validate.Struct(d); err != nil {
		return internal.NewValidationError("invalid user payload", internal.ErrCodeValidationFailed)
	}
	if appErr := validation.ValidateIdentifier("id", d.ID); appErr != nil {
		return appErr
	}
	return nil
}

type UpdateUserDTO struct {
	Name   string `json:"name" validate:"required,max=100"`
	RoleID string `json:"roleId" validate:"required,max=50"`
}

func (d *UpdateUserDTO) Validate() error {
	if err := validate.Struct(d); err != nil {
		return internal.NewValidationError("invalid user payload", internal.ErrCodeValidationFailed)
	}
	return nil
}

type ResetPasswordDTO struct {
	Password string `json:"password" validate:"required,min=6"`
}

func (d *ResetPasswordDTO) Validate() error {
	if err := validate.Struct(d); err != nil {
		return internal.NewValidationError("password must be at least 6 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UserListResponse struct {
	Users []User `json:"users"`
}
