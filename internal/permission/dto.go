package permission

import (
	"github.com/workhub/workspace-portal/internal"
	"github.com/workhub/workspace-portal/internal/core/common/validation"
)

type SetBoardAccessDTO struct {
	Rows []BoardAccessRow `json:"rows"`
}

func (d *SetBoardAccessDTO) Validate() error {
	for _, row := range d.Rows {
		if appErr := validation.ValidateIdentifier("roleId", row.RoleID); appErr != nil {
			return appErr
		}
	}
	return nil
}

type SetEventPermissionsDTO struct {
	Rows []EventPermissionRow `json:"rows"`
}

func (d *SetEventPermissionsDTO) Validate() error {
	seen := make(map[string]bool, len(d.Rows))
	for _, row := range d.Rows {
		if appErr := validation.ValidateIdentifier("roleId", row.RoleID); appErr != nil {
			return appErr
		}
		if seen[row.RoleID] {
			return internal.NewValidationFieldError("roleId", "duplicate role in payload", internal.ErrCodeValidationFailed)
		}
		seen[row.RoleID] = true
	}
	return nil
}

type BoardAccessResponse struct {
	BoardID string           `json:"boardId"`
	Rows    []BoardAccessRow `json:"rows"`
}

type EventPermissionsResponse struct {
	Rows []EventPermissionRow `json:"rows"`
}
