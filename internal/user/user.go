package user

import (
	"time"

	identityDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/identity"
)

// User is a portal account. The password hash never leaves this package
// boundary; responses carry the profile fields only.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	RoleID    string    `json:"roleId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func FromDataModel(u *identityDatamodel.User) *User {
	return &User{
		ID:        u.ID,
		Name:      u.Name,
		RoleID:    u.RoleID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
