package user

import (
	"time"

	userDatamodel "github.com/frahmantamala/workforce-portal/internal/core/datamodel/user"
)

// User is the admin-facing view of an account, role names included.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	PasswordHash string     `json:"-"`
	Status       string     `json:"status"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	Roles        []string   `json:"roles"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (u *User) IsActive() bool {
	return u.Status == userDatamodel.StatusActive
}

func FromDataModel(record *userDatamodel.User) *User {
	return &User{
		ID:           record.ID,
		Email:        record.Email,
		FullName:     record.FullName,
		PasswordHash: record.PasswordHash,
		Status:       record.Status,
		LastLogin:    record.LastLogin,
		Roles:        []string{},
		CreatedAt:    record.CreatedAt,
	}
}

func FromDataModelWithRoles(record *userDatamodel.User, roles []string) *User {
	u := FromDataModel(record)
	if roles != nil {
		u.Roles = roles
	}
	return u
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		PasswordHash: u.PasswordHash,
		Status:       u.Status,
		LastLogin:    u.LastLogin,
		CreatedAt:    u.CreatedAt,
	}
}
