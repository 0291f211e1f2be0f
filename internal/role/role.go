package role

import (
	"time"

	userDatamodel "github.com/frahmantamala/workforce-portal/internal/core/datamodel/user"
)

// Role bundles permission grants, one per application, assignable to many
// users.
type Role struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Permissions []PermissionGrant `json:"permissions"`
	CreatedAt   time.Time         `json:"created_at"`
}

// PermissionGrant is one application's view/create/edit/delete flags for a
// role.
type PermissionGrant struct {
	ApplicationID   int64  `json:"application_id"`
	ApplicationName string `json:"application_name,omitempty"`
	CanView         bool   `json:"can_view"`
	CanCreate       bool   `json:"can_create"`
	CanEdit         bool   `json:"can_edit"`
	CanDelete       bool   `json:"can_delete"`
}

func (g PermissionGrant) ToDataModel(roleID int64) userDatamodel.Permission {
	return userDatamodel.Permission{
		RoleID:        roleID,
		ApplicationID: g.ApplicationID,
		CanView:       g.CanView,
		CanCreate:     g.CanCreate,
		CanEdit:       g.CanEdit,
		CanDelete:     g.CanDelete,
	}
}

func FromDataModel(record *userDatamodel.Role, grants []PermissionGrant) *Role {
	if grants == nil {
		grants = []PermissionGrant{}
	}
	return &Role{
		ID:          record.ID,
		Name:        record.Name,
		Description: record.Description,
		Permissions: grants,
		CreatedAt:   record.CreatedAt,
	}
}
