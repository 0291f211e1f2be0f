package role

import (
	errors "github.com/frahmantamala/workforce-portal/internal"
	"github.com/frahmantamala/workforce-portal/internal/core/common/validation"
)

type PermissionGrantDTO struct {
	ApplicationID int64 `json:"application_id"`
	CanView       bool  `json:"can_view"`
	CanCreate     bool  `json:"can_create"`
	CanEdit       bool  `json:"can_edit"`
	CanDelete     bool  `json:"can_delete"`
}

type CreateRoleDTO struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Permissions []PermissionGrantDTO `json:"permissions,omitempty"`
}

func (d CreateRoleDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("description", d.Description).MaxLength(500)
	if err := v.Validate(); err != nil {
		return err
	}
	return validateGrants(d.Permissions)
}

type UpdateRoleDTO struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Permissions []PermissionGrantDTO `json:"permissions,omitempty"`
}

func (d UpdateRoleDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("description", d.Description).MaxLength(500)
	if err := v.Validate(); err != nil {
		return err
	}
	return validateGrants(d.Permissions)
}

// validateGrants rejects duplicate applications up front: a role holds at
// most one permission row per application.
func validateGrants(grants []PermissionGrantDTO) *errors.AppError {
	seen := make(map[int64]bool, len(grants))
	for _, g := range grants {
		if g.ApplicationID == 0 {
			return errors.NewValidationFieldError("permissions.application_id", "application_id is required", errors.ErrCodeValidationFailed)
		}
		if seen[g.ApplicationID] {
			return errors.NewValidationFieldError("permissions.application_id", "duplicate application in permission set", errors.ErrCodeValidationFailed)
		}
		seen[g.ApplicationID] = true
	}
	return nil
}

func (d PermissionGrantDTO) toGrant() PermissionGrant {
	return PermissionGrant{
		ApplicationID: d.ApplicationID,
		CanView:       d.CanView,
		CanCreate:     d.CanCreate,
		CanEdit:       d.CanEdit,
		CanDelete:     d.CanDelete,
	}
}
