package user

import (
	errors "github.com/frahmantamala/workforce-portal/internal"
	"github.com/frahmantamala/workforce-portal/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/workforce-portal/internal/core/datamodel/user"
)

type CreateUserDTO struct {
	Email    string  `json:"email"`
	FullName string  `json:"full_name"`
	Password *string `json:"password,omitempty"`
	RoleIDs  []int64 `json:"role_ids,omitempty"`
}

func (d CreateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	v.Field("full_name", d.FullName).Required().MaxLength(255)
	return v.Validate()
}

type UpdateUserDTO struct {
	FullName string  `json:"full_name"`
	Status   string  `json:"status"`
	RoleIDs  []int64 `json:"role_ids,omitempty"`
}

func (d UpdateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("full_name", d.FullName).Required().MaxLength(255)
	v.Field("status", d.Status).OneOf(userDatamodel.StatusPending, userDatamodel.StatusActive)
	return v.Validate()
}
