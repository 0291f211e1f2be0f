package auth

import (
	errors "github.com/frahmantamala/workforce-portal/internal"
	"github.com/frahmantamala/workforce-portal/internal/core/common/validation"
)

// SendOTPDTO is the transport shape for requesting a login code.
type SendOTPDTO struct {
	Email string `json:"email"`
}

func (d SendOTPDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	return v.Validate()
}

type VerifyOTPDTO struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (d VerifyOTPDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	v.Field("otp", d.OTP).Required()
	return v.Validate()
}

// SocialUserData is the profile the upstream provider relayed. It is trusted
// as-is; no cryptographic verification of the provider token happens here.
type SocialUserData struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type SocialLoginDTO struct {
	Provider string         `json:"provider"`
	Token    string         `json:"token"`
	UserData SocialUserData `json:"userData"`
}

func (d SocialLoginDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("provider", d.Provider).Required()
	v.Field("userData.email", d.UserData.Email).Required().Email()
	return v.Validate()
}

// UserResponse is the identity descriptor returned after login.
type UserResponse struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Roles    []string `json:"roles"`
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

func ToUserResponse(u *User) UserResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Roles:    roles,
	}
}
