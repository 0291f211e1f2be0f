package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeEmailRequired    ErrorCode = "EMAIL_REQUIRED"
	ErrCodeEmailInvalid     ErrorCode = "EMAIL_INVALID"
	ErrCodeOTPRequired      ErrorCode = "OTP_REQUIRED"
	ErrCodeProviderRequired ErrorCode = "PROVIDER_REQUIRED"

	ErrCodeOTPInvalidOrExpired ErrorCode = "OTP_INVALID_OR_EXPIRED"

	ErrCodeNoToken                ErrorCode = "NO_TOKEN"
	ErrCodeInvalidToken           ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired           ErrorCode = "TOKEN_EXPIRED"
	ErrCodeInsufficientPermission ErrorCode = "INSUFFICIENT_PERMISSION"

	ErrCodeUserNotFound ErrorCode = "USER_NOT_FOUND"
	ErrCodeRoleNotFound ErrorCode = "ROLE_NOT_FOUND"

	ErrCodeEmailTaken    ErrorCode = "EMAIL_TAKEN"
	ErrCodeRoleNameTaken ErrorCode = "ROLE_NAME_TAKEN"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewConflictError maps duplicate-identifier failures. Clients handle these
// as plain bad requests, so the status code is 400 rather than 409.
func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

var (
	ErrInvalidOrExpiredOTP = NewValidationError("Invalid or expired OTP", ErrCodeOTPInvalidOrExpired)

	ErrNoToken                = NewUnauthorizedError("No token provided", ErrCodeNoToken)
	ErrInvalidToken           = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired           = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
	ErrInsufficientPermission = NewForbiddenError("Insufficient permission", ErrCodeInsufficientPermission)

	ErrUserNotFound = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrRoleNotFound = NewNotFoundError("Role not found", ErrCodeRoleNotFound)

	ErrEmailTaken    = NewConflictError("A user with this email already exists", ErrCodeEmailTaken)
	ErrRoleNameTaken = NewConflictError("A role with this name already exists", ErrCodeRoleNameTaken)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Status  int         `json:"status"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Status:  e.StatusCode,
		Details: e.Details,
	})
}
