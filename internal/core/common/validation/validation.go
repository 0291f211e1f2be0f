package validation

import (
	"fmt"
	"net/mail"

	errors "github.com/frahmantamala/workforce-portal/internal"
)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []FieldValidator
	errors []errors.ValidationError
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]FieldValidator, 0),
		errors: make([]errors.ValidationError, 0),
	}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return &v.fields[len(v.fields)-1]
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		switch v := value.(type) {
		case string:
			if v == "" {
				return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
			}
		case *string:
			if v == nil || *v == "" {
				return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	return fv
}

// Email validates RFC 5322 address syntax. Empty values pass; chain Required
// when the field is mandatory.
func (fv *FieldValidator) Email() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && v != "" {
			if _, err := mail.ParseAddress(v); err != nil {
				return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s is not a valid email address", fv.FieldName), errors.ErrCodeEmailInvalid)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && len(v) > max {
			return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s must be at most %d characters", fv.FieldName, max), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) OneOf(allowed ...string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && v != "" {
			for _, a := range allowed {
				if v == a {
					return nil
				}
			}
			return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s must be one of %v", fv.FieldName, allowed), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (v *ValidationBuilder) Validate() *errors.AppError {
	for _, field := range v.fields {
		for _, validator := range field.Validators {
			if appErr := validator(field.Value); appErr != nil {
				if details, ok := appErr.Details.(errors.ValidationErrors); ok {
					v.errors = append(v.errors, details.Errors...)
				}
			}
		}
	}

	if len(v.errors) > 0 {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: v.errors})
	}
	return nil
}
