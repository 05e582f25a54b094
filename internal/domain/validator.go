package domain

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator and reports the first failing
// field as a *ValidationError.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if ok && len(validationErrors) > 0 {
			fe := validationErrors[0]
			return &ValidationError{
				Field:   lowerFirst(fe.Field()),
				Message: fmt.Sprintf("failed on '%s' validation", fe.Tag()),
			}
		}
		return &ValidationError{Field: "body", Message: err.Error()}
	}
	return nil
}

// lowerFirst maps Go field names onto the JSON/form names clients send.
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
