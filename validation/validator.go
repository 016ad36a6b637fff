package validation

import (
	"fmt"
	"strings"

	"github.com/kbukum/starpipe/errors"
	"github.com/kbukum/starpipe/token"
)

// Validator collects validation errors.
type Validator struct {
	errors []FieldError
}

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{
		errors: make([]FieldError, 0),
	}
}

// AddError adds a field error.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Validate returns an INVALID_CONFIG AppError if there are validation errors, nil otherwise.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}

	messages := make([]string, len(v.errors))
	for i, e := range v.errors {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}

	return errors.InvalidConfig(strings.Join(messages, "; ")).
		WithDetail("fields", v.errors)
}

// Name checks that value is a Starlark identifier and not a keyword.
func (v *Validator) Name(field, value string) *Validator {
	switch {
	case value == "":
		v.AddError(field, "is required")
	case !token.IsName(value):
		v.AddError(field, fmt.Sprintf("%q must be a Starlark identifier that is not a keyword", value))
	}
	return v
}

// Distinct checks that two values differ.
func (v *Validator) Distinct(field, value, otherField, other string) *Validator {
	if value != "" && value == other {
		v.AddError(field, "must differ from "+otherField)
	}
	return v
}

// Range checks if a number is within a range.
func (v *Validator) Range(field string, value, minVal, maxVal int) *Validator {
	if value < minVal || value > maxVal {
		v.AddError(field, fmt.Sprintf("must be between %d and %d", minVal, maxVal))
	}
	return v
}
