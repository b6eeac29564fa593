package validation

import (
	"errors"
	"fmt"
	"strings"

	apperrors "taskshare/internal/errors"
)

// ValidationErrorType represents the type of validation error
type ValidationErrorType string

const (
	ErrorTypeRequired      ValidationErrorType = "required"
	ErrorTypeInvalidFormat ValidationErrorType = "invalid_format"
	ErrorTypeInvalidLength ValidationErrorType = "invalid_length"
	ErrorTypeInvalidValue  ValidationErrorType = "invalid_value"
	ErrorTypeConflict      ValidationErrorType = "conflict"
)

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string
	Type    ValidationErrorType
	Message string
	Value   any
}

func (fe *FieldError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", fe.Field, fe.Message)
}

// ValidationError collects the field errors of one input
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	switch len(ve.Errors) {
	case 0:
		return "validation error"
	case 1:
		return ve.Errors[0].Error()
	}
	return "multiple validation errors: " + strings.Join(ve.collect(func(fe FieldError) string { return fe.Error() }), "; ")
}

func (ve *ValidationError) collect(render func(FieldError) string) []string {
	out := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		out[i] = render(fe)
	}
	return out
}

// IsValidationError checks if an error is, or wraps, a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NewValidationError creates an empty ValidationError
func NewValidationError() *ValidationError {
	return &ValidationError{Errors: make([]FieldError, 0)}
}

// HasErrors returns true if the ValidationError has any errors
func (ve *ValidationError) HasErrors() bool {
	return len(ve.Errors) > 0
}

// AddError adds a new field error
func (ve *ValidationError) AddError(field string, errorType ValidationErrorType, message string, value any) {
	ve.Errors = append(ve.Errors, FieldError{
		Field:   field,
		Type:    errorType,
		Message: message,
		Value:   value,
	})
}

// AddRequiredError adds a required field error
func (ve *ValidationError) AddRequiredError(field string) {
	ve.AddError(field, ErrorTypeRequired, fmt.Sprintf("%s is required", field), nil)
}

// AddInvalidFormatError adds an invalid format error
func (ve *ValidationError) AddInvalidFormatError(field string, value any, expectedFormat string) {
	message := fmt.Sprintf("%s has invalid format, expected: %s", field, expectedFormat)
	ve.AddError(field, ErrorTypeInvalidFormat, message, value)
}

// AddInvalidLengthError adds an error for a value longer than max characters
func (ve *ValidationError) AddInvalidLengthError(field string, value any, max int) {
	message := fmt.Sprintf("%s must be at most %d characters long", field, max)
	ve.AddError(field, ErrorTypeInvalidLength, message, value)
}

// AddInvalidValueError adds an invalid value error
func (ve *ValidationError) AddInvalidValueError(field string, value any, reason string) {
	message := fmt.Sprintf("%s has invalid value: %s", field, reason)
	ve.AddError(field, ErrorTypeInvalidValue, message, value)
}

// AddConflictError adds an error for fields that cannot be combined
func (ve *ValidationError) AddConflictError(field, other string) {
	message := fmt.Sprintf("%s cannot be combined with %s", field, other)
	ve.AddError(field, ErrorTypeConflict, message, nil)
}

// Merge appends the field errors of err when it is a ValidationError
func (ve *ValidationError) Merge(err error) {
	var other *ValidationError
	if errors.As(err, &other) {
		ve.Errors = append(ve.Errors, other.Errors...)
	}
}

// GetFieldErrors returns the errors recorded for field
func (ve *ValidationError) GetFieldErrors(field string) []FieldError {
	var out []FieldError
	for _, fe := range ve.Errors {
		if fe.Field == field {
			out = append(out, fe)
		}
	}
	return out
}

// GetUserFriendlyMessage lists the field messages, one per line when
// there is more than one.
func (ve *ValidationError) GetUserFriendlyMessage() string {
	switch len(ve.Errors) {
	case 0:
		return "Input validation failed"
	case 1:
		return ve.Errors[0].Message
	}
	lines := ve.collect(func(fe FieldError) string { return "- " + fe.Message })
	return "Multiple validation errors occurred:\n" + strings.Join(lines, "\n")
}

// ToAppError wraps the collected errors into a validation AppError,
// returning nil when nothing was collected.
func (ve *ValidationError) ToAppError() error {
	if !ve.HasErrors() {
		return nil
	}
	appErr := apperrors.NewValidationError(ve.GetUserFriendlyMessage(), ve)
	if len(ve.Errors) == 1 {
		appErr = appErr.WithContext("field", ve.Errors[0].Field)
	}
	return appErr
}
