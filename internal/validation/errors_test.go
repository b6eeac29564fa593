package validation

import (
	"fmt"
	"strings"
	"testing"

	apperrors "taskshare/internal/errors"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name        string
		errors      []FieldError
		expectError string
	}{
		{"No errors", []FieldError{}, "validation error"},
		{"Single error", []FieldError{{Field: "title", Message: "is required"}}, "validation error for field 'title': is required"},
		{"Multiple errors", []FieldError{
			{Field: "title", Message: "is required"},
			{Field: "priority", Message: "is unknown"},
		}, "multiple validation errors"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := &ValidationError{Errors: tt.errors}
			result := ve.Error()

			if !strings.HasPrefix(result, tt.expectError) {
				t.Errorf("ValidationError.Error() = %v, expected prefix %v", result, tt.expectError)
			}
		})
	}
}

func TestValidationError_AddHelpers(t *testing.T) {
	ve := NewValidationError()

	ve.AddRequiredError("title")
	ve.AddInvalidFormatError("email", "bob", "name@example.com")
	ve.AddInvalidLengthError("title", "xxx", 2)
	ve.AddInvalidValueError("status", "maybe", "must be todo or done")
	ve.AddConflictError("dueDate", "clearDueDate")

	expected := []struct {
		field   string
		typ     ValidationErrorType
		message string
	}{
		{"title", ErrorTypeRequired, "title is required"},
		{"email", ErrorTypeInvalidFormat, "email has invalid format, expected: name@example.com"},
		{"title", ErrorTypeInvalidLength, "title must be at most 2 characters long"},
		{"status", ErrorTypeInvalidValue, "status has invalid value: must be todo or done"},
		{"dueDate", ErrorTypeConflict, "dueDate cannot be combined with clearDueDate"},
	}

	if len(ve.Errors) != len(expected) {
		t.Fatalf("Expected %d errors, got %d", len(expected), len(ve.Errors))
	}
	for i, want := range expected {
		got := ve.Errors[i]
		if got.Field != want.field || got.Type != want.typ || got.Message != want.message {
			t.Errorf("Errors[%d] = %+v, want field=%s type=%s message=%q", i, got, want.field, want.typ, want.message)
		}
	}

	if n := len(ve.GetFieldErrors("title")); n != 2 {
		t.Errorf("GetFieldErrors(title) returned %d errors, want 2", n)
	}
}

func TestValidationError_GetUserFriendlyMessage(t *testing.T) {
	empty := NewValidationError()
	if got := empty.GetUserFriendlyMessage(); got != "Input validation failed" {
		t.Errorf("GetUserFriendlyMessage() = %q", got)
	}

	single := NewValidationError()
	single.AddRequiredError("title")
	if got := single.GetUserFriendlyMessage(); got != "title is required" {
		t.Errorf("GetUserFriendlyMessage() = %q", got)
	}

	multiple := NewValidationError()
	multiple.AddRequiredError("title")
	multiple.AddRequiredError("email")
	got := multiple.GetUserFriendlyMessage()
	if !strings.Contains(got, "- title is required") || !strings.Contains(got, "- email is required") {
		t.Errorf("GetUserFriendlyMessage() = %q", got)
	}
}

func TestValidationError_Merge(t *testing.T) {
	inner := NewValidationError()
	inner.AddRequiredError("title")

	outer := NewValidationError()
	outer.Merge(fmt.Errorf("wrapped: %w", inner))
	outer.Merge(fmt.Errorf("unrelated"))

	if len(outer.Errors) != 1 {
		t.Errorf("Merge() collected %d errors, want 1", len(outer.Errors))
	}
}

func TestValidationError_ToAppError(t *testing.T) {
	if err := NewValidationError().ToAppError(); err != nil {
		t.Errorf("ToAppError() with no errors = %v, want nil", err)
	}

	ve := NewValidationError()
	ve.AddRequiredError("title")
	err := ve.ToAppError()

	if !apperrors.IsErrorType(err, apperrors.ErrorTypeValidation) {
		t.Fatalf("ToAppError() should produce a validation AppError, got %T", err)
	}
	if !IsValidationError(err) {
		t.Errorf("ToAppError() should wrap the ValidationError")
	}
	if msg := apperrors.GetUserMessage(err); msg != "title is required" {
		t.Errorf("GetUserMessage() = %q", msg)
	}

	appErr, _ := apperrors.AsAppError(err)
	if field, ok := appErr.GetContext("field"); !ok || field != "title" {
		t.Errorf("ToAppError() should record the field, got %v", field)
	}
}
