package errors

import (
	"context"
	"errors"
	"fmt"
)

// newError builds an AppError from alternating context keys and values
func newError(errorType ErrorType, code, message string, cause error, kv ...any) *AppError {
	e := &AppError{
		Type:    errorType,
		Message: message,
		Code:    code,
		Cause:   cause,
		Context: make(map[string]any, len(kv)/2),
	}
	for i := 0; i+1 < len(kv); i += 2 {
		if key, ok := kv[i].(string); ok {
			e.Context[key] = kv[i+1]
		}
	}
	return e
}

func NewValidationError(message string, cause error) *AppError {
	return newError(ErrorTypeValidation, "VALIDATION_FAILED", message, cause)
}

func NewNotFoundError(resource string, identifier string) *AppError {
	return newError(ErrorTypeNotFound, "NOT_FOUND",
		fmt.Sprintf("%s not found: %s", resource, identifier), nil,
		"resource", resource, "identifier", identifier)
}

// NewUserNotFoundError is returned when a share target email has no account
func NewUserNotFoundError(email string) *AppError {
	return newError(ErrorTypeNotFound, "USER_NOT_FOUND",
		"user not found: "+email, nil,
		"resource", "user", "identifier", email)
}

// NewStoreError wraps a failure of the backing document store
func NewStoreError(operation string, cause error) *AppError {
	return newError(ErrorTypeStore, "STORE_ERROR",
		"store operation failed: "+operation, cause,
		"operation", operation)
}

func NewInvalidInputError(field string, value any, reason string) *AppError {
	return newError(ErrorTypeInvalidInput, "INVALID_INPUT",
		fmt.Sprintf("invalid input for %s: %s", field, reason), nil,
		"field", field, "value", value, "reason", reason)
}

func NewTimeoutError(operation string, timeout any) *AppError {
	return newError(ErrorTypeTimeout, "TIMEOUT",
		"operation timed out: "+operation, nil,
		"operation", operation, "timeout", timeout)
}

// NewPermissionError is returned when a non-owner tries an owner-only operation
func NewPermissionError(operation string, resource string) *AppError {
	return newError(ErrorTypePermission, "PERMISSION_DENIED",
		fmt.Sprintf("permission denied for %s on %s", operation, resource), nil,
		"operation", operation, "resource", resource)
}

// NewAuthenticationError reports a failed or missing sign-in
func NewAuthenticationError(message string, cause error) *AppError {
	return newError(ErrorTypeAuthentication, "AUTHENTICATION_FAILED", message, cause)
}

// WrapError wraps err with a type; the code is the type name
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return newError(errorType, errorType.String(), message, err)
}

// FromContext converts a context deadline into a timeout error.
// Other errors are returned unchanged.
func FromContext(operation string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(operation, nil)
	}
	return err
}

func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// AsAppError finds the first AppError in err's chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsErrorType(err error, errorType ErrorType) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.IsType(errorType)
}

// GetUserMessage returns the text shown to users. Store and timeout
// failures hide their internals.
func GetUserMessage(err error) string {
	appErr, ok := AsAppError(err)
	if !ok {
		return err.Error()
	}

	switch appErr.Type {
	case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput, ErrorTypePermission:
		return appErr.Message
	case ErrorTypeAuthentication:
		return appErr.Message + ". Please sign in again."
	case ErrorTypeStore:
		return "The task store could not be reached. Please try again."
	case ErrorTypeTimeout:
		return "The operation timed out. Please try again."
	}
	return "An unexpected error occurred. Please try again."
}

func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError reports whether an error is a system error worth logging.
// User mistakes (validation, not found, bad input) are not.
func ShouldLogError(err error) bool {
	appErr, ok := AsAppError(err)
	if !ok {
		return true
	}
	switch appErr.Type {
	case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput:
		return false
	}
	return true
}
