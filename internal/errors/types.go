package errors

import (
	"log/slog"
	"strings"
)

// ErrorType represents the category of error
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeStore
	ErrorTypeInvalidInput
	ErrorTypeTimeout
	ErrorTypePermission
	ErrorTypeAuthentication
)

var typeNames = [...]string{
	ErrorTypeValidation:     "validation",
	ErrorTypeNotFound:       "not_found",
	ErrorTypeStore:          "store",
	ErrorTypeInvalidInput:   "invalid_input",
	ErrorTypeTimeout:        "timeout",
	ErrorTypePermission:     "permission",
	ErrorTypeAuthentication: "authentication",
}

func (et ErrorType) String() string {
	if et < 0 || int(et) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[et]
}

// AppError is the structured error returned across package boundaries.
// Every failure reaching the CLI or HTTP layer is converted to one of these
// so it can be rendered as a user-visible message.
type AppError struct {
	Type    ErrorType
	Message string
	Code    string
	Cause   error
	Context map[string]any
}

func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(e.Type.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteString(")")
	}
	return b.String()
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError with the same type and code
func (e *AppError) Is(target error) bool {
	other, ok := target.(*AppError)
	return ok && e.Type == other.Type && e.Code == other.Code
}

// IsType checks if this error is of the specified type
func (e *AppError) IsType(errorType ErrorType) bool {
	return e.Type == errorType
}

// WithContext attaches a key/value pair and returns e
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// GetContext retrieves a value attached with WithContext
func (e *AppError) GetContext(key string) (any, bool) {
	value, ok := e.Context[key]
	return value, ok
}

// LogValue renders the error as a slog group so request logs carry the
// type, code and cause as separate fields.
func (e *AppError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("type", e.Type.String()),
		slog.String("code", e.Code),
		slog.String("message", e.Message),
	}
	if e.Cause != nil {
		attrs = append(attrs, slog.String("cause", e.Cause.Error()))
	}
	for key, value := range e.Context {
		attrs = append(attrs, slog.Any(key, value))
	}
	return slog.GroupValue(attrs...)
}
