package sqlite

import (
	"database/sql"
	"fmt"
	"time"
)

// dbTimeLayout is fixed width so that stored timestamps sort lexically
const dbTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const dbDateLayout = "2006-01-02"

// FormatTimeForDB formats a time.Time value in UTC for consistent database storage
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(dbTimeLayout)
}

// ParseTimeFromDB parses a stored timestamp
func ParseTimeFromDB(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// FormatDateForDB formats a due date as YYYY-MM-DD, returning nil if the pointer is nil
func FormatDateForDB(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(dbDateLayout)
}

// ParseDateFromDB parses a nullable YYYY-MM-DD column. Longer values are
// truncated to their date part.
func ParseDateFromDB(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	value := s.String
	if len(value) > len(dbDateLayout) {
		value = value[:len(dbDateLayout)]
	}
	t, err := time.Parse(dbDateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q: %w", s.String, err)
	}
	return &t, nil
}
