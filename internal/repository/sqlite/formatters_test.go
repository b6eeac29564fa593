package sqlite

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimeForDB(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{
			name:     "Valid time",
			input:    time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC),
			expected: "2024-01-15T10:30:45.000000000Z",
		},
		{
			name:     "Time with timezone is stored in UTC",
			input:    time.Date(2024, 6, 15, 14, 30, 0, 0, time.FixedZone("EST", -5*3600)),
			expected: "2024-06-15T19:30:00.000000000Z",
		},
		{
			name:     "Time with nanoseconds",
			input:    time.Date(2024, 3, 10, 9, 15, 30, 123456789, time.UTC),
			expected: "2024-03-10T09:15:30.123456789Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatTimeForDB(tt.input))
		})
	}
}

func TestFormatTimeForDB_SortsLexically(t *testing.T) {
	earlier := FormatTimeForDB(time.Date(2024, 1, 1, 0, 0, 0, 900000000, time.UTC))
	later := FormatTimeForDB(time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC))
	assert.Less(t, earlier, later)
}

func TestParseTimeFromDB(t *testing.T) {
	in := time.Date(2024, 3, 10, 9, 15, 30, 123456789, time.UTC)
	parsed, err := ParseTimeFromDB(FormatTimeForDB(in))
	require.NoError(t, err)
	assert.True(t, in.Equal(parsed))

	legacy, err := ParseTimeFromDB("2024-01-15T10:30:45Z")
	require.NoError(t, err)
	assert.Equal(t, 10, legacy.Hour())

	_, err = ParseTimeFromDB("yesterday")
	assert.Error(t, err)
}

func TestFormatDateForDB(t *testing.T) {
	assert.Nil(t, FormatDateForDB(nil))

	due := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-05-01", FormatDateForDB(&due))
}

func TestParseDateFromDB(t *testing.T) {
	tests := []struct {
		name     string
		input    sql.NullString
		expected *time.Time
		wantErr  bool
	}{
		{name: "NULL", input: sql.NullString{}},
		{name: "empty", input: sql.NullString{String: "", Valid: true}},
		{
			name:     "date",
			input:    sql.NullString{String: "2024-05-01", Valid: true},
			expected: timePtr(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)),
		},
		{
			name:     "timestamp is truncated",
			input:    sql.NullString{String: "2024-05-01T13:00:00Z", Valid: true},
			expected: timePtr(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)),
		},
		{name: "garbage", input: sql.NullString{String: "soon", Valid: true}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseDateFromDB(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
