package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskshare/internal/domain"
)

func TestParseDueDate(t *testing.T) {
	now := time.Date(2030, 3, 10, 22, 30, 0, 0, time.UTC)

	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"", "", false},
		{"today", "2030-03-10", false},
		{"Tomorrow", "2030-03-11", false},
		{"+3d", "2030-03-13", false},
		{"2w", "2030-03-24", false},
		{"2030-12-25", "2030-12-25", false},
		{"next week", "", true},
		{"25/12/2030", "", true},
		{"3mo", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			due, err := parseDueDate(tt.input, now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.expected == "" {
				assert.Nil(t, due)
				return
			}
			require.NotNil(t, due)
			assert.Equal(t, tt.expected, due.Format("2006-01-02"))
		})
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		input    string
		expected domain.TaskRef
		wantErr  bool
	}{
		{"abc", domain.TaskRef{OwnerID: "me", ID: "abc"}, false},
		{"bob/abc", domain.TaskRef{OwnerID: "bob", ID: "abc"}, false},
		{"users/bob/tasks/abc", domain.TaskRef{OwnerID: "bob", ID: "abc"}, false},
		{" /abc/ ", domain.TaskRef{OwnerID: "me", ID: "abc"}, false},
		{"", domain.TaskRef{}, true},
		{"a/b/c", domain.TaskRef{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ref, err := parseRef(tt.input, "me")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ref)
			assert.Equal(t, ref, mustParse(t, formatRef(ref)))
		})
	}
}

func mustParse(t *testing.T, value string) domain.TaskRef {
	t.Helper()
	ref, err := parseRef(value, "")
	require.NoError(t, err)
	return ref
}

func TestFormatDue(t *testing.T) {
	now := time.Date(2030, 3, 10, 12, 0, 0, 0, time.UTC)
	today := domain.DateOf(now)
	later := today.AddDate(0, 0, 3)

	assert.Equal(t, "-", formatDue(nil, now, "2006-01-02"))
	assert.Equal(t, "2030-03-10 (today)", formatDue(&today, now, "2006-01-02"))
	assert.Equal(t, "2030-03-13 (3 days from now)", formatDue(&later, now, "2006-01-02"))
}
