package validation

import (
	"strings"
	"testing"

	"taskshare/internal/config"
)

func TestValidator_IsNonEmptyString(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"Empty string", "", false},
		{"Whitespace only", "   ", false},
		{"Tab and newline", "\t\n", false},
		{"Valid string", "hello", true},
		{"String with leading/trailing spaces", "  hello  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := validator.IsNonEmptyString(tt.input); result != tt.expected {
				t.Errorf("IsNonEmptyString(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestValidator_IsWithinLength(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name     string
		input    string
		max      int
		expected bool
	}{
		{"Under limit", "abc", 5, true},
		{"Exactly max", "hello", 5, true},
		{"Too long", "hello!", 5, false},
		{"Trimmed before counting", "  hello  ", 5, true},
		{"Counts characters not bytes", "héllo", 5, true},
		{"No limit", strings.Repeat("a", 10000), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := validator.IsWithinLength(tt.input, tt.max); result != tt.expected {
				t.Errorf("IsWithinLength(%q, %d) = %v, expected %v", tt.input, tt.max, result, tt.expected)
			}
		})
	}
}

func TestValidator_IsValidEmail(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		input    string
		expected bool
	}{
		{"bob@example.com", true},
		{"Bob.Smith+tasks@example.co.uk", true},
		{"  bob@example.com  ", true},
		{"bob", false},
		{"bob@", false},
		{"Bob <bob@example.com>", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := validator.IsValidEmail(tt.input); result != tt.expected {
				t.Errorf("IsValidEmail(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestValidator_ConfiguredLimits(t *testing.T) {
	defaults := NewValidator()
	if defaults.TitleMaxLength() != 200 || defaults.DescriptionMaxLength() != 2000 {
		t.Errorf("default limits = %d/%d", defaults.TitleMaxLength(), defaults.DescriptionMaxLength())
	}

	cfg := config.NewConfig()
	cfg.Validation.TitleMaxLength = 10
	cfg.Validation.DescriptionMaxLength = 20
	configured := NewValidatorWithConfig(cfg)

	if configured.IsValidTitleLength(strings.Repeat("a", 11)) {
		t.Errorf("IsValidTitleLength should honor the configured limit")
	}
	if !configured.IsValidDescriptionLength(strings.Repeat("a", 20)) {
		t.Errorf("IsValidDescriptionLength should accept a description at the limit")
	}
}
