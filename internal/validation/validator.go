package validation

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"taskshare/internal/config"
)

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
}

// NewValidator creates a validator that uses the default limits
func NewValidator() *Validator {
	return &Validator{}
}

// NewValidatorWithConfig creates a validator that reads limits from cfg
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{config: cfg}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsWithinLength checks that the trimmed string has at most max characters.
// A max of zero or less disables the check.
func (v *Validator) IsWithinLength(s string, max int) bool {
	if max <= 0 {
		return true
	}
	return utf8.RuneCountInString(strings.TrimSpace(s)) <= max
}

// IsValidTitleLength checks a title against the configured limit
func (v *Validator) IsValidTitleLength(title string) bool {
	return v.IsWithinLength(title, v.TitleMaxLength())
}

// IsValidDescriptionLength checks a description against the configured limit
func (v *Validator) IsValidDescriptionLength(description string) bool {
	return v.IsWithinLength(description, v.DescriptionMaxLength())
}

// IsValidEmail checks for a single bare address such as "bob@example.com"
func (v *Validator) IsValidEmail(email string) bool {
	trimmed := strings.TrimSpace(email)
	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return false
	}
	return addr.Address == trimmed && strings.Contains(addr.Address, "@")
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// TitleMaxLength returns the configured maximum title length or the default
func (v *Validator) TitleMaxLength() int {
	if v.config != nil {
		return v.config.Validation.TitleMaxLength
	}
	return 200
}

// DescriptionMaxLength returns the configured maximum description length or the default
func (v *Validator) DescriptionMaxLength() int {
	if v.config != nil {
		return v.config.Validation.DescriptionMaxLength
	}
	return 2000
}
