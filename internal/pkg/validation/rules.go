package validation

import (
	"regexp"
	"unicode/utf8"
)

// Validation rule patterns
var (
	// ClockPattern is a 24h wall-clock time such as 18:30
	ClockPattern = `^([01]\d|2[0-3]):[0-5]\d$`

	// DatePattern is a calendar date such as 2025-06-02
	DatePattern = `^\d{4}-\d{2}-\d{2}$`

	// FeedbackCategoryPattern keeps categories to short slugs
	FeedbackCategoryPattern = `^[a-z][a-z0-9_-]{1,39}$`

	EmojiMaxLength    = 32
	PasswordMinLength = 8
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Clock            *regexp.Regexp
	Date             *regexp.Regexp
	FeedbackCategory *regexp.Regexp
}{
	Clock:            regexp.MustCompile(ClockPattern),
	Date:             regexp.MustCompile(DatePattern),
	FeedbackCategory: regexp.MustCompile(FeedbackCategoryPattern),
}

// StringValidation is a chainable check on a single string value
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a required string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length in runes
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length in runes
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return !v.Required
	}

	n := utf8.RuneCountInString(v.Value)
	if v.MinLen > 0 && n < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && n > v.MaxLen {
		return false
	}

	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}

	return true
}

// IsClock reports whether s is a valid HH:MM time
func IsClock(s string) bool {
	return NewStringValidation(s).WithPattern(CompiledPatterns.Clock).Validate()
}
