package helpers

import "strings"

// NullIfEmpty returns nil for a blank string so it is stored as SQL NULL
func NullIfEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// StringValue dereferences s, treating nil as empty
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
