// Package normalize canonicalizes user-entered and stored identity fields so
// lookups and comparisons agree.
package normalize

import "strings"

// LoginID trims and lowercases a login identifier.
func LoginID(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name. Case is preserved.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Status trims and lowercases an account status.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role trims and lowercases a role.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// StudentID trims a backend student identifier. Case is preserved.
func StudentID(s string) string {
	return strings.TrimSpace(s)
}
