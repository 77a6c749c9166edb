// internal/app/system/normalize/normalize.go

// Package normalize provides canonical forms for user-supplied identity
// fields. Stores call these before writing so that lookups (especially
// the unique email index) compare like with like.
package normalize

import "strings"

// Email lowercases and trims an email address. Emails are compared
// case-insensitively everywhere; the stored email is the normalized form.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// AuthMethod lowercases and trims an auth method label (internal, google).
func AuthMethod(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
