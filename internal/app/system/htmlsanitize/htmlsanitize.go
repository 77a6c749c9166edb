// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips dangerous markup from user-supplied rich text
// before it is stored or rendered. Project and test-case descriptions accept
// a small set of formatting tags; everything else (scripts, event handlers,
// iframes) is removed.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var policy = bluemonday.UGCPolicy()

// Sanitize returns the input with disallowed HTML removed. Plain text and
// the UGC-safe subset of tags pass through unchanged.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}

// StripAll removes every tag, leaving only text content. Used where a field
// is displayed in a plain-text context such as page titles.
func StripAll(s string) string {
	if s == "" {
		return ""
	}
	return bluemonday.StrictPolicy().Sanitize(s)
}
