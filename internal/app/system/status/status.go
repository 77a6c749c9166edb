// internal/app/system/status/status.go

// Package status defines the account status values used across stores
// and handlers. A blocked user keeps their document and memberships but
// is denied every operation until unblocked.
package status

const (
	Active  = "active"
	Blocked = "blocked"
)

// IsValid reports whether s is a recognized account status.
func IsValid(s string) bool {
	return s == Active || s == Blocked
}
