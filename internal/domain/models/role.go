// internal/domain/models/role.go
package models

import "fmt"

// ProjectRole is the per-project permission level granted by a membership.
// Roles form a strict hierarchy: viewer < editor < admin.
type ProjectRole string

const (
	RoleViewer ProjectRole = "viewer"
	RoleEditor ProjectRole = "editor"
	RoleAdmin  ProjectRole = "admin"
)

// Level returns the numeric rank of the role (viewer=1, editor=2, admin=3).
// Unknown roles rank 0 and therefore never satisfy any threshold; callers
// are expected to validate roles at the boundary with ParseProjectRole.
func (r ProjectRole) Level() int {
	switch r {
	case RoleViewer:
		return 1
	case RoleEditor:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

// Meets reports whether this role satisfies the required threshold.
func (r ProjectRole) Meets(required ProjectRole) bool {
	return r.Level() >= required.Level()
}

// IsValid reports whether the role is one of viewer, editor, admin.
func (r ProjectRole) IsValid() bool {
	return r.Level() > 0
}

// ParseProjectRole validates a client-submitted role string.
func ParseProjectRole(s string) (ProjectRole, error) {
	r := ProjectRole(s)
	if !r.IsValid() {
		return "", fmt.Errorf(`role must be "viewer", "editor", or "admin", got %q`, s)
	}
	return r, nil
}
