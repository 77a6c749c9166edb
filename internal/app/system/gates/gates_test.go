package gates_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/softlexhq/softlex/internal/app/system/auth"
	"github.com/softlexhq/softlex/internal/app/system/gates"
)

// Helper to create a request with user context
func withTestUser(r *http.Request, role string) *http.Request {
	user := &auth.SessionUser{
		ID:    "507f1f77bcf86cd799439011", // Valid ObjectID hex
		Name:  "Test User",
		Email: "test@example.com",
		Role:  role,
	}
	return auth.WithTestUser(r, user)
}

// Test RequireAuth

func TestRequireAuth_Authenticated(t *testing.T) {
	req := httptest.NewRequest("GET", "/protected", nil)
	req = withTestUser(req, "admin")
	rec := httptest.NewRecorder()

	result := gates.RequireAuth(rec, req, "/login")

	if !result.OK {
		t.Error("expected OK to be true for authenticated user")
	}
	if result.Role != "admin" {
		t.Errorf("Role: got %q, want %q", result.Role, "admin")
	}
	if result.Name != "Test User" {
		t.Errorf("Name: got %q, want %q", result.Name, "Test User")
	}
	if result.UserID.IsZero() {
		t.Error("expected UserID to be set")
	}
}

func TestRequireAuth_NotAuthenticated(t *testing.T) {
	req := httptest.NewRequest("GET", "/protected", nil)
	rec := httptest.NewRecorder()

	result := gates.RequireAuth(rec, req, "/login")

	if result.OK {
		t.Error("expected OK to be false for unauthenticated user")
	}
}

// Test RequireAdmin

func TestRequireAdmin_AsAdmin(t *testing.T) {
	req := httptest.NewRequest("GET", "/system/users", nil)
	req = withTestUser(req, "admin")
	rec := httptest.NewRecorder()

	result := gates.RequireAdmin(rec, req, "Admin only", "/")

	if !result.OK {
		t.Error("expected OK to be true for admin user")
	}
	if result.Role != "admin" {
		t.Errorf("Role: got %q, want %q", result.Role, "admin")
	}
}

func TestRequireAdmin_NotAuthenticated(t *testing.T) {
	req := httptest.NewRequest("GET", "/system/users", nil)
	rec := httptest.NewRecorder()

	result := gates.RequireAdmin(rec, req, "Admin only", "/")

	if result.OK {
		t.Error("expected OK to be false for unauthenticated user")
	}
}

func TestRequireAdmin_WrongRole_User(t *testing.T) {
	req := httptest.NewRequest("GET", "/system/users", nil)
	req = withTestUser(req, "user")
	rec := httptest.NewRecorder()

	result := gates.RequireAdmin(rec, req, "Admin only", "/")

	if result.OK {
		t.Error("expected OK to be false for regular user")
	}
}

// Test RequireAnyRole

func TestRequireAnyRole_Matching(t *testing.T) {
	req := httptest.NewRequest("GET", "/projects", nil)
	req = withTestUser(req, "user")
	rec := httptest.NewRecorder()

	result := gates.RequireAnyRole(rec, req, "Not allowed", "/", "admin", "user")

	if !result.OK {
		t.Error("expected OK to be true for allowed role")
	}
	if result.Role != "user" {
		t.Errorf("Role: got %q, want %q", result.Role, "user")
	}
}

func TestRequireAnyRole_NotMatching(t *testing.T) {
	req := httptest.NewRequest("GET", "/projects", nil)
	req = withTestUser(req, "user")
	rec := httptest.NewRecorder()

	result := gates.RequireAnyRole(rec, req, "Not allowed", "/", "admin")

	if result.OK {
		t.Error("expected OK to be false for disallowed role")
	}
}

func TestRequireAnyRole_NotAuthenticated(t *testing.T) {
	req := httptest.NewRequest("GET", "/projects", nil)
	rec := httptest.NewRecorder()

	result := gates.RequireAnyRole(rec, req, "Not allowed", "/", "admin", "user")

	if result.OK {
		t.Error("expected OK to be false for unauthenticated user")
	}
}
