package authgoogle_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/softlexhq/softlex/internal/app/features/authgoogle"
	"github.com/softlexhq/softlex/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *authgoogle.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	testutil.InitSessions(t)
	logger := zap.NewNop()

	return authgoogle.NewHandler(db, "test-client-id", "test-client-secret", "http://localhost:8080", logger)
}

func TestIsConfigured_Configured(t *testing.T) {
	h := newTestHandler(t)
	if !h.IsConfigured() {
		t.Error("IsConfigured() should return true with client ID and secret")
	}
}

func TestIsConfigured_NotConfigured(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := authgoogle.NewHandler(db, "", "", "http://localhost:8080", zap.NewNop())
	if h.IsConfigured() {
		t.Error("IsConfigured() should return false without credentials")
	}
}

func TestServeLogin_RedirectsToGoogle(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest("GET", "/auth/google", nil)
	rec := httptest.NewRecorder()

	h.ServeLogin(rec, req)

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected status %d, got %d", http.StatusTemporaryRedirect, rec.Code)
	}

	location := rec.Header().Get("Location")
	if !strings.Contains(location, "accounts.google.com") {
		t.Errorf("expected redirect to Google, got %q", location)
	}
	if !strings.Contains(location, "state=") {
		t.Errorf("expected state parameter in redirect, got %q", location)
	}
}

func TestServeLogin_NotConfigured(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := authgoogle.NewHandler(db, "", "", "http://localhost:8080", zap.NewNop())

	req := httptest.NewRequest("GET", "/auth/google", nil)
	rec := httptest.NewRecorder()

	h.ServeLogin(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if location := rec.Header().Get("Location"); !strings.Contains(location, "google_not_configured") {
		t.Errorf("expected error redirect, got %q", location)
	}
}

func TestServeCallback_MissingState(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest("GET", "/auth/google/callback?code=abc", nil)
	rec := httptest.NewRecorder()

	h.ServeCallback(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if location := rec.Header().Get("Location"); !strings.Contains(location, "invalid_state") {
		t.Errorf("expected invalid_state redirect, got %q", location)
	}
}

func TestServeCallback_UnknownState(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest("GET", "/auth/google/callback?state=bogus&code=abc", nil)
	rec := httptest.NewRecorder()

	h.ServeCallback(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if location := rec.Header().Get("Location"); !strings.Contains(location, "invalid_state") {
		t.Errorf("expected invalid_state redirect, got %q", location)
	}
}

func TestServeCallback_ProviderError(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest("GET", "/auth/google/callback?error=access_denied", nil)
	rec := httptest.NewRecorder()

	h.ServeCallback(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if location := rec.Header().Get("Location"); !strings.Contains(location, "google_denied") {
		t.Errorf("expected google_denied redirect, got %q", location)
	}
}
