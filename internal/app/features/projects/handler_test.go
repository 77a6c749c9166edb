package projects_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/softlexhq/softlex/internal/app/features/errors"
	"github.com/softlexhq/softlex/internal/app/features/projects"
	memberstore "github.com/softlexhq/softlex/internal/app/store/members"
	projectstore "github.com/softlexhq/softlex/internal/app/store/projects"
	"github.com/softlexhq/softlex/internal/app/system/auth"
	"github.com/softlexhq/softlex/internal/domain/models"
	"github.com/softlexhq/softlex/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*projects.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	handler := projects.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
	return handler, testutil.NewFixtures(t, db)
}

func asUser(req *http.Request, u models.User) *http.Request {
	return auth.WithTestUser(req, &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
	})
}

// withURLParam injects a chi route parameter so handlers can be called
// without mounting the full router.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandleCreate_CreatorBecomesAdmin(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")

	req := postForm("/projects", url.Values{
		"name":        {"Launch checks"},
		"description": {"Pre-release test cases"},
	})
	req = asUser(req, creator)
	rec := httptest.NewRecorder()

	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	// The new project should exist with the creator as an admin member.
	store := projectstore.New(fixtures.DB())
	list, err := store.ListByCreator(ctx, creator.ID)
	if err != nil {
		t.Fatalf("ListByCreator failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 project, got %d", len(list))
	}

	members := memberstore.New(fixtures.DB())
	m, err := members.Get(ctx, list[0].ID, creator.ID)
	if err != nil {
		t.Fatalf("creator membership missing: %v", err)
	}
	if m.Role != models.RoleAdmin {
		t.Errorf("creator role: got %q, want %q", m.Role, models.RoleAdmin)
	}
}

func TestHandleCreate_EmptyNameRejected(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")

	req := postForm("/projects", url.Values{"name": {"   "}})
	req = asUser(req, creator)
	rec := httptest.NewRecorder()

	func() {
		defer func() { recover() }() // error path renders a template
		handler.HandleCreate(rec, req)
	}()

	store := projectstore.New(fixtures.DB())
	list, err := store.ListByCreator(ctx, creator.ID)
	if err != nil {
		t.Fatalf("ListByCreator failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected no project for empty name, got %d", len(list))
	}
}

func TestHandleUpdate_NonAdminForbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	viewer := fixtures.CreateUser(ctx, "Viewer", "viewer@example.com")
	project := fixtures.CreateProject(ctx, "Project X", creator.ID)
	fixtures.CreateMembership(ctx, project.ID, viewer.ID, models.RoleViewer, &creator.ID)

	req := postForm("/projects/"+project.ID.Hex(), url.Values{"name": {"Hijacked"}})
	req = asUser(req, viewer)
	req = withURLParam(req, "id", project.ID.Hex())
	rec := httptest.NewRecorder()

	func() {
		defer func() { recover() }() // forbidden page renders a template
		handler.HandleUpdate(rec, req)
	}()

	store := projectstore.New(fixtures.DB())
	got, err := store.GetByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Project X" {
		t.Errorf("project name changed by non-admin: got %q", got.Name)
	}
}

func TestHandleMembers_ReconcilesSet(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	alice := fixtures.CreateUser(ctx, "Alice", "alice@example.com")
	bob := fixtures.CreateUser(ctx, "Bob", "bob@example.com")
	project := fixtures.CreateProject(ctx, "Project X", creator.ID)
	fixtures.CreateMembership(ctx, project.ID, bob.ID, models.RoleEditor, &creator.ID)

	// Desired set: alice as editor (by email), bob omitted -> removed.
	form := url.Values{
		"member_user_id": {""},
		"member_email":   {"alice@example.com"},
		"member_role":    {"editor"},
	}
	req := postForm("/projects/"+project.ID.Hex()+"/members", form)
	req = asUser(req, creator)
	req = withURLParam(req, "id", project.ID.Hex())
	rec := httptest.NewRecorder()

	func() {
		defer func() { recover() }() // success re-renders the edit template
		handler.HandleMembers(rec, req)
	}()

	members := memberstore.New(fixtures.DB())

	m, err := members.Get(ctx, project.ID, alice.ID)
	if err != nil {
		t.Fatalf("alice membership missing: %v", err)
	}
	if m.Role != models.RoleEditor {
		t.Errorf("alice role: got %q, want %q", m.Role, models.RoleEditor)
	}

	if exists, _ := members.Exists(ctx, project.ID, bob.ID); exists {
		t.Error("bob should have been removed from the project")
	}

	// Creator keeps the admin row.
	cm, err := members.Get(ctx, project.ID, creator.ID)
	if err != nil {
		t.Fatalf("creator membership missing: %v", err)
	}
	if cm.Role != models.RoleAdmin {
		t.Errorf("creator role: got %q, want %q", cm.Role, models.RoleAdmin)
	}
}

func TestHandleMembers_NonAdminForbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	editor := fixtures.CreateUser(ctx, "Editor", "editor@example.com")
	project := fixtures.CreateProject(ctx, "Project X", creator.ID)
	fixtures.CreateMembership(ctx, project.ID, editor.ID, models.RoleEditor, &creator.ID)

	form := url.Values{
		"member_user_id": {""},
		"member_email":   {"editor@example.com"},
		"member_role":    {"admin"},
	}
	req := postForm("/projects/"+project.ID.Hex()+"/members", form)
	req = asUser(req, editor)
	req = withURLParam(req, "id", project.ID.Hex())
	rec := httptest.NewRecorder()

	func() {
		defer func() { recover() }()
		handler.HandleMembers(rec, req)
	}()

	members := memberstore.New(fixtures.DB())
	m, err := members.Get(ctx, project.ID, editor.ID)
	if err != nil {
		t.Fatalf("editor membership missing: %v", err)
	}
	if m.Role != models.RoleEditor {
		t.Errorf("editor escalated own role: got %q", m.Role)
	}
}

func TestHandleDelete_CascadesEverything(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	project := fixtures.CreateProject(ctx, "Doomed", creator.ID)
	section := fixtures.CreateSection(ctx, project.ID, "Smoke")
	fixtures.CreateTestCase(ctx, project.ID, &section.ID, "Boots", creator.ID)

	req := postForm("/projects/"+project.ID.Hex()+"/delete", url.Values{})
	req = asUser(req, creator)
	req = withURLParam(req, "id", project.ID.Hex())
	rec := httptest.NewRecorder()

	handler.HandleDelete(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	store := projectstore.New(fixtures.DB())
	if _, err := store.GetByID(ctx, project.ID); err == nil {
		t.Error("project should be gone")
	}

	members := memberstore.New(fixtures.DB())
	if n, _ := members.CountByProject(ctx, project.ID); n != 0 {
		t.Errorf("expected 0 memberships after delete, got %d", n)
	}
}
