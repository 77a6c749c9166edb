package sections_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/softlexhq/softlex/internal/app/features/errors"
	"github.com/softlexhq/softlex/internal/app/features/sections"
	sectionstore "github.com/softlexhq/softlex/internal/app/store/sections"
	testcasestore "github.com/softlexhq/softlex/internal/app/store/testcases"
	"github.com/softlexhq/softlex/internal/app/system/auth"
	"github.com/softlexhq/softlex/internal/domain/models"
	"github.com/softlexhq/softlex/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*sections.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return sections.NewHandler(db, uierrors.NewErrorLogger(logger), logger), testutil.NewFixtures(t, db)
}

func asUser(req *http.Request, u models.User) *http.Request {
	return auth.WithTestUser(req, &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
	})
}

func withParams(req *http.Request, pairs ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(pairs); i += 2 {
		rctx.URLParams.Add(pairs[i], pairs[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandleCreate_EditorCanCreate(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	project := fixtures.CreateProject(ctx, "P", creator.ID)

	req := postForm("/projects/"+project.ID.Hex()+"/sections", url.Values{"name": {"Smoke"}})
	req = asUser(req, creator)
	req = withParams(req, "id", project.ID.Hex())
	rec := httptest.NewRecorder()

	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	store := sectionstore.New(fixtures.DB())
	list, err := store.ListByProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("ListByProject failed: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Smoke" {
		t.Fatalf("expected one section named Smoke, got %+v", list)
	}
}

func TestHandleCreate_ViewerForbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	viewer := fixtures.CreateUser(ctx, "Viewer", "viewer@example.com")
	project := fixtures.CreateProject(ctx, "P", creator.ID)
	fixtures.CreateMembership(ctx, project.ID, viewer.ID, models.RoleViewer, &creator.ID)

	req := postForm("/projects/"+project.ID.Hex()+"/sections", url.Values{"name": {"Nope"}})
	req = asUser(req, viewer)
	req = withParams(req, "id", project.ID.Hex())
	rec := httptest.NewRecorder()

	func() {
		defer func() { recover() }() // forbidden page renders a template
		handler.HandleCreate(rec, req)
	}()

	store := sectionstore.New(fixtures.DB())
	list, err := store.ListByProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("ListByProject failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("viewer should not create sections, got %d", len(list))
	}
}

func TestHandleDelete_CasesKeptWithoutSection(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	project := fixtures.CreateProject(ctx, "P", creator.ID)
	section := fixtures.CreateSection(ctx, project.ID, "Smoke")
	tc := fixtures.CreateTestCase(ctx, project.ID, &section.ID, "Boots", creator.ID)

	req := postForm("/projects/"+project.ID.Hex()+"/sections/"+section.ID.Hex()+"/delete", url.Values{})
	req = asUser(req, creator)
	req = withParams(req, "id", project.ID.Hex(), "sectionID", section.ID.Hex())
	rec := httptest.NewRecorder()

	handler.HandleDelete(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	cases := testcasestore.New(fixtures.DB())
	got, err := cases.GetByID(ctx, tc.ID)
	if err != nil {
		t.Fatalf("test case should survive section delete: %v", err)
	}
	if got.SectionID != nil {
		t.Errorf("expected section_id cleared, got %v", got.SectionID)
	}
}

func TestHandleDelete_SectionFromOtherProjectRejected(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	projectA := fixtures.CreateProject(ctx, "A", creator.ID)
	projectB := fixtures.CreateProject(ctx, "B", creator.ID)
	section := fixtures.CreateSection(ctx, projectB.ID, "Elsewhere")

	req := postForm("/projects/"+projectA.ID.Hex()+"/sections/"+section.ID.Hex()+"/delete", url.Values{})
	req = asUser(req, creator)
	req = withParams(req, "id", projectA.ID.Hex(), "sectionID", section.ID.Hex())
	rec := httptest.NewRecorder()

	func() {
		defer func() { recover() }() // not-found page renders a template
		handler.HandleDelete(rec, req)
	}()

	store := sectionstore.New(fixtures.DB())
	if _, err := store.GetByID(ctx, section.ID); err != nil {
		t.Error("section in another project must not be deleted through this URL")
	}
}
