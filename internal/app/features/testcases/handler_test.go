package testcases_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/softlexhq/softlex/internal/app/features/errors"
	"github.com/softlexhq/softlex/internal/app/features/testcases"
	testcasestore "github.com/softlexhq/softlex/internal/app/store/testcases"
	"github.com/softlexhq/softlex/internal/app/system/auth"
	"github.com/softlexhq/softlex/internal/domain/models"
	"github.com/softlexhq/softlex/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*testcases.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return testcases.NewHandler(db, uierrors.NewErrorLogger(logger), logger), testutil.NewFixtures(t, db)
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

	form := url.Values{
		"title":           {"Login succeeds"},
		"steps":           {"1. Open the login page\n2. Enter valid credentials"},
		"expected_result": {"The user lands on the project list"},
	}
	req := postForm("/projects/"+project.ID.Hex()+"/testcases", form)
	req = asUser(req, creator)
	req = withParams(req, "id", project.ID.Hex())
	rec := httptest.NewRecorder()

	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	store := testcasestore.New(fixtures.DB())
	list, err := store.ListByProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("ListByProject failed: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Login succeeds" {
		t.Fatalf("expected one case titled 'Login succeeds', got %+v", list)
	}
	if list[0].CreatedBy != creator.ID {
		t.Errorf("created_by = %v, want %v", list[0].CreatedBy, creator.ID)
	}
}

func TestHandleCreate_DescriptionSanitized(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	project := fixtures.CreateProject(ctx, "P", creator.ID)

	form := url.Values{
		"title":           {"XSS check"},
		"description":     {`<b>bold</b><script>alert("x")</script>`},
		"steps":           {"run it"},
		"expected_result": {"no script"},
	}
	req := postForm("/projects/"+project.ID.Hex()+"/testcases", form)
	req = asUser(req, creator)
	req = withParams(req, "id", project.ID.Hex())
	rec := httptest.NewRecorder()

	handler.HandleCreate(rec, req)

	store := testcasestore.New(fixtures.DB())
	list, err := store.ListByProject(ctx, project.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one case, got %d (err %v)", len(list), err)
	}
	if strings.Contains(list[0].Description, "<script") {
		t.Errorf("script tag survived sanitization: %q", list[0].Description)
	}
	if !strings.Contains(list[0].Description, "<b>bold</b>") {
		t.Errorf("safe formatting stripped: %q", list[0].Description)
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

	form := url.Values{
		"title":           {"Nope"},
		"steps":           {"s"},
		"expected_result": {"r"},
	}
	req := postForm("/projects/"+project.ID.Hex()+"/testcases", form)
	req = asUser(req, viewer)
	req = withParams(req, "id", project.ID.Hex())
	rec := httptest.NewRecorder()

	func() {
		defer func() { recover() }() // forbidden page renders a template
		handler.HandleCreate(rec, req)
	}()

	store := testcasestore.New(fixtures.DB())
	list, err := store.ListByProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("ListByProject failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("viewer should not create test cases, got %d", len(list))
	}
}

func TestHandleCreate_SectionFromOtherProjectRejected(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	projectA := fixtures.CreateProject(ctx, "A", creator.ID)
	projectB := fixtures.CreateProject(ctx, "B", creator.ID)
	section := fixtures.CreateSection(ctx, projectB.ID, "Elsewhere")

	form := url.Values{
		"title":           {"Cross"},
		"steps":           {"s"},
		"expected_result": {"r"},
		"section_id":      {section.ID.Hex()},
	}
	req := postForm("/projects/"+projectA.ID.Hex()+"/testcases", form)
	req = asUser(req, creator)
	req = withParams(req, "id", projectA.ID.Hex())
	rec := httptest.NewRecorder()

	func() {
		defer func() { recover() }() // re-rendered form needs the shared layout
		handler.HandleCreate(rec, req)
	}()

	store := testcasestore.New(fixtures.DB())
	list, err := store.ListByProject(ctx, projectA.ID)
	if err != nil {
		t.Fatalf("ListByProject failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("case with a foreign section must not be created, got %d", len(list))
	}
}

func TestHandleUpdate_ClearsSection(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	project := fixtures.CreateProject(ctx, "P", creator.ID)
	section := fixtures.CreateSection(ctx, project.ID, "Smoke")
	tc := fixtures.CreateTestCase(ctx, project.ID, &section.ID, "Boots", creator.ID)

	form := url.Values{
		"title":           {"Boots"},
		"steps":           {"turn it on"},
		"expected_result": {"it boots"},
		"section_id":      {""},
	}
	req := postForm("/projects/"+project.ID.Hex()+"/testcases/"+tc.ID.Hex(), form)
	req = asUser(req, creator)
	req = withParams(req, "id", project.ID.Hex(), "caseID", tc.ID.Hex())
	rec := httptest.NewRecorder()

	handler.HandleUpdate(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	store := testcasestore.New(fixtures.DB())
	got, err := store.GetByID(ctx, tc.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.SectionID != nil {
		t.Errorf("expected section cleared, got %v", got.SectionID)
	}
	if got.Steps != "turn it on" {
		t.Errorf("steps = %q, want %q", got.Steps, "turn it on")
	}
}

func TestHandleUpdate_CaseFromOtherProjectRejected(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	projectA := fixtures.CreateProject(ctx, "A", creator.ID)
	projectB := fixtures.CreateProject(ctx, "B", creator.ID)
	tc := fixtures.CreateTestCase(ctx, projectB.ID, nil, "Elsewhere", creator.ID)

	form := url.Values{
		"title":           {"Hijacked"},
		"steps":           {"s"},
		"expected_result": {"r"},
	}
	req := postForm("/projects/"+projectA.ID.Hex()+"/testcases/"+tc.ID.Hex(), form)
	req = asUser(req, creator)
	req = withParams(req, "id", projectA.ID.Hex(), "caseID", tc.ID.Hex())
	rec := httptest.NewRecorder()

	func() {
		defer func() { recover() }() // not-found page renders a template
		handler.HandleUpdate(rec, req)
	}()

	store := testcasestore.New(fixtures.DB())
	got, err := store.GetByID(ctx, tc.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "Elsewhere" {
		t.Errorf("case in another project was modified: %q", got.Title)
	}
}

func TestHandleDelete_RemovesCase(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	project := fixtures.CreateProject(ctx, "P", creator.ID)
	tc := fixtures.CreateTestCase(ctx, project.ID, nil, "Doomed", creator.ID)

	req := postForm("/projects/"+project.ID.Hex()+"/testcases/"+tc.ID.Hex()+"/delete", url.Values{})
	req = asUser(req, creator)
	req = withParams(req, "id", project.ID.Hex(), "caseID", tc.ID.Hex())
	rec := httptest.NewRecorder()

	handler.HandleDelete(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	store := testcasestore.New(fixtures.DB())
	if _, err := store.GetByID(ctx, tc.ID); err == nil {
		t.Error("test case should be gone after delete")
	}
}
