package projectpolicy_test

import (
	"testing"

	"github.com/softlexhq/softlex/internal/app/policy/projectpolicy"
	userstore "github.com/softlexhq/softlex/internal/app/store/users"
	"github.com/softlexhq/softlex/internal/domain/models"
	"github.com/softlexhq/softlex/internal/testutil"
)

func TestRoleThresholds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := f.CreateUser(ctx, "Creator", "creator@example.com")
	viewer := f.CreateUser(ctx, "Viewer", "viewer@example.com")
	editor := f.CreateUser(ctx, "Editor", "editor@example.com")
	admin := f.CreateUser(ctx, "Admin", "padmin@example.com")
	project := f.CreateProject(ctx, "P", creator.ID)
	f.CreateMembership(ctx, project.ID, viewer.ID, models.RoleViewer, &creator.ID)
	f.CreateMembership(ctx, project.ID, editor.ID, models.RoleEditor, &creator.ID)
	f.CreateMembership(ctx, project.ID, admin.ID, models.RoleAdmin, &creator.ID)

	cases := []struct {
		name                      string
		user                      models.User
		canView, canEdit, canAdmn bool
	}{
		{"viewer", viewer, true, false, false},
		{"editor", editor, true, true, false},
		{"admin", admin, true, true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := projectpolicy.CanView(ctx, db, tc.user, project.ID)
			if err != nil || got != tc.canView {
				t.Errorf("CanView = %v (err %v), want %v", got, err, tc.canView)
			}
			got, err = projectpolicy.CanEdit(ctx, db, tc.user, project.ID)
			if err != nil || got != tc.canEdit {
				t.Errorf("CanEdit = %v (err %v), want %v", got, err, tc.canEdit)
			}
			got, err = projectpolicy.CanAdminister(ctx, db, tc.user, project.ID)
			if err != nil || got != tc.canAdmn {
				t.Errorf("CanAdminister = %v (err %v), want %v", got, err, tc.canAdmn)
			}
		})
	}
}

func TestNonMemberHasNoAccess(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := f.CreateUser(ctx, "Creator", "creator@example.com")
	outsider := f.CreateUser(ctx, "Outsider", "outsider@example.com")
	project := f.CreateProject(ctx, "P", creator.ID)

	if ok, err := projectpolicy.CanView(ctx, db, outsider, project.ID); err != nil || ok {
		t.Errorf("outsider CanView = %v (err %v), want false", ok, err)
	}
	if _, has, err := projectpolicy.RoleOf(ctx, db, outsider, project.ID); err != nil || has {
		t.Errorf("outsider should have no role (has=%v err=%v)", has, err)
	}
}

func TestBlockedUserDeniedEverything(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := f.CreateUser(ctx, "Creator", "creator@example.com")
	project := f.CreateProject(ctx, "P", creator.ID)

	// Block the creator; their admin membership row stays but stops working.
	f.BlockUser(ctx, creator.ID)
	users := userstore.New(db)
	blocked, err := users.GetByID(ctx, creator.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	if ok, _ := projectpolicy.CanView(ctx, db, *blocked, project.ID); ok {
		t.Error("blocked creator must not view")
	}
	if ok, _ := projectpolicy.CanAdminister(ctx, db, *blocked, project.ID); ok {
		t.Error("blocked creator must not administer")
	}
	if _, has, _ := projectpolicy.RoleOf(ctx, db, *blocked, project.ID); has {
		t.Error("blocked creator must report no role")
	}
	if ps, _ := projectpolicy.AccessibleProjects(ctx, db, *blocked); len(ps) != 0 {
		t.Errorf("blocked creator must see no projects, got %d", len(ps))
	}
}

func TestSiteAdminBypassesMembership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := f.CreateUser(ctx, "Creator", "creator@example.com")
	siteAdmin := f.CreateAdmin(ctx, "Site Admin", "sa@example.com")
	project := f.CreateProject(ctx, "P", creator.ID)

	if ok, _ := projectpolicy.CanAdminister(ctx, db, siteAdmin, project.ID); !ok {
		t.Error("site admin must administer every project without a membership row")
	}
	role, has, _ := projectpolicy.RoleOf(ctx, db, siteAdmin, project.ID)
	if !has || role != models.RoleAdmin {
		t.Errorf("site admin RoleOf = %q/%v, want admin/true", role, has)
	}
}

func TestCreatorCanAdministerViaImplicitMembership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := f.CreateUser(ctx, "Creator", "creator@example.com")
	project := f.CreateProject(ctx, "P", creator.ID)

	if ok, _ := projectpolicy.CanAdminister(ctx, db, creator, project.ID); !ok {
		t.Error("creator must administer their own project")
	}
}

func TestAccessibleProjects(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := f.CreateUser(ctx, "Creator", "creator@example.com")
	member := f.CreateUser(ctx, "Member", "member@example.com")
	siteAdmin := f.CreateAdmin(ctx, "Site Admin", "sa@example.com")

	mine := f.CreateProject(ctx, "Mine", creator.ID)
	shared := f.CreateProject(ctx, "Shared", creator.ID)
	f.CreateMembership(ctx, shared.ID, member.ID, models.RoleViewer, &creator.ID)

	got, err := projectpolicy.AccessibleProjects(ctx, db, member)
	if err != nil {
		t.Fatalf("AccessibleProjects: %v", err)
	}
	if len(got) != 1 || got[0].ID != shared.ID {
		t.Errorf("member sees %v, want only the shared project", got)
	}

	got, err = projectpolicy.AccessibleProjects(ctx, db, creator)
	if err != nil {
		t.Fatalf("AccessibleProjects: %v", err)
	}
	seen := map[string]bool{}
	for _, p := range got {
		seen[p.Name] = true
	}
	if !seen[mine.Name] || !seen[shared.Name] {
		t.Errorf("creator sees %v, want both projects", seen)
	}

	got, err = projectpolicy.AccessibleProjects(ctx, db, siteAdmin)
	if err != nil {
		t.Fatalf("AccessibleProjects: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("site admin sees %d projects, want all 2", len(got))
	}
}
