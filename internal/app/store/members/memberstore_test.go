package memberstore_test

import (
	"errors"
	"testing"

	memberstore "github.com/softlexhq/softlex/internal/app/store/members"
	"github.com/softlexhq/softlex/internal/domain/models"
	"github.com/softlexhq/softlex/internal/testutil"
)

func TestCreate_RejectsDuplicatePair(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := f.CreateUser(ctx, "Creator", "creator@example.com")
	alice := f.CreateUser(ctx, "Alice", "alice@example.com")
	project := f.CreateProject(ctx, "P", creator.ID)

	store := memberstore.New(db)
	if err := store.Create(ctx, project.ID, alice.ID, models.RoleViewer, &creator.ID); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	err := store.Create(ctx, project.ID, alice.ID, models.RoleEditor, &creator.ID)
	if !errors.Is(err, memberstore.ErrDuplicateMembership) {
		t.Fatalf("err = %v, want ErrDuplicateMembership", err)
	}

	// The original row is untouched.
	m, err := store.Get(ctx, project.ID, alice.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if m.Role != models.RoleViewer {
		t.Errorf("role = %q, want viewer", m.Role)
	}
}

func TestCreate_RejectsInvalidRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := f.CreateUser(ctx, "Creator", "creator@example.com")
	alice := f.CreateUser(ctx, "Alice", "alice@example.com")
	project := f.CreateProject(ctx, "P", creator.ID)

	store := memberstore.New(db)
	err := store.Create(ctx, project.ID, alice.ID, models.ProjectRole("owner"), &creator.ID)
	if !errors.Is(err, memberstore.ErrInvalidRole) {
		t.Fatalf("err = %v, want ErrInvalidRole", err)
	}
}

func TestUpsert_OverwritesRoleAndGrantor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := f.CreateUser(ctx, "Creator", "creator@example.com")
	other := f.CreateUser(ctx, "Other Admin", "other@example.com")
	alice := f.CreateUser(ctx, "Alice", "alice@example.com")
	project := f.CreateProject(ctx, "P", creator.ID)

	store := memberstore.New(db)
	if err := store.Upsert(ctx, project.ID, alice.ID, models.RoleViewer, &creator.ID); err != nil {
		t.Fatalf("insert upsert: %v", err)
	}
	if err := store.Upsert(ctx, project.ID, alice.ID, models.RoleAdmin, &other.ID); err != nil {
		t.Fatalf("update upsert: %v", err)
	}

	m, err := store.Get(ctx, project.ID, alice.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if m.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", m.Role)
	}
	if m.AddedBy == nil || *m.AddedBy != other.ID {
		t.Errorf("grantor = %v, want %v", m.AddedBy, other.ID)
	}

	// Still exactly one row for the pair.
	members, err := store.ListByProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("ListByProject: %v", err)
	}
	count := 0
	for _, mm := range members {
		if mm.UserID == alice.ID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected one row for alice, got %d", count)
	}
}

func TestEnsureCreatorAdmin_RestoresMissingRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := f.CreateUser(ctx, "Creator", "creator@example.com")
	project := f.CreateProject(ctx, "P", creator.ID)

	store := memberstore.New(db)
	if err := store.Remove(ctx, project.ID, creator.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := store.EnsureCreatorAdmin(ctx, project); err != nil {
		t.Fatalf("EnsureCreatorAdmin: %v", err)
	}

	m, err := store.Get(ctx, project.ID, creator.ID)
	if err != nil {
		t.Fatalf("creator row should be back: %v", err)
	}
	if m.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", m.Role)
	}
}

func TestDeleteByUser_And_ClearGrantor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := f.CreateUser(ctx, "Creator", "creator@example.com")
	leaver := f.CreateUser(ctx, "Leaver", "leaver@example.com")
	stays := f.CreateUser(ctx, "Stays", "stays@example.com")
	p1 := f.CreateProject(ctx, "P1", creator.ID)
	p2 := f.CreateProject(ctx, "P2", creator.ID)
	f.CreateMembership(ctx, p1.ID, leaver.ID, models.RoleEditor, &creator.ID)
	f.CreateMembership(ctx, p2.ID, leaver.ID, models.RoleAdmin, &creator.ID)
	f.CreateMembership(ctx, p2.ID, stays.ID, models.RoleViewer, &leaver.ID)

	store := memberstore.New(db)
	n, err := store.DeleteByUser(ctx, leaver.ID)
	if err != nil {
		t.Fatalf("DeleteByUser: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d rows, want 2", n)
	}
	if err := store.ClearGrantor(ctx, leaver.ID); err != nil {
		t.Fatalf("ClearGrantor: %v", err)
	}

	m, err := store.Get(ctx, p2.ID, stays.ID)
	if err != nil {
		t.Fatalf("surviving membership: %v", err)
	}
	if m.AddedBy != nil {
		t.Errorf("grantor should be nil after ClearGrantor, got %v", m.AddedBy)
	}
}
