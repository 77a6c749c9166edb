package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/softlexhq/softlex/internal/app/store/users"
	"github.com/softlexhq/softlex/internal/app/system/status"
	"github.com/softlexhq/softlex/internal/domain/models"
	"github.com/softlexhq/softlex/internal/testutil"
)

func TestCreate_NormalizesEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	u, err := store.Create(ctx, models.User{
		FullName:   "  Ada Lovelace  ",
		Email:      "  Ada@Example.COM ",
		Role:       "user",
		Status:     status.Active,
		AuthMethod: "internal",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Email != "ada@example.com" {
		t.Errorf("email = %q, want normalized lowercase", u.Email)
	}
	if u.FullName != "Ada Lovelace" {
		t.Errorf("full name = %q, want trimmed", u.FullName)
	}
}

func TestCreate_RejectsDuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f.CreateUser(ctx, "First", "taken@example.com")

	store := userstore.New(db)
	_, err := store.Create(ctx, models.User{
		FullName:   "Second",
		Email:      "TAKEN@example.com",
		Role:       "user",
		Status:     status.Active,
		AuthMethod: "internal",
	})
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestGetByEmail_CaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created := f.CreateUser(ctx, "Ada", "ada@example.com")

	store := userstore.New(db)
	got, err := store.GetByEmail(ctx, "ADA@Example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("found wrong user: %v", got.ID)
	}
}

func TestSetStatus_RejectsUnknownValue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := f.CreateUser(ctx, "Ada", "ada@example.com")

	store := userstore.New(db)
	if err := store.SetStatus(ctx, u.ID, "suspended"); err == nil {
		t.Fatal("unknown status must be rejected")
	}
	if err := store.SetStatus(ctx, u.ID, status.Blocked); err != nil {
		t.Fatalf("valid status rejected: %v", err)
	}
}

func TestList_SearchAndPaging(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f.CreateUser(ctx, "Ada Lovelace", "ada@example.com")
	f.CreateUser(ctx, "Alan Turing", "alan@example.com")
	f.CreateUser(ctx, "Grace Hopper", "grace@example.com")

	store := userstore.New(db)

	page, err := store.List(ctx, "", 0, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 3 || len(page.Users) != 3 {
		t.Errorf("total=%d len=%d, want 3/3", page.Total, len(page.Users))
	}

	page, err = store.List(ctx, "ada", 0, 10)
	if err != nil {
		t.Fatalf("List with search: %v", err)
	}
	if page.Total != 1 || page.Users[0].Email != "ada@example.com" {
		t.Errorf("search 'ada' returned %v", page.Users)
	}

	page, err = store.List(ctx, "", 0, 2)
	if err != nil {
		t.Fatalf("List with limit: %v", err)
	}
	if page.Total != 3 || len(page.Users) != 2 {
		t.Errorf("paged list: total=%d len=%d, want 3/2", page.Total, len(page.Users))
	}
}
