// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	memberstore "github.com/softlexhq/softlex/internal/app/store/members"
	projectstore "github.com/softlexhq/softlex/internal/app/store/projects"
	sectionstore "github.com/softlexhq/softlex/internal/app/store/sections"
	testcasestore "github.com/softlexhq/softlex/internal/app/store/testcases"
	userstore "github.com/softlexhq/softlex/internal/app/store/users"
	"github.com/softlexhq/softlex/internal/app/system/authutil"
	"github.com/softlexhq/softlex/internal/app/system/status"
	"github.com/softlexhq/softlex/internal/domain/models"
)

// Fixtures creates test data through the real stores, so fixture rows carry
// the same derived fields (folded names, timestamps, creator memberships)
// production writes do.
type Fixtures struct {
	t  *testing.T
	db *mongo.Database

	users    *userstore.Store
	projects *projectstore.Store
	members  *memberstore.Store
	sections *sectionstore.Store
	cases    *testcasestore.Store
}

// NewFixtures wraps a test database in fixture helpers.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	return &Fixtures{
		t:        t,
		db:       db,
		users:    userstore.New(db),
		projects: projectstore.New(db),
		members:  memberstore.New(db),
		sections: sectionstore.New(db),
		cases:    testcasestore.New(db),
	}
}

// DB exposes the underlying database for assertions that need raw access.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts an active internal user with the "user" role.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	u, err := f.users.Create(ctx, models.User{
		FullName:   name,
		Email:      email,
		Role:       "user",
		Status:     status.Active,
		AuthMethod: "internal",
	})
	if err != nil {
		f.t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

// CreateUserWithPassword inserts a user who can sign in with the given password.
func (f *Fixtures) CreateUserWithPassword(ctx context.Context, name, email, password string) models.User {
	f.t.Helper()
	hash, err := authutil.HashPassword(password)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	u, err := f.users.Create(ctx, models.User{
		FullName:     name,
		Email:        email,
		Role:         "user",
		Status:       status.Active,
		AuthMethod:   "internal",
		PasswordHash: hash,
	})
	if err != nil {
		f.t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

// CreateAdmin inserts an active user with the site-wide admin role.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	u, err := f.users.Create(ctx, models.User{
		FullName:   name,
		Email:      email,
		Role:       "admin",
		Status:     status.Active,
		AuthMethod: "internal",
	})
	if err != nil {
		f.t.Fatalf("create admin %s: %v", email, err)
	}
	return u
}

// BlockUser marks an existing user as blocked.
func (f *Fixtures) BlockUser(ctx context.Context, id primitive.ObjectID) {
	f.t.Helper()
	if err := f.users.SetStatus(ctx, id, status.Blocked); err != nil {
		f.t.Fatalf("block user: %v", err)
	}
}

// CreateProject inserts a project; the creator gets the implicit admin
// membership through the store.
func (f *Fixtures) CreateProject(ctx context.Context, name string, creatorID primitive.ObjectID) models.Project {
	f.t.Helper()
	p, err := f.projects.Create(ctx, models.Project{
		Name:      name,
		CreatedBy: creatorID,
	})
	if err != nil {
		f.t.Fatalf("create project %s: %v", name, err)
	}
	return p
}

// CreateMembership grants a user a role on a project.
func (f *Fixtures) CreateMembership(ctx context.Context, projectID, userID primitive.ObjectID, role models.ProjectRole, addedBy *primitive.ObjectID) {
	f.t.Helper()
	if err := f.members.Create(ctx, projectID, userID, role, addedBy); err != nil {
		f.t.Fatalf("create membership: %v", err)
	}
}

// CreateSection inserts a top-level section in a project.
func (f *Fixtures) CreateSection(ctx context.Context, projectID primitive.ObjectID, name string) models.Section {
	f.t.Helper()
	sec, err := f.sections.Create(ctx, models.Section{
		ProjectID: projectID,
		Name:      name,
	})
	if err != nil {
		f.t.Fatalf("create section %s: %v", name, err)
	}
	return sec
}

// CreateTestCase inserts a minimal valid test case, optionally in a section.
func (f *Fixtures) CreateTestCase(ctx context.Context, projectID primitive.ObjectID, sectionID *primitive.ObjectID, title string, createdBy primitive.ObjectID) models.TestCase {
	f.t.Helper()
	tc, err := f.cases.Create(ctx, models.TestCase{
		ProjectID:      projectID,
		SectionID:      sectionID,
		Title:          title,
		Steps:          "do the thing",
		ExpectedResult: "the thing happens",
		CreatedBy:      createdBy,
	})
	if err != nil {
		f.t.Fatalf("create test case %s: %v", title, err)
	}
	return tc
}
