// internal/app/store/members/reconcile.go
package memberstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/softlexhq/softlex/internal/app/policy/projectpolicy"
	"github.com/softlexhq/softlex/internal/app/system/normalize"
	"github.com/softlexhq/softlex/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotProjectAdmin is returned when the acting user does not pass the
// CanAdminister check for the project being reconciled.
var ErrNotProjectAdmin = errors.New("acting user cannot administer this project")

// DesiredMember is one entry of a client-submitted membership set, decoded
// and typed at the boundary. It references a user either by ID (when UserID
// is set) or by email.
type DesiredMember struct {
	UserID primitive.ObjectID // NilObjectID means "resolve by Email"
	Email  string
	Role   models.ProjectRole
}

// Result reports what Reconcile changed, by user ID.
type Result struct {
	Added   []primitive.ObjectID
	Updated []primitive.ObjectID
	Removed []primitive.ObjectID
}

// Reconciler replaces a project's membership set with a desired set.
// It shares the member Store's collections and adds user lookups for
// resolving desired entries.
type Reconciler struct {
	store *Store
	db    *mongo.Database
}

// NewReconciler creates a Reconciler over the given database.
func NewReconciler(db *mongo.Database) *Reconciler {
	return &Reconciler{store: New(db), db: db}
}

// Reconcile makes the project's membership rows match the desired set:
// exactly the creator plus every resolved desired entry remain afterwards.
//
// Semantics:
//   - acting must pass CanAdminister for the project (ErrNotProjectAdmin).
//   - Every desired role is validated up front; one invalid role aborts the
//     whole call before any mutation (all-or-nothing at validation).
//   - The creator's admin row is ensured and is never client-writable:
//     desired entries resolving to the creator are dropped.
//   - Entries are resolved by ID first, then by email; an entry resolving
//     to no user is dropped without failing the batch. For duplicate
//     references to one user, the last entry wins.
//   - Members absent from the desired set are removed. Every desired member
//     is then unconditionally upserted with the acting user as grantor, so
//     unchanged rows still get their grantor and timestamp refreshed.
//
// The delete/upsert sequence is not transactional across entries; a failure
// partway leaves the rows already written. Callers should serialize
// concurrent reconciles of the same project.
func (r *Reconciler) Reconcile(ctx context.Context, acting models.User, project models.Project, desired []DesiredMember) (Result, error) {
	ok, err := projectpolicy.CanAdminister(ctx, r.db, acting, project.ID)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, ErrNotProjectAdmin
	}

	// Validate all roles before touching anything.
	for i, d := range desired {
		if !d.Role.IsValid() {
			return Result{}, fmt.Errorf("desired member %d: %w", i, ErrInvalidRole)
		}
	}

	if err := r.store.EnsureCreatorAdmin(ctx, project); err != nil {
		return Result{}, err
	}

	// Current membership, creator excluded: the creator's row is managed
	// above, never through the client payload.
	current := make(map[primitive.ObjectID]models.ProjectRole)
	members, err := r.store.ListByProject(ctx, project.ID)
	if err != nil {
		return Result{}, err
	}
	for _, m := range members {
		if m.UserID == project.CreatedBy {
			continue
		}
		current[m.UserID] = m.Role
	}

	// Resolve desired entries. Later entries overwrite earlier ones for the
	// same user; unresolvable references are dropped, not errors.
	wanted := make(map[primitive.ObjectID]models.ProjectRole)
	order := make([]primitive.ObjectID, 0, len(desired))
	for _, d := range desired {
		uid, found, err := r.resolve(ctx, d)
		if err != nil {
			return Result{}, err
		}
		if !found || uid == project.CreatedBy {
			continue
		}
		if _, seen := wanted[uid]; !seen {
			order = append(order, uid)
		}
		wanted[uid] = d.Role
	}

	var res Result

	// Remove members missing from the desired set.
	for uid := range current {
		if _, keep := wanted[uid]; keep {
			continue
		}
		if err := r.store.Remove(ctx, project.ID, uid); err != nil {
			return res, err
		}
		res.Removed = append(res.Removed, uid)
	}

	// Upsert every desired member, unconditionally: unchanged rows still get
	// grantor and timestamp refreshed.
	grantor := acting.ID
	for _, uid := range order {
		if err := r.store.Upsert(ctx, project.ID, uid, wanted[uid], &grantor); err != nil {
			return res, err
		}
		if _, existed := current[uid]; existed {
			res.Updated = append(res.Updated, uid)
		} else {
			res.Added = append(res.Added, uid)
		}
	}

	return res, nil
}

// resolve maps a desired entry to a concrete user ID: by ID when present,
// falling back to case-insensitive email lookup. Returns found=false when
// neither matches an existing user.
func (r *Reconciler) resolve(ctx context.Context, d DesiredMember) (primitive.ObjectID, bool, error) {
	users := r.db.Collection("users")
	proj := options.FindOne().SetProjection(bson.M{"_id": 1})

	var row struct {
		ID primitive.ObjectID `bson:"_id"`
	}

	if d.UserID != primitive.NilObjectID {
		err := users.FindOne(ctx, bson.M{"_id": d.UserID}, proj).Decode(&row)
		if err == mongo.ErrNoDocuments {
			return primitive.NilObjectID, false, nil
		}
		if err != nil {
			return primitive.NilObjectID, false, err
		}
		return row.ID, true, nil
	}

	email := normalize.Email(d.Email)
	if email == "" {
		return primitive.NilObjectID, false, nil
	}
	err := users.FindOne(ctx, bson.M{"email_ci": email}, proj).Decode(&row)
	if err == mongo.ErrNoDocuments {
		return primitive.NilObjectID, false, nil
	}
	if err != nil {
		return primitive.NilObjectID, false, err
	}
	return row.ID, true, nil
}
