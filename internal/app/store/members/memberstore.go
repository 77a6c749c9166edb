// internal/app/store/members/memberstore.go
package memberstore

import (
	"context"
	"errors"
	"time"

	"github.com/softlexhq/softlex/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c     *mongo.Collection
	users *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("project_members"),
		users: db.Collection("users"),
	}
}

var (
	// ErrDuplicateMembership is returned when a second row for the same
	// (project, user) pair is inserted. Use Upsert to change a role.
	ErrDuplicateMembership = errors.New("user is already a member of this project")

	// ErrInvalidRole is returned when a role outside viewer/editor/admin
	// reaches a write path.
	ErrInvalidRole = errors.New(`role must be "viewer", "editor", or "admin"`)
)

// Create inserts a membership row. A second insert for the same pair is a
// conflict, never a silent upsert.
func (s *Store) Create(ctx context.Context, projectID, userID primitive.ObjectID, role models.ProjectRole, addedBy *primitive.ObjectID) error {
	if !role.IsValid() {
		return ErrInvalidRole
	}

	doc := models.ProjectMember{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		AddedBy:   addedBy,
		AddedAt:   time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateMembership
		}
		return err
	}
	return nil
}

// Upsert writes the role for (projectID, userID), inserting the row if it is
// absent and overwriting role, grantor, and timestamp if it exists. The write
// is keyed on the unique (project_id, user_id) index, so a concurrent insert
// of the same pair resolves to an update rather than a duplicate row.
func (s *Store) Upsert(ctx context.Context, projectID, userID primitive.ObjectID, role models.ProjectRole, addedBy *primitive.ObjectID) error {
	if !role.IsValid() {
		return ErrInvalidRole
	}

	filter := bson.M{"project_id": projectID, "user_id": userID}
	update := bson.M{
		"$set": bson.M{
			"role":     role,
			"added_by": addedBy,
			"added_at": time.Now().UTC(),
		},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
	}
	_, err := s.c.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// Remove deletes the membership document for (projectID, userID).
func (s *Store) Remove(ctx context.Context, projectID, userID primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"project_id": projectID, "user_id": userID})
	return err
}

// Get returns the membership row for (projectID, userID), or
// mongo.ErrNoDocuments when the user is not a member.
func (s *Store) Get(ctx context.Context, projectID, userID primitive.ObjectID) (models.ProjectMember, error) {
	var m models.ProjectMember
	if err := s.c.FindOne(ctx, bson.M{"project_id": projectID, "user_id": userID}).Decode(&m); err != nil {
		return models.ProjectMember{}, err
	}
	return m, nil
}

// Exists checks if a membership exists for the given project and user.
func (s *Store) Exists(ctx context.Context, projectID, userID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"project_id": projectID, "user_id": userID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByProject returns all memberships for a project, oldest grant first.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.ProjectMember, error) {
	opts := options.Find().SetSort(bson.D{{Key: "added_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var members []models.ProjectMember
	if err := cur.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// ProjectIDsForUser returns the IDs of every project the user is a member of.
func (s *Store) ProjectIDsForUser(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetProjection(bson.M{"project_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			ProjectID primitive.ObjectID `bson:"project_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ProjectID)
	}
	return ids, cur.Err()
}

// EnsureCreatorAdmin creates the creator's admin membership row if it is
// absent. The creator row normally exists from project creation; this covers
// projects persisted before the implicit grant existed. An existing row is
// left untouched.
func (s *Store) EnsureCreatorAdmin(ctx context.Context, project models.Project) error {
	filter := bson.M{"project_id": project.ID, "user_id": project.CreatedBy}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":      primitive.NewObjectID(),
			"role":     models.RoleAdmin,
			"added_by": project.CreatedBy,
			"added_at": time.Now().UTC(),
		},
	}
	_, err := s.c.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// DeleteByProject removes all memberships for a project.
// Returns the number of documents deleted.
func (s *Store) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByUser removes all memberships for a user.
// Returns the number of documents deleted.
func (s *Store) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ClearGrantor nulls the added_by field on every row granted by the given
// user. Called when a user is deleted so their grants survive them.
func (s *Store) ClearGrantor(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx, bson.M{"added_by": userID},
		bson.M{"$set": bson.M{"added_by": nil}})
	return err
}

// CountByProject returns the count of memberships for a project.
func (s *Store) CountByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"project_id": projectID})
}
