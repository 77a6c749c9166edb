// internal/app/store/projects/projectstore.go
package projectstore

import (
	"context"
	"time"

	"github.com/softlexhq/softlex/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c       *mongo.Collection
	members *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:       db.Collection("projects"),
		members: db.Collection("project_members"),
	}
}

// Create inserts a new project and the creator's implicit admin membership.
// The membership row is what makes the creator pass every admin check with
// no explicit grant from the caller.
func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.NameCI = text.Fold(p.Name)
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Project{}, err
	}

	member := models.ProjectMember{
		ID:        primitive.NewObjectID(),
		ProjectID: p.ID,
		UserID:    p.CreatedBy,
		Role:      models.RoleAdmin,
		AddedBy:   &p.CreatedBy,
		AddedAt:   now,
	}
	if _, err := s.members.InsertOne(ctx, member); err != nil {
		// Roll the project back so we never leave a project whose creator
		// cannot administer it.
		_, _ = s.c.DeleteOne(ctx, bson.M{"_id": p.ID})
		return models.Project{}, err
	}

	return p, nil
}

// GetByID loads a project by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// GetByIDs loads multiple projects by their ObjectIDs, newest first.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var projects []models.Project
	if err := cur.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// All returns every project, newest first. Used for site admins only.
func (s *Store) All(ctx context.Context) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var projects []models.Project
	if err := cur.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ListByCreator returns the projects created by the given user, newest first.
func (s *Store) ListByCreator(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"created_by": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var projects []models.Project
	if err := cur.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Update modifies a project's name/description and refreshes UpdatedAt.
// Empty fields are left unchanged.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p models.Project) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if p.Name != "" {
		set["name"] = p.Name
		set["name_ci"] = text.Fold(p.Name)
	}
	if p.Description != "" {
		set["description"] = p.Description
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// Delete removes a project by ID. Returns the number of documents deleted
// (0 or 1). Cascade cleanup of memberships, sections, and test cases is the
// caller's concern (the handlers delete via the respective stores).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
