// internal/app/store/sections/sectionstore.go
package sectionstore

import (
	"context"
	"errors"
	"time"

	"github.com/softlexhq/softlex/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c     *mongo.Collection
	cases *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("sections"),
		cases: db.Collection("test_cases"),
	}
}

var (
	errParentOtherProject = errors.New("parent section belongs to a different project")
	errParentNotFound     = errors.New("parent section not found")
)

// Create inserts a section after verifying the parent (if any) is a section
// of the same project. Order defaults to last among the new siblings.
func (s *Store) Create(ctx context.Context, sec models.Section) (models.Section, error) {
	if sec.ParentID != nil {
		var parent models.Section
		err := s.c.FindOne(ctx, bson.M{"_id": *sec.ParentID}).Decode(&parent)
		if err == mongo.ErrNoDocuments {
			return models.Section{}, errParentNotFound
		}
		if err != nil {
			return models.Section{}, err
		}
		if parent.ProjectID != sec.ProjectID {
			return models.Section{}, errParentOtherProject
		}
	}

	if sec.Order == 0 {
		n, err := s.c.CountDocuments(ctx, bson.M{
			"project_id": sec.ProjectID,
			"parent_id":  sec.ParentID,
		})
		if err != nil {
			return models.Section{}, err
		}
		sec.Order = int(n) + 1
	}

	sec.ID = primitive.NewObjectID()
	sec.NameCI = text.Fold(sec.Name)
	sec.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, sec); err != nil {
		return models.Section{}, err
	}
	return sec, nil
}

// GetByID loads a section by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Section, error) {
	var sec models.Section
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sec); err != nil {
		return models.Section{}, err
	}
	return sec, nil
}

// ListByProject returns all sections of a project ordered for tree display:
// by order key, then name.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Section, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var sections []models.Section
	if err := cur.All(ctx, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// Rename changes a section's name.
func (s *Store) Rename(ctx context.Context, id primitive.ObjectID, name string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"name":    name,
		"name_ci": text.Fold(name),
	}})
	return err
}

// SetOrder changes a section's sibling position.
func (s *Store) SetOrder(ctx context.Context, id primitive.ObjectID, order int) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"order": order}})
	return err
}

// Delete removes a section, re-parents its child sections to the deleted
// section's parent, and detaches its test cases (section_id set to null).
// Test cases are never removed when their section goes away.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	var sec models.Section
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sec)
	if err == mongo.ErrNoDocuments {
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := s.c.UpdateMany(ctx, bson.M{"parent_id": id},
		bson.M{"$set": bson.M{"parent_id": sec.ParentID}}); err != nil {
		return err
	}
	if _, err := s.cases.UpdateMany(ctx, bson.M{"section_id": id},
		bson.M{"$set": bson.M{"section_id": nil}}); err != nil {
		return err
	}

	_, err = s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteByProject removes all sections of a project.
// Returns the number of documents deleted.
func (s *Store) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
