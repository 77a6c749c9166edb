// internal/app/store/testcases/testcasestore.go
package testcasestore

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
	c        *mongo.Collection
	sections *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("test_cases"),
		sections: db.Collection("sections"),
	}
}

var (
	errMissingTitle       = errors.New("test case title is required")
	errMissingSteps       = errors.New("test case steps and expected result are required")
	errSectionOtherProject = errors.New("section belongs to a different project")
)

// Create inserts a test case after validating required fields and, when a
// section is given, that it belongs to the same project.
func (s *Store) Create(ctx context.Context, tc models.TestCase) (models.TestCase, error) {
	if tc.Title == "" {
		return models.TestCase{}, errMissingTitle
	}
	if tc.Steps == "" || tc.ExpectedResult == "" {
		return models.TestCase{}, errMissingSteps
	}
	if tc.SectionID != nil {
		var sec models.Section
		if err := s.sections.FindOne(ctx, bson.M{"_id": *tc.SectionID}).Decode(&sec); err != nil {
			return models.TestCase{}, err
		}
		if sec.ProjectID != tc.ProjectID {
			return models.TestCase{}, errSectionOtherProject
		}
	}

	now := time.Now().UTC()
	tc.ID = primitive.NewObjectID()
	tc.TitleCI = text.Fold(tc.Title)
	tc.CreatedAt = now
	tc.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, tc); err != nil {
		return models.TestCase{}, err
	}
	return tc, nil
}

// GetByID loads a test case by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.TestCase, error) {
	var tc models.TestCase
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&tc); err != nil {
		return models.TestCase{}, err
	}
	return tc, nil
}

// ListByProject returns all test cases of a project, newest first.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.TestCase, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var cases []models.TestCase
	if err := cur.All(ctx, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// ListBySection returns the test cases filed under one section, newest first.
func (s *Store) ListBySection(ctx context.Context, sectionID primitive.ObjectID) ([]models.TestCase, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"section_id": sectionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var cases []models.TestCase
	if err := cur.All(ctx, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// Update holds the fields that can be updated on a test case.
// Empty string fields are left unchanged; SetSection controls whether
// SectionID is written (so the section can be cleared with nil).
type Update struct {
	Title          string
	Description    string
	Preconditions  string
	Steps          string
	ExpectedResult string
	SectionID      *primitive.ObjectID
	SetSection     bool
}

// Update modifies a test case and refreshes UpdatedAt.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if upd.Title != "" {
		set["title"] = upd.Title
		set["title_ci"] = text.Fold(upd.Title)
	}
	if upd.Description != "" {
		set["description"] = upd.Description
	}
	if upd.Preconditions != "" {
		set["preconditions"] = upd.Preconditions
	}
	if upd.Steps != "" {
		set["steps"] = upd.Steps
	}
	if upd.ExpectedResult != "" {
		set["expected_result"] = upd.ExpectedResult
	}
	if upd.SetSection {
		set["section_id"] = upd.SectionID
	}

	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// Delete removes a test case by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByProject removes all test cases of a project.
// Returns the number of documents deleted.
func (s *Store) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
