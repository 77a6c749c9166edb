// internal/domain/models/testcase.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestCase belongs to exactly one project and optionally one section.
// Access is always governed by access to the owning project, never
// independently.
type TestCase struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProjectID      primitive.ObjectID  `bson:"project_id" json:"project_id"`
	SectionID      *primitive.ObjectID `bson:"section_id,omitempty" json:"section_id,omitempty"`
	Title          string              `bson:"title" json:"title"`
	TitleCI        string              `bson:"title_ci" json:"title_ci"`
	Description    string              `bson:"description,omitempty" json:"description,omitempty"`
	Preconditions  string              `bson:"preconditions,omitempty" json:"preconditions,omitempty"`
	Steps          string              `bson:"steps" json:"steps"`
	ExpectedResult string              `bson:"expected_result" json:"expected_result"`
	CreatedBy      primitive.ObjectID  `bson:"created_by" json:"created_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
