// internal/domain/models/section.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Section groups test cases inside a project. Sections form a tree via
// ParentID (always same-project); Order sequences siblings.
type Section struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProjectID primitive.ObjectID  `bson:"project_id" json:"project_id"`
	ParentID  *primitive.ObjectID `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	Name      string              `bson:"name" json:"name"`
	NameCI    string              `bson:"name_ci" json:"name_ci"`
	Order     int                 `bson:"order" json:"order"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
