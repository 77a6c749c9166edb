// internal/domain/models/membership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectMember is the authoritative join between users and projects.
// Exactly one document per (project_id, user_id); role is a scalar.
// Update the document to change a member's role, never insert a second row.
type ProjectMember struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProjectID primitive.ObjectID  `bson:"project_id" json:"project_id"`
	UserID    primitive.ObjectID  `bson:"user_id" json:"user_id"`
	Role      ProjectRole         `bson:"role" json:"role"`
	AddedBy   *primitive.ObjectID `bson:"added_by,omitempty" json:"added_by,omitempty"` // grantor; nil once the grantor is deleted
	AddedAt   time.Time           `bson:"added_at" json:"added_at"`
}
