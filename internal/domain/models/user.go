// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account that signs in with a globally unique email.
//
// NOTE:
//   - Project membership is not embedded on User.
//     Use the project_members collection to discover a user's projects.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	EmailCI      string             `bson:"email_ci" json:"email_ci"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	AuthMethod   string             `bson:"auth_method,omitempty" json:"auth_method,omitempty"` // internal | google
	Role         string             `bson:"role" json:"role"`     // admin | user
	Status       string             `bson:"status" json:"status"` // active | blocked

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the user holds the global admin role.
// Global admins bypass all per-project membership checks.
func (u User) IsAdmin() bool {
	return u.Role == "admin"
}

// IsBlocked reports whether the account is blocked. A blocked user is
// denied every project operation regardless of membership.
func (u User) IsBlocked() bool {
	return u.Status == "blocked"
}
