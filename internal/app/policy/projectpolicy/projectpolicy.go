// Package projectpolicy answers authorization questions for projects.
//
// Authorization rules:
//   - Blocked users are denied everything, regardless of membership
//   - Site admins can view, edit, and administer every project
//   - Other users act through their project_members row: viewer grants
//     viewing, editor grants editing, admin grants member management
//   - The project creator always holds an admin membership row, so no
//     creator special case exists here
//
// All checks are pure reads. Absence of access is a false result, never an
// error; errors are returned only when a database operation fails.
package projectpolicy

import (
	"context"

	"github.com/softlexhq/softlex/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// hasRole reports whether the user's membership row for the project meets the
// required role threshold.
func hasRole(ctx context.Context, db *mongo.Database, user models.User, projectID primitive.ObjectID, required models.ProjectRole) (bool, error) {
	if user.IsBlocked() {
		return false, nil
	}
	if user.IsAdmin() {
		return true, nil
	}

	var m struct {
		Role models.ProjectRole `bson:"role"`
	}
	proj := options.FindOne().SetProjection(bson.M{"role": 1})
	err := db.Collection("project_members").FindOne(ctx, bson.M{
		"project_id": projectID,
		"user_id":    user.ID,
	}, proj).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return m.Role.Meets(required), nil
}

// CanView reports whether the user can see the project and its test cases.
// Any membership role suffices; viewer is the floor.
func CanView(ctx context.Context, db *mongo.Database, user models.User, projectID primitive.ObjectID) (bool, error) {
	return hasRole(ctx, db, user, projectID, models.RoleViewer)
}

// CanEdit reports whether the user can create and modify the project's
// test cases and sections. Requires at least the editor role.
func CanEdit(ctx context.Context, db *mongo.Database, user models.User, projectID primitive.ObjectID) (bool, error) {
	return hasRole(ctx, db, user, projectID, models.RoleEditor)
}

// CanAdminister reports whether the user can change the project itself:
// rename, delete, and manage the membership list. Requires the admin role.
func CanAdminister(ctx context.Context, db *mongo.Database, user models.User, projectID primitive.ObjectID) (bool, error) {
	return hasRole(ctx, db, user, projectID, models.RoleAdmin)
}

// RoleOf returns the user's effective role on the project and whether one
// exists. Site admins are reported as project admins without needing a
// membership row; everyone else gets their stored role or none.
func RoleOf(ctx context.Context, db *mongo.Database, user models.User, projectID primitive.ObjectID) (models.ProjectRole, bool, error) {
	if user.IsBlocked() {
		return "", false, nil
	}
	if user.IsAdmin() {
		return models.RoleAdmin, true, nil
	}

	var m struct {
		Role models.ProjectRole `bson:"role"`
	}
	proj := options.FindOne().SetProjection(bson.M{"role": 1})
	err := db.Collection("project_members").FindOne(ctx, bson.M{
		"project_id": projectID,
		"user_id":    user.ID,
	}, proj).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return m.Role, true, nil
}

// AccessibleProjects returns every project the user can view, newest first:
// all projects for site admins, membership-joined projects for everyone else
// (the creator is included through their implicit admin membership row).
func AccessibleProjects(ctx context.Context, db *mongo.Database, user models.User) ([]models.Project, error) {
	if user.IsBlocked() {
		return nil, nil
	}

	projects := db.Collection("projects")
	sort := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	if user.IsAdmin() {
		cur, err := projects.Find(ctx, bson.M{}, sort)
		if err != nil {
			return nil, err
		}
		defer cur.Close(ctx)
		var out []models.Project
		if err := cur.All(ctx, &out); err != nil {
			return nil, err
		}
		return out, nil
	}

	mcur, err := db.Collection("project_members").Find(ctx,
		bson.M{"user_id": user.ID},
		options.Find().SetProjection(bson.M{"project_id": 1}))
	if err != nil {
		return nil, err
	}
	defer mcur.Close(ctx)

	var ids []primitive.ObjectID
	for mcur.Next(ctx) {
		var row struct {
			ProjectID primitive.ObjectID `bson:"project_id"`
		}
		if err := mcur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ProjectID)
	}
	if err := mcur.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	cur, err := projects.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, sort)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Project
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
