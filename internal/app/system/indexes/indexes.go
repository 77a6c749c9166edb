// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup (and from test setup). Mongo index creation is
idempotent when the name and options match, so each ensure* function can run
on every boot. Errors are aggregated so any problem is visible and startup
can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureProjects(ctx, db); err != nil {
		problems = append(problems, "projects: "+err.Error())
	}
	if err := ensureProjectMembers(ctx, db); err != nil {
		problems = append(problems, "project_members: "+err.Error())
	}
	if err := ensureSections(ctx, db); err != nil {
		problems = append(problems, "sections: "+err.Error())
	}
	if err := ensureTestCases(ctx, db); err != nil {
		problems = append(problems, "test_cases: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("users")
	_, err := c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// Email is the login identifier; uniqueness on the folded form.
		{
			Keys:    bson.D{{Key: "email_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email_ci"),
		},
		// Fast: name-sorted admin list with search
		{
			Keys:    bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_users_nameci_id"),
		},
	})
	return err
}

func ensureProjects(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("projects")
	_, err := c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_by", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_projects_creator_created"),
		},
	})
	return err
}

func ensureProjectMembers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("project_members")
	_, err := c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// Uniqueness: exactly one membership per (project, user). Role is
		// scalar; update the doc to change role.
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_pm_project_user"),
		},
		// Fast: a user's accessible projects
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_pm_user"),
		},
	})
	return err
}

func ensureSections(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("sections")
	_, err := c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "parent_id", Value: 1}, {Key: "order", Value: 1}},
			Options: options.Index().SetName("idx_sections_project_parent_order"),
		},
	})
	return err
}

func ensureTestCases(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("test_cases")
	_, err := c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_tc_project_created"),
		},
		{
			Keys:    bson.D{{Key: "section_id", Value: 1}},
			Options: options.Index().SetName("idx_tc_section"),
		},
	})
	return err
}
