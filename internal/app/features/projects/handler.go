// internal/app/features/projects/handler.go
package projects

import (
	"context"

	uierrors "github.com/softlexhq/softlex/internal/app/features/errors"
	memberstore "github.com/softlexhq/softlex/internal/app/store/members"
	projectstore "github.com/softlexhq/softlex/internal/app/store/projects"
	sectionstore "github.com/softlexhq/softlex/internal/app/store/sections"
	testcasestore "github.com/softlexhq/softlex/internal/app/store/testcases"
	userstore "github.com/softlexhq/softlex/internal/app/store/users"
	"github.com/softlexhq/softlex/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides HTTP handlers for project management.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
	Projects   *projectstore.Store
	Members    *memberstore.Store
	Sections   *sectionstore.Store
	Cases      *testcasestore.Store
	Users      *userstore.Store
	Reconciler *memberstore.Reconciler
}

// NewHandler creates a new projects Handler.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		ErrLog:     errLog,
		Projects:   projectstore.New(db),
		Members:    memberstore.New(db),
		Sections:   sectionstore.New(db),
		Cases:      testcasestore.New(db),
		Users:      userstore.New(db),
		Reconciler: memberstore.NewReconciler(db),
	}
}

// actingUser loads the full user record behind the session identity.
// Policy checks need the stored role and status, not just the session copy.
func (h *Handler) actingUser(ctx context.Context, uid primitive.ObjectID) (*models.User, error) {
	return h.Users.GetByID(ctx, uid)
}
