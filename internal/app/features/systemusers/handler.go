// internal/app/features/systemusers/handler.go

// Package systemusers is the site-wide user administration area. Every page
// and action here requires the global admin role; project-level roles have
// no bearing on it.
package systemusers

import (
	"net/http"

	uierrors "github.com/softlexhq/softlex/internal/app/features/errors"
	memberstore "github.com/softlexhq/softlex/internal/app/store/members"
	userstore "github.com/softlexhq/softlex/internal/app/store/users"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides HTTP handlers for system user administration.
type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
	Users   *userstore.Store
	Members *memberstore.Store
}

// NewHandler creates a new systemusers Handler.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		ErrLog:  errLog,
		Users:   userstore.New(db),
		Members: memberstore.New(db),
	}
}

// urlUserID parses the user ID route parameter.
func urlUserID(r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	return oid, err == nil
}
