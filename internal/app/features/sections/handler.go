// internal/app/features/sections/handler.go
package sections

import (
	"context"
	"net/http"

	uierrors "github.com/softlexhq/softlex/internal/app/features/errors"
	sectionstore "github.com/softlexhq/softlex/internal/app/store/sections"
	userstore "github.com/softlexhq/softlex/internal/app/store/users"
	"github.com/softlexhq/softlex/internal/app/policy/projectpolicy"
	"github.com/softlexhq/softlex/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides HTTP handlers for managing the sections of a project.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Sections *sectionstore.Store
	Users    *userstore.Store
}

// NewHandler creates a new sections Handler.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Sections: sectionstore.New(db),
		Users:    userstore.New(db),
	}
}

// urlObjectID parses a hex ObjectID route parameter.
func urlObjectID(r *http.Request, key string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, key))
	return oid, err == nil
}

// requireEditor renders an error page unless the user can edit the project.
// Returns ok=false if a response was already written.
func (h *Handler) requireEditor(ctx context.Context, w http.ResponseWriter, r *http.Request, uid, pid primitive.ObjectID) bool {
	acting, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load acting user", err, "A server error occurred.", "/projects")
		return false
	}

	allowed, err := projectpolicy.CanEdit(ctx, h.DB, *acting, pid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "check edit access", err, "A server error occurred.", "/projects")
		return false
	}
	if !allowed {
		uierrors.RenderForbidden(w, r, "You need editor access to change sections.", "/projects/"+pid.Hex())
		return false
	}
	return true
}

// loadProjectSection loads a section and verifies it belongs to the project
// in the URL, so a section ID cannot be replayed under another project.
func (h *Handler) loadProjectSection(ctx context.Context, w http.ResponseWriter, r *http.Request, pid, sid primitive.ObjectID) (models.Section, bool) {
	sec, err := h.Sections.GetByID(ctx, sid)
	if err == mongo.ErrNoDocuments || (err == nil && sec.ProjectID != pid) {
		uierrors.RenderNotFound(w, r, "Section not found.", "/projects/"+pid.Hex())
		return models.Section{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load section", err, "A server error occurred.", "/projects/"+pid.Hex())
		return models.Section{}, false
	}
	return sec, true
}
