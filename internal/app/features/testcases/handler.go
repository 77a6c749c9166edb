// internal/app/features/testcases/handler.go
package testcases

import (
	"context"
	"net/http"

	uierrors "github.com/softlexhq/softlex/internal/app/features/errors"
	"github.com/softlexhq/softlex/internal/app/policy/projectpolicy"
	projectstore "github.com/softlexhq/softlex/internal/app/store/projects"
	sectionstore "github.com/softlexhq/softlex/internal/app/store/sections"
	testcasestore "github.com/softlexhq/softlex/internal/app/store/testcases"
	userstore "github.com/softlexhq/softlex/internal/app/store/users"
	"github.com/softlexhq/softlex/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides HTTP handlers for test cases within a project.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Cases    *testcasestore.Store
	Sections *sectionstore.Store
	Projects *projectstore.Store
	Users    *userstore.Store
}

// NewHandler creates a new test case Handler.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Cases:    testcasestore.New(db),
		Sections: sectionstore.New(db),
		Projects: projectstore.New(db),
		Users:    userstore.New(db),
	}
}

// urlObjectID parses a hex ObjectID route parameter.
func urlObjectID(r *http.Request, key string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, key))
	return oid, err == nil
}

// requireViewer renders an error page unless the user can view the project.
// Returns ok=false if a response was already written.
func (h *Handler) requireViewer(ctx context.Context, w http.ResponseWriter, r *http.Request, uid, pid primitive.ObjectID) bool {
	acting, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load acting user", err, "A server error occurred.", "/projects")
		return false
	}

	allowed, err := projectpolicy.CanView(ctx, h.DB, *acting, pid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "check view access", err, "A server error occurred.", "/projects")
		return false
	}
	if !allowed {
		uierrors.RenderForbidden(w, r, "You do not have access to this project.", "/projects")
		return false
	}
	return true
}

// requireEditor renders an error page unless the user can edit the project.
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
		uierrors.RenderForbidden(w, r, "You need editor access to change test cases.", "/projects/"+pid.Hex())
		return false
	}
	return true
}

// loadProjectCase loads a test case and verifies it belongs to the project in
// the URL, so a case ID cannot be replayed under another project.
func (h *Handler) loadProjectCase(ctx context.Context, w http.ResponseWriter, r *http.Request, pid, cid primitive.ObjectID) (models.TestCase, bool) {
	tc, err := h.Cases.GetByID(ctx, cid)
	if err == mongo.ErrNoDocuments || (err == nil && tc.ProjectID != pid) {
		uierrors.RenderNotFound(w, r, "Test case not found.", "/projects/"+pid.Hex())
		return models.TestCase{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load test case", err, "A server error occurred.", "/projects/"+pid.Hex())
		return models.TestCase{}, false
	}
	return tc, true
}

// sectionOptions lists the project's sections for the section select.
func (h *Handler) sectionOptions(ctx context.Context, pid primitive.ObjectID) ([]sectionOption, error) {
	secs, err := h.Sections.ListByProject(ctx, pid)
	if err != nil {
		return nil, err
	}
	opts := make([]sectionOption, 0, len(secs))
	for _, sec := range secs {
		opts = append(opts, sectionOption{ID: sec.ID.Hex(), Name: sec.Name})
	}
	return opts, nil
}
