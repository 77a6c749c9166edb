// internal/app/features/projects/view.go
package projects

import (
	"context"
	"net/http"

	uierrors "github.com/softlexhq/softlex/internal/app/features/errors"
	"github.com/softlexhq/softlex/internal/app/policy/projectpolicy"
	"github.com/softlexhq/softlex/internal/app/system/gates"
	"github.com/softlexhq/softlex/internal/app/system/timeouts"
	"github.com/softlexhq/softlex/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// projectID extracts and parses the {id} URL parameter.
func projectID(r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	return oid, err == nil
}

// ServeView handles GET /projects/{id}.
// Requires at least viewer access.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r, "/login")
	if !g.OK {
		return
	}

	pid, ok := projectID(r)
	if !ok {
		uierrors.RenderNotFound(w, r, "Project not found.", "/projects")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	acting, err := h.actingUser(ctx, g.UserID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load acting user", err, "A server error occurred.", "/projects")
		return
	}

	allowed, err := projectpolicy.CanView(ctx, h.DB, *acting, pid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "check project access", err, "A server error occurred.", "/projects")
		return
	}
	if !allowed {
		uierrors.RenderForbidden(w, r, "You don't have access to this project.", "/projects")
		return
	}

	project, err := h.Projects.GetByID(ctx, pid)
	if err == mongo.ErrNoDocuments {
		uierrors.RenderNotFound(w, r, "Project not found.", "/projects")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load project", err, "A server error occurred.", "/projects")
		return
	}

	role, _, err := projectpolicy.RoleOf(ctx, h.DB, *acting, pid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "resolve project role", err, "A server error occurred.", "/projects")
		return
	}
	canEdit, err := projectpolicy.CanEdit(ctx, h.DB, *acting, pid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "check edit access", err, "A server error occurred.", "/projects")
		return
	}
	canAdmin, err := projectpolicy.CanAdminister(ctx, h.DB, *acting, pid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "check admin access", err, "A server error occurred.", "/projects")
		return
	}

	secs, err := h.Sections.ListByProject(ctx, pid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list sections", err, "A server error occurred.", "/projects")
		return
	}
	cases, err := h.Cases.ListByProject(ctx, pid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list test cases", err, "A server error occurred.", "/projects")
		return
	}

	// Group cases by section. Cases without a section go in Unsectioned.
	bySection := make(map[primitive.ObjectID][]caseRow)
	var unsectioned []caseRow
	for _, tc := range cases {
		row := caseRow{ID: tc.ID.Hex(), Title: tc.Title}
		if tc.SectionID == nil {
			unsectioned = append(unsectioned, row)
			continue
		}
		bySection[*tc.SectionID] = append(bySection[*tc.SectionID], row)
	}

	sectionVMs := make([]sectionVM, 0, len(secs))
	for _, sec := range secs {
		sectionVMs = append(sectionVMs, sectionVM{
			ID:    sec.ID.Hex(),
			Name:  sec.Name,
			Cases: bySection[sec.ID],
		})
	}

	templates.Render(w, r, "project_view", viewData{
		BaseVM:      viewdata.NewBaseVM(r, project.Name, "/projects"),
		ProjectID:   project.ID.Hex(),
		Name:        project.Name,
		Description: project.Description,
		Role:        string(role),
		CanEdit:     canEdit,
		CanAdmin:    canAdmin,
		Sections:    sectionVMs,
		Unsectioned: unsectioned,
	})
}
