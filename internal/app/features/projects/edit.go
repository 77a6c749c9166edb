// internal/app/features/projects/edit.go
package projects

import (
	"context"
	"html/template"
	"net/http"
	"strings"

	uierrors "github.com/softlexhq/softlex/internal/app/features/errors"
	"github.com/softlexhq/softlex/internal/app/policy/projectpolicy"
	"github.com/softlexhq/softlex/internal/app/system/gates"
	"github.com/softlexhq/softlex/internal/app/system/timeouts"
	"github.com/softlexhq/softlex/internal/app/system/viewdata"
	"github.com/softlexhq/softlex/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeEdit handles GET /projects/{id}/edit.
// Requires project admin access. The page carries both the detail form and
// the member management form.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
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

	_, project, ok := h.requireProjectAdmin(ctx, w, r, g.UserID, pid)
	if !ok {
		return
	}

	h.renderEdit(ctx, w, r, project, "", "")
}

// HandleUpdate handles POST /projects/{id}.
// Updates the project name and description.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r, "/login")
	if !g.OK {
		return
	}

	pid, ok := projectID(r)
	if !ok {
		uierrors.RenderNotFound(w, r, "Project not found.", "/projects")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/projects")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, project, ok := h.requireProjectAdmin(ctx, w, r, g.UserID, pid)
	if !ok {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	description := strings.TrimSpace(r.FormValue("description"))

	if name == "" {
		h.renderEdit(ctx, w, r, project, "Please enter a project name.", "")
		return
	}
	if len(name) > maxNameLen {
		h.renderEdit(ctx, w, r, project, "Project name is too long.", "")
		return
	}

	if err := h.Projects.Update(ctx, pid, models.Project{Name: name, Description: description}); err != nil {
		h.ErrLog.LogServerError(w, r, "update project", err, "A database error occurred.", "/projects")
		return
	}

	h.Log.Info("project updated",
		zap.String("project_id", pid.Hex()),
		zap.String("updated_by", g.UserID.Hex()))

	http.Redirect(w, r, "/projects/"+pid.Hex(), http.StatusSeeOther)
}

// requireProjectAdmin loads the acting user and the project, and renders an
// error page unless the user can administer the project. Returns ok=false if
// a response was already written.
func (h *Handler) requireProjectAdmin(ctx context.Context, w http.ResponseWriter, r *http.Request, uid, pid primitive.ObjectID) (*models.User, models.Project, bool) {
	acting, err := h.actingUser(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load acting user", err, "A server error occurred.", "/projects")
		return nil, models.Project{}, false
	}

	allowed, err := projectpolicy.CanAdminister(ctx, h.DB, *acting, pid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "check admin access", err, "A server error occurred.", "/projects")
		return nil, models.Project{}, false
	}
	if !allowed {
		uierrors.RenderForbidden(w, r, "Only project admins can manage this project.", "/projects/"+pid.Hex())
		return nil, models.Project{}, false
	}

	project, err := h.Projects.GetByID(ctx, pid)
	if err == mongo.ErrNoDocuments {
		uierrors.RenderNotFound(w, r, "Project not found.", "/projects")
		return nil, models.Project{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load project", err, "A server error occurred.", "/projects")
		return nil, models.Project{}, false
	}

	return acting, project, true
}

// renderEdit renders the edit page with the current member list.
func (h *Handler) renderEdit(ctx context.Context, w http.ResponseWriter, r *http.Request, project models.Project, errMsg, notice string) {
	members, err := h.Members.ListByProject(ctx, project.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list project members", err, "A server error occurred.", "/projects")
		return
	}

	rows := make([]memberRow, 0, len(members))
	for _, m := range members {
		row := memberRow{
			UserID:  m.UserID.Hex(),
			Role:    string(m.Role),
			AddedAt: m.AddedAt,
		}
		if u, err := h.Users.GetByID(ctx, m.UserID); err == nil {
			row.Name = u.FullName
			row.Email = u.Email
		}
		if m.AddedBy != nil {
			if grantor, err := h.Users.GetByID(ctx, *m.AddedBy); err == nil {
				row.AddedBy = grantor.FullName
			}
		}
		rows = append(rows, row)
	}

	templates.Render(w, r, "project_edit", editData{
		BaseVM:      viewdata.NewBaseVM(r, "Edit "+project.Name, "/projects/"+project.ID.Hex()),
		ProjectID:   project.ID.Hex(),
		Name:        project.Name,
		Description: project.Description,
		CreatorID:   project.CreatedBy.Hex(),
		Members:     rows,
		Error:       template.HTML(errMsg),
		Notice:      notice,
	})
}
