// internal/app/features/projects/delete.go
package projects

import (
	"context"
	"net/http"

	uierrors "github.com/softlexhq/softlex/internal/app/features/errors"
	"github.com/softlexhq/softlex/internal/app/system/gates"
	"github.com/softlexhq/softlex/internal/app/system/timeouts"
	"github.com/softlexhq/softlex/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ServeDeleteConfirm handles GET /projects/{id}/delete.
func (h *Handler) ServeDeleteConfirm(w http.ResponseWriter, r *http.Request) {
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

	memberCount, err := h.Members.CountByProject(ctx, pid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count members", err, "A server error occurred.", "/projects")
		return
	}
	cases, err := h.Cases.ListByProject(ctx, pid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list test cases", err, "A server error occurred.", "/projects")
		return
	}

	templates.Render(w, r, "project_delete", deleteConfirmData{
		BaseVM:      viewdata.NewBaseVM(r, "Delete "+project.Name, "/projects/"+pid.Hex()),
		ProjectID:   project.ID.Hex(),
		Name:        project.Name,
		MemberCount: memberCount,
		CaseCount:   len(cases),
	})
}

// HandleDelete handles POST /projects/{id}/delete.
// Removes the project and everything under it: test cases, sections, and
// membership rows.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r, "/login")
	if !g.OK {
		return
	}

	pid, ok := projectID(r)
	if !ok {
		uierrors.RenderNotFound(w, r, "Project not found.", "/projects")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	_, project, ok := h.requireProjectAdmin(ctx, w, r, g.UserID, pid)
	if !ok {
		return
	}

	if _, err := h.Cases.DeleteByProject(ctx, pid); err != nil {
		h.ErrLog.LogServerError(w, r, "delete test cases", err, "A database error occurred.", "/projects")
		return
	}
	if _, err := h.Sections.DeleteByProject(ctx, pid); err != nil {
		h.ErrLog.LogServerError(w, r, "delete sections", err, "A database error occurred.", "/projects")
		return
	}
	if _, err := h.Members.DeleteByProject(ctx, pid); err != nil {
		h.ErrLog.LogServerError(w, r, "delete memberships", err, "A database error occurred.", "/projects")
		return
	}
	if _, err := h.Projects.Delete(ctx, pid); err != nil {
		h.ErrLog.LogServerError(w, r, "delete project", err, "A database error occurred.", "/projects")
		return
	}

	h.Log.Info("project deleted",
		zap.String("project_id", pid.Hex()),
		zap.String("name", project.Name),
		zap.String("deleted_by", g.UserID.Hex()))

	http.Redirect(w, r, "/projects", http.StatusSeeOther)
}
