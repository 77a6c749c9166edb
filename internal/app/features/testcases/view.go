// internal/app/features/testcases/view.go
package testcases

import (
	"context"
	"html/template"
	"net/http"

	uierrors "github.com/softlexhq/softlex/internal/app/features/errors"
	"github.com/softlexhq/softlex/internal/app/policy/projectpolicy"
	"github.com/softlexhq/softlex/internal/app/system/gates"
	"github.com/softlexhq/softlex/internal/app/system/htmlsanitize"
	"github.com/softlexhq/softlex/internal/app/system/timeouts"
	"github.com/softlexhq/softlex/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// ServeView renders a single test case.
// GET /projects/{id}/testcases/{caseID}
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r, "/login")
	if !g.OK {
		return
	}

	pid, ok := urlObjectID(r, "id")
	if !ok {
		uierrors.RenderNotFound(w, r, "Project not found.", "/projects")
		return
	}
	cid, ok := urlObjectID(r, "caseID")
	if !ok {
		uierrors.RenderNotFound(w, r, "Test case not found.", "/projects/"+pid.Hex())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !h.requireViewer(ctx, w, r, g.UserID, pid) {
		return
	}

	tc, ok := h.loadProjectCase(ctx, w, r, pid, cid)
	if !ok {
		return
	}

	project, err := h.Projects.GetByID(ctx, pid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load project", err, "A server error occurred.", "/projects")
		return
	}

	acting, err := h.Users.GetByID(ctx, g.UserID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load acting user", err, "A server error occurred.", "/projects")
		return
	}
	canEdit, err := projectpolicy.CanEdit(ctx, h.DB, *acting, pid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "check edit access", err, "A server error occurred.", "/projects")
		return
	}

	data := viewModel{
		BaseVM:         viewdata.NewBaseVM(r, tc.Title, "/projects/"+pid.Hex()),
		ProjectID:      pid.Hex(),
		ProjectName:    project.Name,
		CaseID:         tc.ID.Hex(),
		Title:          tc.Title,
		Description:    template.HTML(htmlsanitize.Sanitize(tc.Description)),
		Preconditions:  tc.Preconditions,
		Steps:          tc.Steps,
		ExpectedResult: tc.ExpectedResult,
		CanEdit:        canEdit,
		CreatedAt:      tc.CreatedAt,
		UpdatedAt:      tc.UpdatedAt,
	}

	if tc.SectionID != nil {
		if sec, err := h.Sections.GetByID(ctx, *tc.SectionID); err == nil {
			data.SectionName = sec.Name
		}
	}
	if author, err := h.Users.GetByID(ctx, tc.CreatedBy); err == nil {
		data.CreatedBy = author.FullName
	}

	templates.Render(w, r, "testcase_view", data)
}
