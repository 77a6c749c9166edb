// internal/app/features/testcases/delete.go
package testcases

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

// ServeDeleteConfirm renders the delete confirmation page.
// GET /projects/{id}/testcases/{caseID}/delete
func (h *Handler) ServeDeleteConfirm(w http.ResponseWriter, r *http.Request) {
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

	if !h.requireEditor(ctx, w, r, g.UserID, pid) {
		return
	}
	tc, ok := h.loadProjectCase(ctx, w, r, pid, cid)
	if !ok {
		return
	}

	templates.Render(w, r, "testcase_delete", deleteConfirmData{
		BaseVM:    viewdata.NewBaseVM(r, "Delete Test Case", "/projects/"+pid.Hex()+"/testcases/"+cid.Hex()),
		ProjectID: pid.Hex(),
		CaseID:    cid.Hex(),
		Title:     tc.Title,
	})
}

// HandleDelete removes a test case.
// POST /projects/{id}/testcases/{caseID}/delete
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

	if !h.requireEditor(ctx, w, r, g.UserID, pid) {
		return
	}
	tc, ok := h.loadProjectCase(ctx, w, r, pid, cid)
	if !ok {
		return
	}

	if _, err := h.Cases.Delete(ctx, cid); err != nil {
		h.ErrLog.LogServerError(w, r, "delete test case", err, "A database error occurred.", "/projects/"+pid.Hex())
		return
	}

	h.Log.Info("test case deleted",
		zap.String("case_id", cid.Hex()),
		zap.String("project_id", pid.Hex()),
		zap.String("title", tc.Title),
		zap.String("deleted_by", g.UserID.Hex()))

	http.Redirect(w, r, "/projects/"+pid.Hex(), http.StatusSeeOther)
}
