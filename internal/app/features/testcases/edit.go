// internal/app/features/testcases/edit.go
package testcases

import (
	"context"
	"html/template"
	"net/http"

	uierrors "github.com/softlexhq/softlex/internal/app/features/errors"
	testcasestore "github.com/softlexhq/softlex/internal/app/store/testcases"
	"github.com/softlexhq/softlex/internal/app/system/gates"
	"github.com/softlexhq/softlex/internal/app/system/htmlsanitize"
	"github.com/softlexhq/softlex/internal/app/system/timeouts"
	"github.com/softlexhq/softlex/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// ServeEdit renders the edit form for a test case.
// GET /projects/{id}/testcases/{caseID}/edit
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
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

	sectionHex := ""
	if tc.SectionID != nil {
		sectionHex = tc.SectionID.Hex()
	}

	h.renderForm(ctx, w, r, "testcase_edit", formData{
		BaseVM:         viewdata.NewBaseVM(r, "Edit Test Case", "/projects/"+pid.Hex()+"/testcases/"+cid.Hex()),
		ProjectID:      pid.Hex(),
		CaseID:         cid.Hex(),
		Title:          tc.Title,
		Description:    tc.Description,
		Preconditions:  tc.Preconditions,
		Steps:          tc.Steps,
		ExpectedResult: tc.ExpectedResult,
		SectionID:      sectionHex,
	})
}

// HandleUpdate processes the edit form.
// POST /projects/{id}/testcases/{caseID}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
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

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/projects/"+pid.Hex())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !h.requireEditor(ctx, w, r, g.UserID, pid) {
		return
	}
	if _, ok := h.loadProjectCase(ctx, w, r, pid, cid); !ok {
		return
	}

	form := caseFormValues(r)
	data := formData{
		BaseVM:         viewdata.NewBaseVM(r, "Edit Test Case", "/projects/"+pid.Hex()+"/testcases/"+cid.Hex()),
		ProjectID:      pid.Hex(),
		CaseID:         cid.Hex(),
		Title:          form.title,
		Description:    form.description,
		Preconditions:  form.preconditions,
		Steps:          form.steps,
		ExpectedResult: form.expectedResult,
		SectionID:      form.sectionHex,
	}

	if msg := form.validate(); msg != "" {
		data.Error = template.HTML(msg)
		h.renderForm(ctx, w, r, "testcase_edit", data)
		return
	}

	sectionID, hasSection, msg := form.resolveSection(ctx, h, pid)
	if msg != "" {
		data.Error = template.HTML(msg)
		h.renderForm(ctx, w, r, "testcase_edit", data)
		return
	}

	upd := testcasestore.Update{
		Title:          form.title,
		Description:    htmlsanitize.Sanitize(form.description),
		Preconditions:  form.preconditions,
		Steps:          form.steps,
		ExpectedResult: form.expectedResult,
		SetSection:     true,
	}
	if hasSection {
		upd.SectionID = &sectionID
	}

	if err := h.Cases.Update(ctx, cid, upd); err != nil {
		h.ErrLog.LogServerError(w, r, "update test case", err, "A database error occurred.", "/projects/"+pid.Hex())
		return
	}

	h.Log.Info("test case updated",
		zap.String("case_id", cid.Hex()),
		zap.String("project_id", pid.Hex()),
		zap.String("updated_by", g.UserID.Hex()))

	http.Redirect(w, r, "/projects/"+pid.Hex()+"/testcases/"+cid.Hex(), http.StatusSeeOther)
}
