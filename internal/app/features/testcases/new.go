// internal/app/features/testcases/new.go
package testcases

import (
	"context"
	"html/template"
	"net/http"
	"strings"

	uierrors "github.com/softlexhq/softlex/internal/app/features/errors"
	"github.com/softlexhq/softlex/internal/app/system/gates"
	"github.com/softlexhq/softlex/internal/app/system/htmlsanitize"
	"github.com/softlexhq/softlex/internal/app/system/timeouts"
	"github.com/softlexhq/softlex/internal/app/system/viewdata"
	"github.com/softlexhq/softlex/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const maxTitleLen = 250

// ServeNew renders the new test case form.
// GET /projects/{id}/testcases/new
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r, "/login")
	if !g.OK {
		return
	}

	pid, ok := urlObjectID(r, "id")
	if !ok {
		uierrors.RenderNotFound(w, r, "Project not found.", "/projects")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !h.requireEditor(ctx, w, r, g.UserID, pid) {
		return
	}

	h.renderForm(ctx, w, r, "testcase_new", formData{
		BaseVM:    viewdata.NewBaseVM(r, "New Test Case", "/projects/"+pid.Hex()),
		ProjectID: pid.Hex(),
	})
}

// HandleCreate processes the new test case form.
// POST /projects/{id}/testcases
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r, "/login")
	if !g.OK {
		return
	}

	pid, ok := urlObjectID(r, "id")
	if !ok {
		uierrors.RenderNotFound(w, r, "Project not found.", "/projects")
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

	form := caseFormValues(r)
	data := formData{
		BaseVM:         viewdata.NewBaseVM(r, "New Test Case", "/projects/"+pid.Hex()),
		ProjectID:      pid.Hex(),
		Title:          form.title,
		Description:    form.description,
		Preconditions:  form.preconditions,
		Steps:          form.steps,
		ExpectedResult: form.expectedResult,
		SectionID:      form.sectionHex,
	}

	if msg := form.validate(); msg != "" {
		data.Error = template.HTML(msg)
		h.renderForm(ctx, w, r, "testcase_new", data)
		return
	}

	sectionID, ok, msg := form.resolveSection(ctx, h, pid)
	if msg != "" {
		data.Error = template.HTML(msg)
		h.renderForm(ctx, w, r, "testcase_new", data)
		return
	}

	tc := models.TestCase{
		ProjectID:      pid,
		Title:          form.title,
		Description:    htmlsanitize.Sanitize(form.description),
		Preconditions:  form.preconditions,
		Steps:          form.steps,
		ExpectedResult: form.expectedResult,
		CreatedBy:      g.UserID,
	}
	if ok {
		tc.SectionID = &sectionID
	}

	created, err := h.Cases.Create(ctx, tc)
	if err != nil {
		data.Error = template.HTML("Could not create the test case: " + err.Error())
		h.renderForm(ctx, w, r, "testcase_new", data)
		return
	}

	h.Log.Info("test case created",
		zap.String("case_id", created.ID.Hex()),
		zap.String("project_id", pid.Hex()),
		zap.String("created_by", g.UserID.Hex()))

	http.Redirect(w, r, "/projects/"+pid.Hex()+"/testcases/"+created.ID.Hex(), http.StatusSeeOther)
}

// caseForm collects the raw form fields of a test case.
type caseForm struct {
	title          string
	description    string
	preconditions  string
	steps          string
	expectedResult string
	sectionHex     string
}

func caseFormValues(r *http.Request) caseForm {
	return caseForm{
		title:          strings.TrimSpace(r.FormValue("title")),
		description:    strings.TrimSpace(r.FormValue("description")),
		preconditions:  strings.TrimSpace(r.FormValue("preconditions")),
		steps:          strings.TrimSpace(r.FormValue("steps")),
		expectedResult: strings.TrimSpace(r.FormValue("expected_result")),
		sectionHex:     strings.TrimSpace(r.FormValue("section_id")),
	}
}

// validate returns a user-facing message for the first problem found,
// or "" when the form is acceptable.
func (f caseForm) validate() string {
	switch {
	case f.title == "":
		return "Please enter a title."
	case len(f.title) > maxTitleLen:
		return "The title is too long."
	case f.steps == "":
		return "Please describe the steps."
	case f.expectedResult == "":
		return "Please describe the expected result."
	}
	return ""
}

// resolveSection validates the optional section choice against the project.
// ok reports whether a section was chosen; msg is a user-facing error.
func (f caseForm) resolveSection(ctx context.Context, h *Handler, pid primitive.ObjectID) (primitive.ObjectID, bool, string) {
	if f.sectionHex == "" {
		return primitive.NilObjectID, false, ""
	}
	sid, err := primitive.ObjectIDFromHex(f.sectionHex)
	if err != nil {
		return primitive.NilObjectID, false, "Invalid section."
	}
	sec, err := h.Sections.GetByID(ctx, sid)
	if err != nil || sec.ProjectID != pid {
		return primitive.NilObjectID, false, "That section does not belong to this project."
	}
	return sid, true, ""
}

func (h *Handler) renderForm(ctx context.Context, w http.ResponseWriter, r *http.Request, name string, data formData) {
	pid, err := primitive.ObjectIDFromHex(data.ProjectID)
	if err == nil {
		opts, optErr := h.sectionOptions(ctx, pid)
		if optErr != nil {
			h.ErrLog.LogServerError(w, r, "list sections", optErr, "A server error occurred.", "/projects/"+data.ProjectID)
			return
		}
		data.Sections = opts
	}
	templates.Render(w, r, name, data)
}
