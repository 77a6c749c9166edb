// internal/app/features/projects/new.go
package projects

import (
	"context"
	"html/template"
	"net/http"
	"strings"

	"github.com/softlexhq/softlex/internal/app/system/gates"
	"github.com/softlexhq/softlex/internal/app/system/timeouts"
	"github.com/softlexhq/softlex/internal/app/system/viewdata"
	"github.com/softlexhq/softlex/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

const maxNameLen = 200

// ServeNew renders the new project form.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	if g := gates.RequireAuth(w, r, "/login"); !g.OK {
		return
	}

	templates.Render(w, r, "project_new", newData{
		BaseVM: viewdata.NewBaseVM(r, "New Project", "/projects"),
	})
}

// HandleCreate processes the new project form submission.
// The creator automatically becomes a project admin.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r, "/login")
	if !g.OK {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/projects")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	description := strings.TrimSpace(r.FormValue("description"))

	reRender := func(msg string) {
		templates.Render(w, r, "project_new", newData{
			BaseVM:      viewdata.NewBaseVM(r, "New Project", "/projects"),
			Name:        name,
			Description: description,
			Error:       template.HTML(msg),
		})
	}

	if name == "" {
		reRender("Please enter a project name.")
		return
	}
	if len(name) > maxNameLen {
		reRender("Project name is too long.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Projects.Create(ctx, models.Project{
		Name:        name,
		Description: description,
		CreatedBy:   g.UserID,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error creating project", err, "A database error occurred.", "/projects")
		return
	}

	h.Log.Info("project created",
		zap.String("project_id", created.ID.Hex()),
		zap.String("name", created.Name),
		zap.String("created_by", g.UserID.Hex()))

	http.Redirect(w, r, "/projects/"+created.ID.Hex(), http.StatusSeeOther)
}
