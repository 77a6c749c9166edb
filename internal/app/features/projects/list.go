// internal/app/features/projects/list.go
package projects

import (
	"context"
	"net/http"

	"github.com/softlexhq/softlex/internal/app/policy/projectpolicy"
	"github.com/softlexhq/softlex/internal/app/system/gates"
	"github.com/softlexhq/softlex/internal/app/system/timeouts"
	"github.com/softlexhq/softlex/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// ServeList handles GET /projects.
// It shows every project the signed-in user can at least view, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r, "/login")
	if !g.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	acting, err := h.actingUser(ctx, g.UserID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load acting user", err, "A server error occurred.", "/")
		return
	}

	list, err := projectpolicy.AccessibleProjects(ctx, h.DB, *acting)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list accessible projects", err, "A server error occurred.", "/")
		return
	}

	rows := make([]projectRow, 0, len(list))
	for _, p := range list {
		role, _, err := projectpolicy.RoleOf(ctx, h.DB, *acting, p.ID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "resolve project role", err, "A server error occurred.", "/")
			return
		}
		rows = append(rows, projectRow{
			ID:          p.ID.Hex(),
			Name:        p.Name,
			Description: p.Description,
			Role:        string(role),
			CreatedAt:   p.CreatedAt,
		})
	}

	templates.Render(w, r, "project_list", listData{
		BaseVM: viewdata.NewBaseVM(r, "Projects", "/"),
		Rows:   rows,
	})
}
