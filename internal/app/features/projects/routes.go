// internal/app/features/projects/routes.go
package projects

import (
	"github.com/softlexhq/softlex/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all project management routes.
// Every route requires a signed-in user; per-project authorization happens
// in handlers through the project policy.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(auth.RequireSignedIn)

	// LIST - projects the user can access
	r.Get("/", h.ServeList)

	// CREATE - new project form and handler
	r.Get("/new", h.ServeNew)
	r.Post("/", h.HandleCreate)

	// VIEW - project detail with sections and test cases
	r.Get("/{id}", h.ServeView)

	// EDIT - project details and member management
	r.Get("/{id}/edit", h.ServeEdit)
	r.Post("/{id}", h.HandleUpdate)
	r.Post("/{id}/members", h.HandleMembers)

	// DELETE - delete project (with confirmation)
	r.Get("/{id}/delete", h.ServeDeleteConfirm)
	r.Post("/{id}/delete", h.HandleDelete)

	return r
}
