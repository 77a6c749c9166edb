// internal/app/features/sections/routes.go
package sections

import (
	"github.com/softlexhq/softlex/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the section routes. Expected to be mounted under
// /projects/{id}/sections so handlers see both the project and section IDs.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(auth.RequireSignedIn)

	r.Get("/new", h.ServeNew)
	r.Post("/", h.HandleCreate)
	r.Post("/{sectionID}/rename", h.HandleRename)
	r.Post("/{sectionID}/reorder", h.HandleReorder)
	r.Post("/{sectionID}/delete", h.HandleDelete)

	return r
}
