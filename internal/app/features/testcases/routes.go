// internal/app/features/testcases/routes.go
package testcases

import (
	"github.com/softlexhq/softlex/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the test case routes. Expected to be mounted under
// /projects/{id}/testcases so handlers see both the project and case IDs.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(auth.RequireSignedIn)

	r.Get("/new", h.ServeNew)
	r.Post("/", h.HandleCreate)
	r.Get("/{caseID}", h.ServeView)
	r.Get("/{caseID}/edit", h.ServeEdit)
	r.Post("/{caseID}", h.HandleUpdate)
	r.Get("/{caseID}/delete", h.ServeDeleteConfirm)
	r.Post("/{caseID}/delete", h.HandleDelete)

	return r
}
