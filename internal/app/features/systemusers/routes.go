// internal/app/features/systemusers/routes.go
package systemusers

import (
	"github.com/softlexhq/softlex/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the user administration routes (mounted at /system/users).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(auth.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Post("/{userID}/block", h.HandleBlock)
	r.Post("/{userID}/unblock", h.HandleUnblock)
	r.Post("/{userID}/role", h.HandleSetRole)
	r.Post("/{userID}/delete", h.HandleDelete)

	return r
}
