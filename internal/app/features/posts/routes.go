// internal/app/features/posts/routes.go
package posts

import (
	"github.com/go-chi/chi/v5"
	"github.com/voluntahub/voluntahub/internal/app/system/auth"
)

// Routes mounts all wall routes under the base path (typically "/posts"
// from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate) // org-admin gated in the handler
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
