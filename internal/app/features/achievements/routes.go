// internal/app/features/achievements/routes.go
package achievements

import (
	"github.com/go-chi/chi/v5"
	"github.com/voluntahub/voluntahub/internal/app/system/auth"
)

// Routes mounts all Achievement routes under the base path (typically
// "/achievements" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/mine", h.ServeMine)
		pr.Post("/check", h.HandleCheck)
		pr.Get("/{id}", h.ServeView)

		// Org-admin gated inside the handlers.
		pr.Post("/", h.HandleCreate)
		pr.Post("/{id}/active", h.HandleSetActive)
		pr.Post("/{id}/assign", h.HandleAssign)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
