// internal/app/features/organizations/routes.go
package organizations

import (
	"github.com/go-chi/chi/v5"
	"github.com/voluntahub/voluntahub/internal/app/system/auth"
)

// Routes mounts all Organization routes under the base path
// (typically "/organizations" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Signed-in routes.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/managed", h.ServeManaged)
		pr.Get("/{id}", h.ServeView)

		// Org-admin gated inside the handlers (policy consults admin_uids).
		pr.Put("/{id}", h.HandleUpdate)
		pr.Get("/{id}/stats", h.ServeStats)
	})

	// Global-admin routes.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))

		pr.Post("/", h.HandleCreate)
		pr.Delete("/{id}", h.HandleDelete)
		pr.Post("/{id}/active", h.HandleSetActive)
		pr.Post("/{id}/admins", h.HandleAssignAdmin)
		pr.Delete("/{id}/admins/{uid}", h.HandleRemoveAdmin)
	})

	return r
}
