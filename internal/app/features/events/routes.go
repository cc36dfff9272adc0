// internal/app/features/events/routes.go
package events

import (
	"github.com/go-chi/chi/v5"
	"github.com/voluntahub/voluntahub/internal/app/system/auth"
)

// Routes mounts all Event routes under the base path (typically "/events"
// from bootstrap). Org-admin rights are enforced in the handlers via the
// policy, since they depend on the event's organization.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/mine", h.ServeMine)
		pr.Get("/{id}", h.ServeView)

		pr.Post("/{id}/enroll", h.HandleEnroll)
		pr.Post("/{id}/withdraw", h.HandleWithdraw)

		// Org-admin gated inside the handlers.
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
		pr.Post("/{id}/close", h.HandleClose)
		pr.Post("/{id}/attendance", h.HandleMark)
		pr.Post("/{id}/attendance/batch", h.HandleMarkBatch)
	})

	// Global-admin maintenance.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))
		pr.Post("/close-past", h.HandleClosePast)
	})

	return r
}
