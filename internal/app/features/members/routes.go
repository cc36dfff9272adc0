// internal/app/features/members/routes.go
package members

import (
	"github.com/go-chi/chi/v5"
	"github.com/voluntahub/voluntahub/internal/app/system/auth"
)

// Routes mounts all membership routes under the base path (typically
// "/members" from bootstrap). Org-admin rights are enforced in the handlers
// via the policy, since they depend on the organization in the URL.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Post("/join", h.HandleJoin)
		pr.Get("/mine", h.ServeMine)

		pr.Get("/{orgID}", h.ServeMembers)
		pr.Post("/{orgID}/leave", h.HandleLeave)
		pr.Get("/{orgID}/me", h.ServeRegistry)
		pr.Get("/{orgID}/me/hours", h.ServeHours)

		pr.Put("/{orgID}/{uid}/status", h.HandleSetStatus)
		pr.Post("/{orgID}/{uid}/hours", h.HandleAddHours)
	})

	return r
}
