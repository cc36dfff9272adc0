// internal/app/features/organizations/admins.go
package organizations

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	"github.com/voluntahub/voluntahub/internal/app/features/api"
	organizationstore "github.com/voluntahub/voluntahub/internal/app/store/organizations"
)

type assignAdminRequest struct {
	Email string `json:"email"`
}

// HandleAssignAdmin grants org-admin rights to the user holding an email.
//
// Route: POST /organizations/{id}/admins  (admin)
func (h *Handler) HandleAssignAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad organization id")
		return
	}
	var req assignAdminRequest
	if err := api.Decode(r, &req); err != nil || req.Email == "" {
		api.Error(w, http.StatusBadRequest, "email is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), orgsMedTimeout)
	defer cancel()

	uid, err := h.Orgs.AssignAdminByEmail(ctx, id, req.Email)
	switch {
	case errors.Is(err, organizationstore.ErrUserNotFound):
		api.Error(w, http.StatusNotFound, "no user with that email")
	case errors.Is(err, organizationstore.ErrNotFound):
		api.Error(w, http.StatusNotFound, "organization not found")
	case errors.Is(err, organizationstore.ErrAlreadyAdmin):
		api.Error(w, http.StatusConflict, err.Error())
	case err != nil:
		h.Log.Error("assign org admin failed", zap.Error(err), zap.String("org_id", id.Hex()))
		api.Error(w, http.StatusInternalServerError, "assign error")
	default:
		api.JSON(w, http.StatusOK, map[string]string{"status": "assigned", "uid": uid})
	}
}

// HandleRemoveAdmin revokes org-admin rights.
//
// Route: DELETE /organizations/{id}/admins/{uid}  (admin)
func (h *Handler) HandleRemoveAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad organization id")
		return
	}
	uid := chi.URLParam(r, "uid")
	if uid == "" {
		api.Error(w, http.StatusBadRequest, "uid is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), orgsMedTimeout)
	defer cancel()

	err = h.Orgs.RemoveAdmin(ctx, id, uid)
	switch {
	case errors.Is(err, organizationstore.ErrNotFound):
		api.Error(w, http.StatusNotFound, "organization not found")
	case errors.Is(err, organizationstore.ErrNotAdmin):
		api.Error(w, http.StatusConflict, err.Error())
	case err != nil:
		h.Log.Error("remove org admin failed", zap.Error(err), zap.String("org_id", id.Hex()))
		api.Error(w, http.StatusInternalServerError, "remove error")
	default:
		api.JSON(w, http.StatusOK, map[string]string{"status": "removed"})
	}
}
