// internal/app/features/organizations/stats.go
package organizations

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/voluntahub/voluntahub/internal/app/features/api"
)

// ServeStats returns the admin dashboard summary for one organization.
//
// Route: GET /organizations/{id}/stats  (org admin)
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad organization id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), orgsMedTimeout)
	defer cancel()

	if !h.requireManage(ctx, w, r, id) {
		return
	}

	stats, err := h.Stats.ForOrg(ctx, id)
	if err != nil {
		h.Log.Error("organization stats failed", zap.Error(err), zap.String("org_id", id.Hex()))
		api.Error(w, http.StatusInternalServerError, "stats error")
		return
	}
	api.JSON(w, http.StatusOK, stats)
}
