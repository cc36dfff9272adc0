// internal/app/features/members/hours.go
package members

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	"github.com/voluntahub/voluntahub/internal/app/features/api"
	attendancestore "github.com/voluntahub/voluntahub/internal/app/store/attendance"
	"github.com/voluntahub/voluntahub/internal/app/system/authz"
)

type addHoursRequest struct {
	Hours    float64 `json:"hours"`
	Activity string  `json:"activity"`
	Comments string  `json:"comments"`
}

// HandleAddHours credits manual hours onto a member's ledger, then runs the
// achievement check for hour-threshold awards.
//
// Route: POST /members/{orgID}/{uid}/hours  (org admin)
func (h *Handler) HandleAddHours(w http.ResponseWriter, r *http.Request) {
	orgID, err := api.IDParam(r, "orgID")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad organization id")
		return
	}
	uid := chi.URLParam(r, "uid")
	if uid == "" {
		api.Error(w, http.StatusBadRequest, "uid is required")
		return
	}
	var req addHoursRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	_, _, addedBy, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), membersMedTimeout)
	defer cancel()

	if !h.requireManage(ctx, w, r, orgID) {
		return
	}

	if err := h.Attendance.AddHours(ctx, uid, orgID, req.Hours, req.Activity, req.Comments, addedBy); err != nil {
		if errors.Is(err, attendancestore.ErrNotMember) {
			api.Error(w, http.StatusNotFound, "not a member of this organization")
			return
		}
		h.Log.Error("add hours failed", zap.Error(err),
			zap.String("uid", uid), zap.String("org_id", orgID.Hex()))
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	granted, err := h.Grants.CheckAndAward(ctx, uid)
	if err != nil {
		h.Log.Warn("achievement check after manual hours failed", zap.Error(err), zap.String("uid", uid))
	}

	api.JSON(w, http.StatusOK, map[string]any{
		"status":               "credited",
		"achievements_granted": len(granted),
	})
}
