// internal/app/features/achievements/grants.go
package achievements

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/voluntahub/voluntahub/internal/app/features/api"
	achievementstore "github.com/voluntahub/voluntahub/internal/app/store/achievements"
	grantstore "github.com/voluntahub/voluntahub/internal/app/store/grants"
	"github.com/voluntahub/voluntahub/internal/app/system/authz"
	"github.com/voluntahub/voluntahub/internal/domain/models"
)

type assignRequest struct {
	UID string `json:"uid"`
}

// HandleAssign grants an achievement to a member by admin decision,
// bypassing the condition.
//
// Route: POST /achievements/{id}/assign  (org admin)
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad achievement id")
		return
	}
	var req assignRequest
	if err := api.Decode(r, &req); err != nil || req.UID == "" {
		api.Error(w, http.StatusBadRequest, "uid is required")
		return
	}
	_, _, assignedBy, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), achMedTimeout)
	defer cancel()

	a, err := h.Achievements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, achievementstore.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "achievement not found")
			return
		}
		api.Error(w, http.StatusInternalServerError, "lookup error")
		return
	}
	if !h.requireManage(ctx, w, r, a.OrganizationID) {
		return
	}

	err = h.Grants.Assign(ctx, id, req.UID, assignedBy)
	switch {
	case errors.Is(err, grantstore.ErrAlreadyGranted),
		errors.Is(err, grantstore.ErrInactive),
		errors.Is(err, grantstore.ErrNotMember):
		api.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, grantstore.ErrAchievementNotFound):
		api.Error(w, http.StatusNotFound, "achievement not found")
	case err != nil:
		h.Log.Error("assign achievement failed", zap.Error(err),
			zap.String("achievement_id", id.Hex()), zap.String("uid", req.UID))
		api.Error(w, http.StatusInternalServerError, "assign error")
	default:
		api.JSON(w, http.StatusOK, map[string]string{"status": "granted"})
	}
}

// ServeMine returns the caller's grant records across all organizations.
//
// Route: GET /achievements/mine
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), achShortTimeout)
	defer cancel()

	records, err := h.Grants.RecordsOf(ctx, uid)
	if err != nil {
		h.Log.Error("grant records lookup failed", zap.Error(err), zap.String("uid", uid))
		api.Error(w, http.StatusInternalServerError, "lookup error")
		return
	}
	if records == nil {
		records = []models.UserAchievement{}
	}
	api.JSON(w, http.StatusOK, records)
}

// HandleCheck evaluates the caller's achievements on demand and grants any
// whose condition is now met.
//
// Route: POST /achievements/check
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), achMedTimeout)
	defer cancel()

	granted, err := h.Grants.CheckAndAward(ctx, uid)
	if err != nil {
		h.Log.Error("achievement check failed", zap.Error(err), zap.String("uid", uid))
		api.Error(w, http.StatusInternalServerError, "check error")
		return
	}
	if granted == nil {
		granted = []models.Achievement{}
	}
	api.JSON(w, http.StatusOK, map[string]any{"granted": granted})
}
