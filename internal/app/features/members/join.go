// internal/app/features/members/join.go
package members

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/voluntahub/voluntahub/internal/app/features/api"
	membershipstore "github.com/voluntahub/voluntahub/internal/app/store/memberships"
	"github.com/voluntahub/voluntahub/internal/app/system/authz"
)

type joinRequest struct {
	Code string `json:"code"`
}

// HandleJoin enrolls the caller into the organization holding the join code,
// then runs the achievement check so join-based awards land immediately.
//
// Route: POST /members/join
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := api.Decode(r, &req); err != nil || req.Code == "" {
		api.Error(w, http.StatusBadRequest, "join code is required")
		return
	}
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), membersMedTimeout)
	defer cancel()

	org, err := h.Memberships.JoinByCode(ctx, uid, req.Code)
	switch {
	case errors.Is(err, membershipstore.ErrOrgNotFound):
		api.Error(w, http.StatusNotFound, "no organization with that code")
		return
	case errors.Is(err, membershipstore.ErrOrgInactive),
		errors.Is(err, membershipstore.ErrOrgFull):
		api.Error(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, membershipstore.ErrAlreadyMember):
		api.Error(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.Log.Error("join failed", zap.Error(err), zap.String("uid", uid))
		api.Error(w, http.StatusInternalServerError, "join error")
		return
	}

	granted, err := h.Grants.CheckAndAward(ctx, uid)
	if err != nil {
		// The join itself stands; awards will catch up on the next check.
		h.Log.Warn("achievement check after join failed", zap.Error(err), zap.String("uid", uid))
	}

	api.JSON(w, http.StatusOK, map[string]any{
		"organization":         org,
		"achievements_granted": len(granted),
	})
}

// HandleLeave removes the caller from an organization.
//
// Route: POST /members/{orgID}/leave
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	orgID, err := api.IDParam(r, "orgID")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad organization id")
		return
	}
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), membersMedTimeout)
	defer cancel()

	if err := h.Memberships.Leave(ctx, uid, orgID); err != nil {
		if errors.Is(err, membershipstore.ErrNotMember) {
			api.Error(w, http.StatusNotFound, "not a member of this organization")
			return
		}
		h.Log.Error("leave failed", zap.Error(err), zap.String("uid", uid), zap.String("org_id", orgID.Hex()))
		api.Error(w, http.StatusInternalServerError, "leave error")
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"status": "left"})
}
