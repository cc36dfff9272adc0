// internal/app/features/members/registry.go
package members

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	"github.com/voluntahub/voluntahub/internal/app/features/api"
	membershipstore "github.com/voluntahub/voluntahub/internal/app/store/memberships"
	"github.com/voluntahub/voluntahub/internal/app/system/authz"
)

// ServeMine returns the caller's registries across every organization.
//
// Route: GET /members/mine
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), membersShortTimeout)
	defer cancel()

	regs, err := h.Memberships.MembershipsOf(ctx, uid)
	if err != nil {
		h.Log.Error("memberships lookup failed", zap.Error(err), zap.String("uid", uid))
		api.Error(w, http.StatusInternalServerError, "lookup error")
		return
	}
	api.JSON(w, http.StatusOK, regs)
}

// ServeRegistry returns the caller's registry for one organization.
//
// Route: GET /members/{orgID}/me
func (h *Handler) ServeRegistry(w http.ResponseWriter, r *http.Request) {
	orgID, err := api.IDParam(r, "orgID")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad organization id")
		return
	}
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), membersShortTimeout)
	defer cancel()

	reg, err := h.Memberships.Registry(ctx, uid, orgID)
	if err != nil {
		if errors.Is(err, membershipstore.ErrNotMember) || errors.Is(err, membershipstore.ErrUserNotFound) {
			api.Error(w, http.StatusNotFound, "not a member of this organization")
			return
		}
		h.Log.Error("registry lookup failed", zap.Error(err), zap.String("uid", uid))
		api.Error(w, http.StatusInternalServerError, "lookup error")
		return
	}
	api.JSON(w, http.StatusOK, reg)
}

// ServeHours returns the caller's ledger for one organization, plus a
// per-type breakdown.
//
// Route: GET /members/{orgID}/me/hours
func (h *Handler) ServeHours(w http.ResponseWriter, r *http.Request) {
	orgID, err := api.IDParam(r, "orgID")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad organization id")
		return
	}
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), membersShortTimeout)
	defer cancel()

	history, err := h.Memberships.HoursHistory(ctx, uid, orgID)
	if err != nil {
		if errors.Is(err, membershipstore.ErrNotMember) || errors.Is(err, membershipstore.ErrUserNotFound) {
			api.Error(w, http.StatusNotFound, "not a member of this organization")
			return
		}
		h.Log.Error("hours history failed", zap.Error(err), zap.String("uid", uid))
		api.Error(w, http.StatusInternalServerError, "lookup error")
		return
	}

	byType, err := h.Stats.HoursByType(ctx, uid, orgID)
	if err != nil {
		h.Log.Error("hours breakdown failed", zap.Error(err), zap.String("uid", uid))
		api.Error(w, http.StatusInternalServerError, "lookup error")
		return
	}

	api.JSON(w, http.StatusOK, map[string]any{
		"history": history,
		"by_type": byType,
	})
}

// ServeMembers lists an organization's members with their registries.
//
// Route: GET /members/{orgID}  (org admin)
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	orgID, err := api.IDParam(r, "orgID")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad organization id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), membersMedTimeout)
	defer cancel()

	if !h.requireManage(ctx, w, r, orgID) {
		return
	}

	members, err := h.Memberships.MembersOf(ctx, orgID)
	if err != nil {
		h.Log.Error("members listing failed", zap.Error(err), zap.String("org_id", orgID.Hex()))
		api.Error(w, http.StatusInternalServerError, "list error")
		return
	}

	type memberRow struct {
		UID        string  `json:"uid"`
		Name       string  `json:"name"`
		Email      string  `json:"email"`
		Status     string  `json:"status"`
		TotalHours float64 `json:"total_hours"`
		Events     int     `json:"events_completed"`
	}
	rows := make([]memberRow, 0, len(members))
	for _, m := range members {
		rows = append(rows, memberRow{
			UID:        m.User.UID,
			Name:       m.User.FullName(),
			Email:      m.User.Email,
			Status:     m.Registry.Status,
			TotalHours: m.Registry.TotalHours,
			Events:     m.Registry.EventsCompleted,
		})
	}
	api.JSON(w, http.StatusOK, rows)
}

type statusRequest struct {
	Status string `json:"status"`
}

// HandleSetStatus activates or deactivates a member.
//
// Route: PUT /members/{orgID}/{uid}/status  (org admin)
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
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
	var req statusRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), membersMedTimeout)
	defer cancel()

	if !h.requireManage(ctx, w, r, orgID) {
		return
	}

	if err := h.Memberships.SetMemberStatus(ctx, uid, orgID, req.Status); err != nil {
		if errors.Is(err, membershipstore.ErrNotMember) {
			api.Error(w, http.StatusNotFound, "not a member of this organization")
			return
		}
		h.Log.Error("set member status failed", zap.Error(err),
			zap.String("uid", uid), zap.String("org_id", orgID.Hex()))
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
