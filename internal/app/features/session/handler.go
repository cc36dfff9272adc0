// internal/app/features/session/handler.go

// Package session turns an externally verified identity into a signed-in
// user. Identity verification itself happens upstream (a gateway or identity
// provider); this feature trusts the asserted uid, creates or refreshes the
// profile, and issues the session cookie.
package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/voluntahub/voluntahub/internal/app/features/api"
	userstore "github.com/voluntahub/voluntahub/internal/app/store/users"
	"github.com/voluntahub/voluntahub/internal/app/system/auth"
	"github.com/voluntahub/voluntahub/internal/domain/models"
)

const sessionTimeout = 10 * time.Second

type Handler struct {
	Users           *userstore.Store
	Sessions        *auth.SessionManager
	SuperAdminEmail string
	Log             *zap.Logger
}

func NewHandler(users *userstore.Store, sm *auth.SessionManager, superAdminEmail string, logger *zap.Logger) *Handler {
	return &Handler{
		Users:           users,
		Sessions:        sm,
		SuperAdminEmail: strings.ToLower(strings.TrimSpace(superAdminEmail)),
		Log:             logger,
	}
}

type signInRequest struct {
	UID       string `json:"uid"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// HandleSignIn upserts the profile and starts a session.
//
// Route: POST /session
func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := api.Decode(r, &req); err != nil || req.UID == "" || req.Email == "" {
		api.Error(w, http.StatusBadRequest, "uid and email are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), sessionTimeout)
	defer cancel()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	role := "user"
	if h.SuperAdminEmail != "" && email == h.SuperAdminEmail {
		role = "admin"
	}

	if err := h.Users.Upsert(ctx, models.User{
		UID:       req.UID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     email,
		Role:      role,
	}); err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			api.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("user upsert failed", zap.Error(err), zap.String("uid", req.UID))
		api.Error(w, http.StatusInternalServerError, "sign-in error")
		return
	}

	// Upsert preserves the role of existing accounts; read it back so the
	// session reflects promotions made since the account was created.
	u, err := h.Users.GetByUID(ctx, req.UID)
	if err != nil {
		h.Log.Error("user lookup after upsert failed", zap.Error(err), zap.String("uid", req.UID))
		api.Error(w, http.StatusInternalServerError, "sign-in error")
		return
	}
	if role == "admin" && u.Role != "admin" {
		if err := h.Users.SetRole(ctx, u.UID, "admin"); err != nil {
			h.Log.Error("superadmin promotion failed", zap.Error(err), zap.String("uid", u.UID))
		} else {
			u.Role = "admin"
		}
	}

	if err := h.Sessions.SignIn(w, r, auth.SessionUser{
		UID:   u.UID,
		Name:  u.FullName(),
		Email: u.Email,
		Role:  u.Role,
	}); err != nil {
		h.Log.Error("session write failed", zap.Error(err), zap.String("uid", u.UID))
		api.Error(w, http.StatusInternalServerError, "sign-in error")
		return
	}

	api.JSON(w, http.StatusOK, u)
}

// HandleSignOut clears the session.
//
// Route: DELETE /session
func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		h.Log.Error("session clear failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "sign-out error")
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// ServeMe returns the caller's profile, memberships included.
//
// Route: GET /session/me
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), sessionTimeout)
	defer cancel()

	u, err := h.Users.GetByUID(ctx, su.UID)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.Log.Error("profile lookup failed", zap.Error(err), zap.String("uid", su.UID))
		api.Error(w, http.StatusInternalServerError, "lookup error")
		return
	}
	api.JSON(w, http.StatusOK, u)
}
