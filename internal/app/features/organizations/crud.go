// internal/app/features/organizations/crud.go
package organizations

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/voluntahub/voluntahub/internal/app/features/api"
	organizationstore "github.com/voluntahub/voluntahub/internal/app/store/organizations"
	"github.com/voluntahub/voluntahub/internal/app/system/authz"
	"github.com/voluntahub/voluntahub/internal/domain/models"
)

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MaxMembers  int    `json:"max_members"`
}

// HandleCreate creates an organization with a fresh join code.
//
// Route: POST /organizations  (admin)
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), orgsMedTimeout)
	defer cancel()

	org, err := h.Orgs.Create(ctx, models.Organization{
		Name:        req.Name,
		Description: req.Description,
		MaxMembers:  req.MaxMembers,
		CreatedBy:   uid,
	})
	if err != nil {
		if errors.Is(err, organizationstore.ErrDuplicateOrganization) {
			api.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("create organization failed", zap.Error(err))
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	api.JSON(w, http.StatusCreated, org)
}

// ServeList lists organizations. Non-admins see active ones only; admins may
// pass ?all=true.
//
// Route: GET /organizations
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	activeOnly := true
	if authz.IsAdmin(r) && r.URL.Query().Get("all") == "true" {
		activeOnly = false
	}

	ctx, cancel := context.WithTimeout(r.Context(), orgsShortTimeout)
	defer cancel()

	orgs, err := h.Orgs.List(ctx, activeOnly)
	if err != nil {
		h.Log.Error("list organizations failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "list error")
		return
	}
	api.JSON(w, http.StatusOK, orgs)
}

// ServeView returns one organization.
//
// Route: GET /organizations/{id}
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad organization id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), orgsShortTimeout)
	defer cancel()

	org, err := h.Orgs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, organizationstore.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "organization not found")
			return
		}
		h.Log.Error("view organization failed", zap.Error(err), zap.String("org_id", id.Hex()))
		api.Error(w, http.StatusInternalServerError, "lookup error")
		return
	}
	api.JSON(w, http.StatusOK, org)
}

// ServeManaged lists the organizations the caller administers.
//
// Route: GET /organizations/managed
func (h *Handler) ServeManaged(w http.ResponseWriter, r *http.Request) {
	role, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), orgsShortTimeout)
	defer cancel()

	orgs, err := h.Policy.ManagedOrgs(ctx, role, uid)
	if err != nil {
		h.Log.Error("managed organizations failed", zap.Error(err), zap.String("uid", uid))
		api.Error(w, http.StatusInternalServerError, "list error")
		return
	}
	if orgs == nil {
		orgs = []models.Organization{}
	}
	api.JSON(w, http.StatusOK, orgs)
}

type updateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MaxMembers  int    `json:"max_members"`
}

// HandleUpdate edits an organization's name, description or capacity.
//
// Route: PUT /organizations/{id}  (org admin)
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad organization id")
		return
	}
	var req updateRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), orgsMedTimeout)
	defer cancel()

	if !h.requireManage(ctx, w, r, id) {
		return
	}

	err = h.Orgs.Update(ctx, id, models.Organization{
		Name:        req.Name,
		Description: req.Description,
		MaxMembers:  req.MaxMembers,
	})
	switch {
	case errors.Is(err, organizationstore.ErrNotFound):
		api.Error(w, http.StatusNotFound, "organization not found")
	case errors.Is(err, organizationstore.ErrDuplicateOrganization):
		api.Error(w, http.StatusConflict, err.Error())
	case err != nil:
		h.Log.Error("update organization failed", zap.Error(err), zap.String("org_id", id.Hex()))
		api.Error(w, http.StatusInternalServerError, "update error")
	default:
		api.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

type activeRequest struct {
	Active bool `json:"active"`
}

// HandleSetActive opens or closes an organization to new joins.
//
// Route: POST /organizations/{id}/active  (admin)
func (h *Handler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad organization id")
		return
	}
	var req activeRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), orgsMedTimeout)
	defer cancel()

	if err := h.Orgs.SetActive(ctx, id, req.Active); err != nil {
		if errors.Is(err, organizationstore.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "organization not found")
			return
		}
		h.Log.Error("set organization active failed", zap.Error(err), zap.String("org_id", id.Hex()))
		api.Error(w, http.StatusInternalServerError, "update error")
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// HandleDelete deletes an organization.
//
// Route: DELETE /organizations/{id}  (admin)
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad organization id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), orgsMedTimeout)
	defer cancel()

	if err := h.Orgs.Delete(ctx, id); err != nil {
		if errors.Is(err, organizationstore.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "organization not found")
			return
		}
		h.Log.Error("delete organization failed", zap.Error(err), zap.String("org_id", id.Hex()))
		api.Error(w, http.StatusInternalServerError, "delete error")
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// requireManage enforces the org-admin policy, writing the error response
// itself. Returns true when the caller may proceed.
func (h *Handler) requireManage(ctx context.Context, w http.ResponseWriter, r *http.Request, orgID primitive.ObjectID) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return false
	}
	allowed, err := h.Policy.CanManage(ctx, role, uid, orgID)
	if err != nil {
		h.Log.Error("policy check failed", zap.Error(err), zap.String("org_id", orgID.Hex()))
		api.Error(w, http.StatusInternalServerError, "policy error")
		return false
	}
	if !allowed {
		api.Error(w, http.StatusForbidden, "forbidden")
		return false
	}
	return true
}
