// internal/app/features/achievements/crud.go
package achievements

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/voluntahub/voluntahub/internal/app/features/api"
	achievementstore "github.com/voluntahub/voluntahub/internal/app/store/achievements"
	"github.com/voluntahub/voluntahub/internal/app/system/authz"
	"github.com/voluntahub/voluntahub/internal/domain/models"
)

type createRequest struct {
	OrganizationID string           `json:"voluntariado_id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Condition      models.Condition `json:"condition"`
	Hours          float64          `json:"hours"`
	Icon           string           `json:"icon"`
}

// HandleCreate defines a new achievement for an organization.
//
// Route: POST /achievements  (org admin)
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	orgID, err := primitive.ObjectIDFromHex(req.OrganizationID)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad organization id")
		return
	}
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), achMedTimeout)
	defer cancel()

	if !h.requireManage(ctx, w, r, orgID) {
		return
	}

	a, err := h.Achievements.Create(ctx, models.Achievement{
		OrganizationID: orgID,
		Name:           req.Name,
		Description:    req.Description,
		Condition:      req.Condition,
		Hours:          req.Hours,
		Icon:           req.Icon,
		CreatedBy:      uid,
	})
	if err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	api.JSON(w, http.StatusCreated, a)
}

// ServeList lists an organization's achievements.
//
// Route: GET /achievements?org=<hex>&all=true
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	orgID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("org"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "org query parameter is required")
		return
	}
	activeOnly := r.URL.Query().Get("all") != "true"

	ctx, cancel := context.WithTimeout(r.Context(), achShortTimeout)
	defer cancel()

	list, err := h.Achievements.ListByOrg(ctx, orgID, activeOnly)
	if err != nil {
		h.Log.Error("achievement list failed", zap.Error(err), zap.String("org_id", orgID.Hex()))
		api.Error(w, http.StatusInternalServerError, "list error")
		return
	}
	if list == nil {
		list = []models.Achievement{}
	}
	api.JSON(w, http.StatusOK, list)
}

// ServeView returns one achievement with its grant records.
//
// Route: GET /achievements/{id}
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad achievement id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), achShortTimeout)
	defer cancel()

	a, err := h.Achievements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, achievementstore.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "achievement not found")
			return
		}
		h.Log.Error("achievement lookup failed", zap.Error(err), zap.String("achievement_id", id.Hex()))
		api.Error(w, http.StatusInternalServerError, "lookup error")
		return
	}

	records, err := h.Grants.RecordsOfAchievement(ctx, id)
	if err != nil {
		h.Log.Error("grant records lookup failed", zap.Error(err), zap.String("achievement_id", id.Hex()))
		api.Error(w, http.StatusInternalServerError, "lookup error")
		return
	}
	if records == nil {
		records = []models.UserAchievement{}
	}

	api.JSON(w, http.StatusOK, map[string]any{
		"achievement": a,
		"grants":      records,
	})
}

type activeRequest struct {
	Active bool `json:"active"`
}

// HandleSetActive enables or disables an achievement.
//
// Route: POST /achievements/{id}/active  (org admin)
func (h *Handler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad achievement id")
		return
	}
	var req activeRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

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

	if err := h.Achievements.SetActive(ctx, id, req.Active); err != nil {
		h.Log.Error("set achievement active failed", zap.Error(err), zap.String("achievement_id", id.Hex()))
		api.Error(w, http.StatusInternalServerError, "update error")
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// HandleDelete removes an achievement definition.
//
// Route: DELETE /achievements/{id}  (org admin)
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad achievement id")
		return
	}

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

	if err := h.Achievements.Delete(ctx, id); err != nil {
		h.Log.Error("delete achievement failed", zap.Error(err), zap.String("achievement_id", id.Hex()))
		api.Error(w, http.StatusInternalServerError, "delete error")
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
