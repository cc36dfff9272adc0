// internal/app/features/posts/handler.go
package posts

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/voluntahub/voluntahub/internal/app/features/api"
	"github.com/voluntahub/voluntahub/internal/app/policy/orgpolicy"
	poststore "github.com/voluntahub/voluntahub/internal/app/store/posts"
	"github.com/voluntahub/voluntahub/internal/app/system/authz"
	"github.com/voluntahub/voluntahub/internal/domain/models"
)

const (
	postsShortTimeout = 5 * time.Second
	postsMedTimeout   = 10 * time.Second
)

// Handler is the feature-level entry point for the organization wall.
type Handler struct {
	Posts  *poststore.Store
	Policy *orgpolicy.Policy
	Log    *zap.Logger
}

func NewHandler(posts *poststore.Store, policy *orgpolicy.Policy, logger *zap.Logger) *Handler {
	return &Handler{Posts: posts, Policy: policy, Log: logger}
}

type createRequest struct {
	OrganizationID string `json:"voluntariado_id"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	Type           string `json:"type"`
	Priority       string `json:"priority"`
}

// HandleCreate publishes a post on an organization's wall.
//
// Route: POST /posts  (org admin)
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
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), postsMedTimeout)
	defer cancel()

	allowed, err := h.Policy.CanManage(ctx, role, uid, orgID)
	if err != nil {
		h.Log.Error("policy check failed", zap.Error(err), zap.String("org_id", orgID.Hex()))
		api.Error(w, http.StatusInternalServerError, "policy error")
		return
	}
	if !allowed {
		api.Error(w, http.StatusForbidden, "forbidden")
		return
	}

	p, err := h.Posts.Create(ctx, models.Post{
		OrganizationID: orgID,
		Title:          req.Title,
		Content:        req.Content,
		Type:           req.Type,
		Priority:       req.Priority,
		CreatedBy:      uid,
	})
	if err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	api.JSON(w, http.StatusCreated, p)
}

// ServeList returns an organization's wall, newest first.
//
// Route: GET /posts?org=<hex>
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	orgID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("org"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "org query parameter is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), postsShortTimeout)
	defer cancel()

	posts, err := h.Posts.ListByOrg(ctx, orgID)
	if err != nil {
		h.Log.Error("post list failed", zap.Error(err), zap.String("org_id", orgID.Hex()))
		api.Error(w, http.StatusInternalServerError, "list error")
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	api.JSON(w, http.StatusOK, posts)
}

// HandleDelete removes a post.
//
// Route: DELETE /posts/{id}  (admin)
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad post id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), postsMedTimeout)
	defer cancel()

	if err := h.Posts.Delete(ctx, id); err != nil {
		if errors.Is(err, poststore.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "post not found")
			return
		}
		h.Log.Error("delete post failed", zap.Error(err), zap.String("post_id", id.Hex()))
		api.Error(w, http.StatusInternalServerError, "delete error")
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
