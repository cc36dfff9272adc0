// internal/app/features/achievements/handler.go
package achievements

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/voluntahub/voluntahub/internal/app/features/api"
	"github.com/voluntahub/voluntahub/internal/app/policy/orgpolicy"
	achievementstore "github.com/voluntahub/voluntahub/internal/app/store/achievements"
	grantstore "github.com/voluntahub/voluntahub/internal/app/store/grants"
	"github.com/voluntahub/voluntahub/internal/app/system/authz"
)

const (
	achShortTimeout = 5 * time.Second
	achMedTimeout   = 10 * time.Second
)

// Handler is the feature-level entry point for Achievements.
type Handler struct {
	Achievements *achievementstore.Store
	Grants       *grantstore.Store
	Policy       *orgpolicy.Policy
	Log          *zap.Logger
}

func NewHandler(
	achievements *achievementstore.Store,
	grants *grantstore.Store,
	policy *orgpolicy.Policy,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Achievements: achievements,
		Grants:       grants,
		Policy:       policy,
		Log:          logger,
	}
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
