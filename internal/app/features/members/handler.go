// internal/app/features/members/handler.go
package members

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/voluntahub/voluntahub/internal/app/features/api"
	"github.com/voluntahub/voluntahub/internal/app/policy/orgpolicy"
	attendancestore "github.com/voluntahub/voluntahub/internal/app/store/attendance"
	grantstore "github.com/voluntahub/voluntahub/internal/app/store/grants"
	membershipstore "github.com/voluntahub/voluntahub/internal/app/store/memberships"
	statstore "github.com/voluntahub/voluntahub/internal/app/store/stats"
	"github.com/voluntahub/voluntahub/internal/app/system/authz"
)

const (
	membersShortTimeout = 5 * time.Second
	membersMedTimeout   = 10 * time.Second
)

// Handler is the feature-level entry point for membership and the hours
// ledger as seen by members.
type Handler struct {
	Memberships *membershipstore.Store
	Attendance  *attendancestore.Store
	Grants      *grantstore.Store
	Stats       *statstore.Store
	Policy      *orgpolicy.Policy
	Log         *zap.Logger
}

func NewHandler(
	memberships *membershipstore.Store,
	attendance *attendancestore.Store,
	grants *grantstore.Store,
	stats *statstore.Store,
	policy *orgpolicy.Policy,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Memberships: memberships,
		Attendance:  attendance,
		Grants:      grants,
		Stats:       stats,
		Policy:      policy,
		Log:         logger,
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
