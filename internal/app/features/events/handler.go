// internal/app/features/events/handler.go
package events

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/voluntahub/voluntahub/internal/app/features/api"
	"github.com/voluntahub/voluntahub/internal/app/policy/orgpolicy"
	attendancestore "github.com/voluntahub/voluntahub/internal/app/store/attendance"
	eventstore "github.com/voluntahub/voluntahub/internal/app/store/events"
	grantstore "github.com/voluntahub/voluntahub/internal/app/store/grants"
	"github.com/voluntahub/voluntahub/internal/app/system/authz"
)

const (
	eventsShortTimeout = 5 * time.Second
	eventsMedTimeout   = 10 * time.Second
	eventsLongTimeout  = 30 * time.Second
)

// Handler is the feature-level entry point for Events.
type Handler struct {
	Events     *eventstore.Store
	Attendance *attendancestore.Store
	Grants     *grantstore.Store
	Policy     *orgpolicy.Policy
	Log        *zap.Logger
}

func NewHandler(
	events *eventstore.Store,
	attendance *attendancestore.Store,
	grants *grantstore.Store,
	policy *orgpolicy.Policy,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Events:     events,
		Attendance: attendance,
		Grants:     grants,
		Policy:     policy,
		Log:        logger,
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

// loadForManage fetches the event and enforces the org-admin policy for its
// organization in one step.
func (h *Handler) loadForManage(ctx context.Context, w http.ResponseWriter, r *http.Request, id primitive.ObjectID) (orgID primitive.ObjectID, ok bool) {
	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if err == eventstore.ErrNotFound {
			api.Error(w, http.StatusNotFound, "event not found")
			return primitive.NilObjectID, false
		}
		h.Log.Error("event lookup failed", zap.Error(err), zap.String("event_id", id.Hex()))
		api.Error(w, http.StatusInternalServerError, "lookup error")
		return primitive.NilObjectID, false
	}
	if !h.requireManage(ctx, w, r, ev.OrganizationID) {
		return primitive.NilObjectID, false
	}
	return ev.OrganizationID, true
}
