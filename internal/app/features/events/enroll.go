// internal/app/features/events/enroll.go
package events

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/voluntahub/voluntahub/internal/app/features/api"
	eventstore "github.com/voluntahub/voluntahub/internal/app/store/events"
	"github.com/voluntahub/voluntahub/internal/app/system/authz"
)

// HandleEnroll adds the caller to an event's roster.
//
// Route: POST /events/{id}/enroll
func (h *Handler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad event id")
		return
	}
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), eventsMedTimeout)
	defer cancel()

	err = h.Events.Enroll(ctx, id, uid, time.Now().UTC())
	switch {
	case errors.Is(err, eventstore.ErrNotFound):
		api.Error(w, http.StatusNotFound, "event not found")
	case errors.Is(err, eventstore.ErrNotOpen),
		errors.Is(err, eventstore.ErrEventPast),
		errors.Is(err, eventstore.ErrAlreadyEnrolled),
		errors.Is(err, eventstore.ErrCapacityExceeded):
		api.Error(w, http.StatusConflict, err.Error())
	case err != nil:
		h.Log.Error("enroll failed", zap.Error(err),
			zap.String("event_id", id.Hex()), zap.String("uid", uid))
		api.Error(w, http.StatusInternalServerError, "enroll error")
	default:
		api.JSON(w, http.StatusOK, map[string]string{"status": "enrolled"})
	}
}

// HandleWithdraw removes the caller from an event's roster.
//
// Route: POST /events/{id}/withdraw
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad event id")
		return
	}
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), eventsMedTimeout)
	defer cancel()

	err = h.Events.Withdraw(ctx, id, uid)
	switch {
	case errors.Is(err, eventstore.ErrNotFound):
		api.Error(w, http.StatusNotFound, "event not found")
	case errors.Is(err, eventstore.ErrNotOpen),
		errors.Is(err, eventstore.ErrNotEnrolled):
		api.Error(w, http.StatusConflict, err.Error())
	case err != nil:
		h.Log.Error("withdraw failed", zap.Error(err),
			zap.String("event_id", id.Hex()), zap.String("uid", uid))
		api.Error(w, http.StatusInternalServerError, "withdraw error")
	default:
		api.JSON(w, http.StatusOK, map[string]string{"status": "withdrawn"})
	}
}
