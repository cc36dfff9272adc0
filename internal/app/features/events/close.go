// internal/app/features/events/close.go
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

type closeRequest struct {
	Reason string `json:"reason"`
}

// HandleClose closes an open event.
//
// Route: POST /events/{id}/close  (org admin)
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad event id")
		return
	}
	var req closeRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Reason == "" {
		req.Reason = "closed_by_admin"
	}
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), eventsMedTimeout)
	defer cancel()

	if _, ok := h.loadForManage(ctx, w, r, id); !ok {
		return
	}

	err = h.Events.Close(ctx, id, uid, req.Reason)
	switch {
	case errors.Is(err, eventstore.ErrNotFound):
		api.Error(w, http.StatusNotFound, "event not found")
	case errors.Is(err, eventstore.ErrNotOpen):
		api.Error(w, http.StatusConflict, err.Error())
	case err != nil:
		h.Log.Error("close event failed", zap.Error(err), zap.String("event_id", id.Hex()))
		api.Error(w, http.StatusInternalServerError, "close error")
	default:
		api.JSON(w, http.StatusOK, map[string]string{"status": "closed"})
	}
}

// HandleClosePast closes every open event whose date has passed. Safe to run
// repeatedly; the scheduler calls the same code path.
//
// Route: POST /events/close-past  (admin)
func (h *Handler) HandleClosePast(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), eventsLongTimeout)
	defer cancel()

	n, err := h.Events.ClosePastEvents(ctx, time.Now())
	if err != nil {
		h.Log.Error("close past events failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "close error")
		return
	}
	api.JSON(w, http.StatusOK, map[string]int64{"closed": n})
}
