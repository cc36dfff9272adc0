// internal/app/features/events/attendance.go
package events

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/voluntahub/voluntahub/internal/app/features/api"
	attendancestore "github.com/voluntahub/voluntahub/internal/app/store/attendance"
	"github.com/voluntahub/voluntahub/internal/app/system/authz"
)

type markRequest struct {
	UID string `json:"uid"`
}

// HandleMark credits one participant's attendance, then runs the
// achievement check so event- and hour-threshold awards land immediately.
//
// Route: POST /events/{id}/attendance  (org admin)
func (h *Handler) HandleMark(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad event id")
		return
	}
	var req markRequest
	if err := api.Decode(r, &req); err != nil || req.UID == "" {
		api.Error(w, http.StatusBadRequest, "uid is required")
		return
	}
	_, _, markedBy, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), eventsMedTimeout)
	defer cancel()

	if _, ok := h.loadForManage(ctx, w, r, id); !ok {
		return
	}

	err = h.Attendance.Mark(ctx, id, req.UID, markedBy)
	switch {
	case errors.Is(err, attendancestore.ErrEventNotFound):
		api.Error(w, http.StatusNotFound, "event not found")
		return
	case errors.Is(err, attendancestore.ErrNotParticipant),
		errors.Is(err, attendancestore.ErrNotMember):
		api.Error(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.Log.Error("mark attendance failed", zap.Error(err),
			zap.String("event_id", id.Hex()), zap.String("uid", req.UID))
		api.Error(w, http.StatusInternalServerError, "attendance error")
		return
	}

	granted, err := h.Grants.CheckAndAward(ctx, req.UID)
	if err != nil {
		h.Log.Warn("achievement check after attendance failed", zap.Error(err), zap.String("uid", req.UID))
	}

	api.JSON(w, http.StatusOK, map[string]any{
		"status":               "marked",
		"achievements_granted": len(granted),
	})
}

type markBatchRequest struct {
	UIDs []string `json:"uids"`
}

// HandleMarkBatch credits attendance for many participants in one call.
// Individual failures (not enrolled, already marked) are reported per uid;
// the rest are credited.
//
// Route: POST /events/{id}/attendance/batch  (org admin)
func (h *Handler) HandleMarkBatch(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad event id")
		return
	}
	var req markBatchRequest
	if err := api.Decode(r, &req); err != nil || len(req.UIDs) == 0 {
		api.Error(w, http.StatusBadRequest, "uids are required")
		return
	}
	_, _, markedBy, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), eventsLongTimeout)
	defer cancel()

	if _, ok := h.loadForManage(ctx, w, r, id); !ok {
		return
	}

	result, err := h.Attendance.MarkBatch(ctx, id, req.UIDs, markedBy)
	if err != nil {
		if errors.Is(err, attendancestore.ErrEventNotFound) {
			api.Error(w, http.StatusNotFound, "event not found")
			return
		}
		h.Log.Error("batch attendance failed", zap.Error(err), zap.String("event_id", id.Hex()))
		api.Error(w, http.StatusInternalServerError, "attendance error")
		return
	}

	// Award checks run after the batch so each member is evaluated once.
	for _, uid := range req.UIDs {
		if _, err := h.Grants.CheckAndAward(ctx, uid); err != nil {
			h.Log.Warn("achievement check after batch attendance failed",
				zap.Error(err), zap.String("uid", uid))
		}
	}

	api.JSON(w, http.StatusOK, result)
}
