// internal/app/features/events/crud.go
package events

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/voluntahub/voluntahub/internal/app/features/api"
	eventstore "github.com/voluntahub/voluntahub/internal/app/store/events"
	"github.com/voluntahub/voluntahub/internal/app/system/authz"
	"github.com/voluntahub/voluntahub/internal/domain/models"
)

type createRequest struct {
	OrganizationID  string    `json:"voluntariado_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	EventDate       time.Time `json:"event_date"`
	Duration        float64   `json:"duration"`
	MaxParticipants int       `json:"max_participants"`
}

// HandleCreate creates an open event; the creating admin is enrolled.
//
// Route: POST /events  (org admin)
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

	ctx, cancel := context.WithTimeout(r.Context(), eventsMedTimeout)
	defer cancel()

	if !h.requireManage(ctx, w, r, orgID) {
		return
	}

	ev, err := h.Events.Create(ctx, models.Event{
		OrganizationID:  orgID,
		Title:           req.Title,
		Description:     req.Description,
		EventDate:       req.EventDate,
		Duration:        req.Duration,
		MaxParticipants: req.MaxParticipants,
		CreatedBy:       uid,
	})
	if err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	api.JSON(w, http.StatusCreated, ev)
}

// ServeList lists an organization's events. With available=true it narrows
// to events the caller could still join (open, future, not full, not yet
// enrolled).
//
// Route: GET /events?org=<hex>&status=<abierto|cerrado>
// Route: GET /events?org=<hex>&available=true
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	orgID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("org"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "org query parameter is required")
		return
	}
	status := r.URL.Query().Get("status")
	if status != "" && status != models.EventOpen && status != models.EventClosed {
		api.Error(w, http.StatusBadRequest, "unknown status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), eventsShortTimeout)
	defer cancel()

	var events []models.Event
	if r.URL.Query().Get("available") == "true" {
		_, _, uid, _ := authz.UserCtx(r)
		events, err = h.Events.ListAvailable(ctx, orgID, uid, time.Now())
	} else {
		events, err = h.Events.ListByOrg(ctx, orgID, status)
	}
	if err != nil {
		h.Log.Error("event list failed", zap.Error(err), zap.String("org_id", orgID.Hex()))
		api.Error(w, http.StatusInternalServerError, "list error")
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	api.JSON(w, http.StatusOK, events)
}

// ServeMine lists the events the caller is enrolled in.
//
// Route: GET /events/mine
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), eventsShortTimeout)
	defer cancel()

	events, err := h.Events.ListEnrolled(ctx, uid)
	if err != nil {
		h.Log.Error("enrolled events failed", zap.Error(err), zap.String("uid", uid))
		api.Error(w, http.StatusInternalServerError, "list error")
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	api.JSON(w, http.StatusOK, events)
}

// ServeView returns one event.
//
// Route: GET /events/{id}
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad event id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), eventsShortTimeout)
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, eventstore.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "event not found")
			return
		}
		h.Log.Error("event lookup failed", zap.Error(err), zap.String("event_id", id.Hex()))
		api.Error(w, http.StatusInternalServerError, "lookup error")
		return
	}
	api.JSON(w, http.StatusOK, ev)
}

type updateRequest struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	EventDate       *time.Time `json:"event_date"`
	Duration        *float64   `json:"duration"`
	MaxParticipants *int       `json:"max_participants"`
}

// HandleUpdate edits an open event. Absent fields are left unchanged.
//
// Route: PUT /events/{id}  (org admin)
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad event id")
		return
	}
	var req updateRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), eventsMedTimeout)
	defer cancel()

	if _, ok := h.loadForManage(ctx, w, r, id); !ok {
		return
	}

	err = h.Events.Update(ctx, id, uid, eventstore.EventUpdate{
		Title:           req.Title,
		Description:     req.Description,
		EventDate:       req.EventDate,
		Duration:        req.Duration,
		MaxParticipants: req.MaxParticipants,
	})
	switch {
	case errors.Is(err, eventstore.ErrNotOpen):
		api.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, eventstore.ErrCapacityExceeded):
		api.Error(w, http.StatusConflict, "capacity cannot drop below the current roster")
	case err != nil:
		api.Error(w, http.StatusBadRequest, err.Error())
	default:
		api.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

// HandleDelete removes an event. Hours already credited stand.
//
// Route: DELETE /events/{id}  (org admin)
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "bad event id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), eventsMedTimeout)
	defer cancel()

	if _, ok := h.loadForManage(ctx, w, r, id); !ok {
		return
	}

	if err := h.Events.Delete(ctx, id); err != nil {
		if errors.Is(err, eventstore.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "event not found")
			return
		}
		h.Log.Error("delete event failed", zap.Error(err), zap.String("event_id", id.Hex()))
		api.Error(w, http.StatusInternalServerError, "delete error")
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
