// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/voluntahub/voluntahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type Store struct {
	c   *mongo.Collection
	log *zap.Logger
}

func New(db *mongo.Database, log *zap.Logger) *Store {
	return &Store{c: db.Collection("eventos"), log: log}
}

var (
	ErrNotFound         = errors.New("event not found")
	ErrNotOpen          = errors.New("event is closed")
	ErrEventPast        = errors.New("event date has passed")
	ErrAlreadyEnrolled  = errors.New("user is already enrolled in this event")
	ErrNotEnrolled      = errors.New("user is not enrolled in this event")
	ErrCapacityExceeded = errors.New("event is at capacity")

	errNoTitle     = errors.New("event title is required")
	errNoDate      = errors.New("event date is required")
	errBadCapacity = errors.New("max_participants must be greater than zero")
	errBadDuration = errors.New("duration must be greater than zero")
)

// Create inserts a new open event. The creator is enrolled from the start.
// A zero duration gets the default; a negative one is rejected.
func (s *Store) Create(ctx context.Context, ev models.Event) (models.Event, error) {
	if strings.TrimSpace(ev.Title) == "" {
		return models.Event{}, errNoTitle
	}
	if ev.EventDate.IsZero() {
		return models.Event{}, errNoDate
	}
	if ev.MaxParticipants <= 0 {
		return models.Event{}, errBadCapacity
	}
	if ev.Duration == 0 {
		ev.Duration = models.DefaultEventDuration
	}
	if ev.Duration < 0 {
		return models.Event{}, errBadDuration
	}

	ev.ID = primitive.NewObjectID()
	ev.Status = models.EventOpen
	ev.Participants = []string{}
	if ev.CreatedBy != "" {
		ev.Participants = []string{ev.CreatedBy}
	}
	ev.Attended = []string{}
	ev.CurrentParticipants = len(ev.Participants)
	ev.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, ev); err != nil {
		return models.Event{}, err
	}
	return ev, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	var ev models.Event
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ev)
	if err == mongo.ErrNoDocuments {
		return models.Event{}, ErrNotFound
	}
	if err != nil {
		return models.Event{}, err
	}
	return ev, nil
}

// ListByOrg returns an organization's events, newest date first. An empty
// status selects all.
func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID, status string) ([]models.Event, error) {
	filter := bson.M{"voluntariado_id": orgID}
	if status != "" {
		filter["status"] = status
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "event_date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ListEnrolled returns every event uid participates in, soonest date first.
func (s *Store) ListEnrolled(ctx context.Context, uid string) ([]models.Event, error) {
	cur, err := s.c.Find(ctx, bson.M{"participants": uid},
		options.Find().SetSort(bson.D{{Key: "event_date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ListAvailable returns the organization's events uid could still enroll in:
// open, dated in the future, not full, and not already joined. Soonest first.
func (s *Store) ListAvailable(ctx context.Context, orgID primitive.ObjectID, uid string, now time.Time) ([]models.Event, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"voluntariado_id": orgID,
		"status":          models.EventOpen,
		"event_date":      bson.M{"$gte": now},
		"participants":    bson.M{"$ne": uid},
		"$expr":           bson.M{"$lt": bson.A{"$current_participants", "$max_participants"}},
	}, options.Find().SetSort(bson.D{{Key: "event_date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Enroll adds uid to an open, future, non-full event.
//
// The whole precondition set lives in the update filter, so the capacity
// check, the membership check and the roster append are one atomic step;
// current_participants moves with the roster in the same write. On a miss
// the event is re-read once to name the reason.
func (s *Store) Enroll(ctx context.Context, id primitive.ObjectID, uid string, now time.Time) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id":          id,
			"status":       models.EventOpen,
			"event_date":   bson.M{"$gte": now},
			"participants": bson.M{"$ne": uid},
			"$expr":        bson.M{"$lt": bson.A{"$current_participants", "$max_participants"}},
		},
		bson.M{
			"$push": bson.M{"participants": uid},
			"$inc":  bson.M{"current_participants": 1},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return s.classifyEnrollRejection(ctx, id, uid, now)
	}
	return nil
}

func (s *Store) classifyEnrollRejection(ctx context.Context, id primitive.ObjectID, uid string, now time.Time) error {
	ev, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	switch {
	case ev.Status != models.EventOpen:
		return ErrNotOpen
	case ev.IsPast(now):
		return ErrEventPast
	case contains(ev.Participants, uid):
		return ErrAlreadyEnrolled
	case ev.CurrentParticipants >= ev.MaxParticipants:
		return ErrCapacityExceeded
	}
	// The guarded update lost a race that has since resolved; report the
	// closest stable cause.
	return ErrCapacityExceeded
}

// Withdraw removes uid from the roster of an open event. Attended
// participants keep their credited hours regardless.
func (s *Store) Withdraw(ctx context.Context, id primitive.ObjectID, uid string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id":          id,
			"status":       models.EventOpen,
			"participants": uid,
		},
		bson.M{
			"$pull": bson.M{"participants": uid},
			"$inc":  bson.M{"current_participants": -1},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		ev, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if ev.Status != models.EventOpen {
			return ErrNotOpen
		}
		return ErrNotEnrolled
	}
	return nil
}

// Update modifies an open event's editable fields. Capacity can only grow or
// stay above the current roster size; the $expr guard enforces it.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, updatedBy string, upd EventUpdate) error {
	set := bson.M{
		"updated_by": updatedBy,
		"updated_at": time.Now().UTC(),
	}
	if upd.Title != nil {
		if strings.TrimSpace(*upd.Title) == "" {
			return errNoTitle
		}
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.EventDate != nil {
		set["event_date"] = *upd.EventDate
	}
	if upd.Duration != nil {
		if *upd.Duration <= 0 {
			return errBadDuration
		}
		set["duration"] = *upd.Duration
	}

	filter := bson.M{"_id": id, "status": models.EventOpen}
	if upd.MaxParticipants != nil {
		if *upd.MaxParticipants <= 0 {
			return errBadCapacity
		}
		set["max_participants"] = *upd.MaxParticipants
		filter["current_participants"] = bson.M{"$lte": *upd.MaxParticipants}
	}

	res, err := s.c.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		ev, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if ev.Status != models.EventOpen {
			return ErrNotOpen
		}
		return ErrCapacityExceeded
	}
	return nil
}

// EventUpdate carries the optional fields an admin may edit. Nil means leave
// unchanged.
type EventUpdate struct {
	Title           *string
	Description     *string
	EventDate       *time.Time
	Duration        *float64
	MaxParticipants *int
}

// Delete removes an event document. Hours already credited for it stay on
// members' ledgers.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Close transitions an open event to cerrado. Closing twice is a no-op
// reported as ErrNotOpen.
func (s *Store) Close(ctx context.Context, id primitive.ObjectID, closedBy, reason string) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.EventOpen},
		bson.M{"$set": bson.M{
			"status":        models.EventClosed,
			"closed_at":     now,
			"closed_reason": reason,
			"updated_by":    closedBy,
			"updated_at":    now,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, err := s.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrNotOpen
	}
	return nil
}

// ClosePastEvents closes every open event whose date has passed. It is
// idempotent: already-closed events never match the filter, so a second run
// over the same backlog closes nothing.
func (s *Store) ClosePastEvents(ctx context.Context, now time.Time) (int64, error) {
	ts := now.UTC()
	res, err := s.c.UpdateMany(ctx,
		bson.M{"status": models.EventOpen, "event_date": bson.M{"$lt": ts}},
		bson.M{"$set": bson.M{
			"status":        models.EventClosed,
			"closed_at":     ts,
			"closed_reason": "auto_closed_past_date",
			"updated_at":    ts,
		}},
	)
	if err != nil {
		return 0, err
	}
	if res.ModifiedCount > 0 {
		s.log.Info("closed past events", zap.Int64("count", res.ModifiedCount))
	}
	return res.ModifiedCount, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
