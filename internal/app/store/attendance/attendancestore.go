// internal/app/store/attendance/attendancestore.go

// Package attendancestore credits volunteer hours. Every credit is an
// append to the member's hours_history ledger plus a matching total_hours
// increment, written in one single-document update so the invariant
// total_hours == sum(hours_history) cannot be observed broken.
package attendancestore

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/voluntahub/voluntahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Store struct {
	users  *mongo.Collection
	events *mongo.Collection
	log    *zap.Logger
}

func New(db *mongo.Database, log *zap.Logger) *Store {
	return &Store{
		users:  db.Collection("users"),
		events: db.Collection("eventos"),
		log:    log,
	}
}

var (
	ErrEventNotFound  = errors.New("event not found")
	ErrNotParticipant = errors.New("user is not enrolled in this event")
	ErrAlreadyMarked  = errors.New("user's attendance is already marked")
	ErrNotMember      = errors.New("user has no registry for this organization")

	errBadHours   = errors.New("hours must be a positive finite number")
	errNoActivity = errors.New("activity description is required")
)

// Mark credits one participant's attendance for an event: the uid joins the
// event's attended set and the member's ledger gains one event_attendance
// entry worth the event's duration.
//
// Marking is idempotent: a repeat call for an already-marked participant is a
// no-op that returns success, so callers may retry freely without ever
// double-crediting. The attended set is written with a guard that excludes
// uids already in it, which makes the credit at-most-once even when two marks
// race.
func (s *Store) Mark(ctx context.Context, eventID primitive.ObjectID, uid, markedBy string) error {
	err := s.mark(ctx, eventID, uid, markedBy)
	if errors.Is(err, ErrAlreadyMarked) {
		return nil
	}
	return err
}

// mark is the single-credit step shared by Mark and MarkBatch. It surfaces
// ErrAlreadyMarked so the batch can count repeats; Mark swallows it.
//
// The roster write and the ledger credit are two separate documents; if the
// credit fails after the roster write succeeded, that gap is logged loudly
// so an operator can reconcile it.
func (s *Store) mark(ctx context.Context, eventID primitive.ObjectID, uid, markedBy string) error {
	var ev models.Event
	err := s.events.FindOne(ctx, bson.M{"_id": eventID}).Decode(&ev)
	if err == mongo.ErrNoDocuments {
		return ErrEventNotFound
	}
	if err != nil {
		return err
	}

	// Step 1: claim the attendance slot. The filter requires enrollment and
	// excludes already-attended uids, so the claim can succeed at most once.
	res, err := s.events.UpdateOne(ctx,
		bson.M{
			"_id":          eventID,
			"participants": uid,
			"attended":     bson.M{"$ne": uid},
		},
		bson.M{"$addToSet": bson.M{"attended": uid}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if !contains(ev.Participants, uid) {
			return ErrNotParticipant
		}
		return ErrAlreadyMarked
	}

	// Step 2: credit the hours on the member's ledger.
	if err := s.credit(ctx, uid, ev.OrganizationID, models.HourEntry{
		Hours:   ev.Duration,
		Event:   ev.Title,
		Date:    ev.EventDate,
		AddedBy: markedBy,
		Type:    models.HourTypeAttendance,
	}, true); err != nil {
		s.log.Error("attendance claimed but hours not credited; ledger needs reconciliation",
			zap.String("event_id", eventID.Hex()),
			zap.String("uid", uid),
			zap.Float64("hours", ev.Duration),
			zap.Error(err))
		return err
	}
	return nil
}

// BatchResult reports the outcome of a MarkBatch call. Credited + len(Failed)
// always equals Total.
type BatchResult struct {
	Credited int            `json:"credited"`
	Failed   []BatchFailure `json:"failed,omitempty"`
	Total    int            `json:"total"`
}

// BatchFailure names one uid that was not credited and why.
type BatchFailure struct {
	UID    string `json:"uid"`
	Reason string `json:"reason"`
}

// MarkBatch marks attendance for many uids in one call. Each uid is handled
// independently: a uid that is not enrolled, or is already marked, fails
// alone without blocking the rest.
func (s *Store) MarkBatch(ctx context.Context, eventID primitive.ObjectID, uids []string, markedBy string) (BatchResult, error) {
	result := BatchResult{Total: len(uids)}
	for _, uid := range uids {
		if err := s.mark(ctx, eventID, uid, markedBy); err != nil {
			if errors.Is(err, ErrEventNotFound) {
				return BatchResult{}, err
			}
			result.Failed = append(result.Failed, BatchFailure{UID: uid, Reason: err.Error()})
			continue
		}
		result.Credited++
	}
	return result, nil
}

// AddHours appends a manual ledger entry for work done outside any event
// (or corrections). Manual entries do not count as a completed event.
func (s *Store) AddHours(ctx context.Context, uid string, orgID primitive.ObjectID, hours float64, activity, comments, addedBy string) error {
	if hours <= 0 || math.IsInf(hours, 0) || math.IsNaN(hours) {
		return errBadHours
	}
	if strings.TrimSpace(activity) == "" {
		return errNoActivity
	}
	return s.credit(ctx, uid, orgID, models.HourEntry{
		Hours:    hours,
		Event:    activity,
		Date:     time.Now().UTC(),
		AddedBy:  addedBy,
		Type:     models.HourTypeManual,
		Comments: comments,
	}, false)
}

// credit writes one ledger entry and its matching total_hours increment in a
// single update. completedEvent also bumps events_completed and
// last_event_date, which only attendance credits do.
func (s *Store) credit(ctx context.Context, uid string, orgID primitive.ObjectID, entry models.HourEntry, completedEvent bool) error {
	field := "voluntariados." + orgID.Hex()
	now := time.Now().UTC()
	entry.AddedAt = now

	inc := bson.M{field + ".total_hours": entry.Hours}
	set := bson.M{
		field + ".last_hours_update": now,
		"updated_at":                now,
	}
	if completedEvent {
		inc[field+".events_completed"] = 1
		set[field+".last_event_date"] = entry.Date
	}

	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": uid, field: bson.M{"$exists": true}},
		bson.M{
			"$inc":  inc,
			"$push": bson.M{field + ".hours_history": entry},
			"$set":  set,
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotMember
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
