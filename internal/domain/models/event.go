// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event statuses. The lifecycle is abierto → cerrado; cerrado is terminal.
// Closing happens explicitly by an admin or automatically once the event
// date passes. A closed event rejects enrollment but still accepts
// attendance marking on already-enrolled participants.
const (
	EventOpen   = "abierto"
	EventClosed = "cerrado"
)

// DefaultEventDuration is the hours credited per attendee when an event is
// created without an explicit duration.
const DefaultEventDuration = 2

// Event is a scheduled, capacity-limited activity belonging to one
// organization.
//
// Invariant: CurrentParticipants == len(Participants) after every enroll and
// withdraw; both fields change in the same guarded update. Attended is the
// subset of Participants already credited with hours.
type Event struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"voluntariado_id" json:"voluntariado_id"`
	Title          string             `bson:"title" json:"title"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	EventDate      time.Time          `bson:"event_date" json:"event_date"`
	Duration       float64            `bson:"duration" json:"duration"` // hours credited per attendee
	MaxParticipants int               `bson:"max_participants" json:"max_participants"`
	Status         string             `bson:"status" json:"status"`

	Participants        []string `bson:"participants" json:"participants"`
	Attended            []string `bson:"attended" json:"attended"`
	CurrentParticipants int      `bson:"current_participants" json:"current_participants"`

	CreatedBy    string     `bson:"created_by" json:"created_by"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedBy    string     `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	UpdatedAt    *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	ClosedAt     *time.Time `bson:"closed_at,omitempty" json:"closed_at,omitempty"`
	ClosedReason string     `bson:"closed_reason,omitempty" json:"closed_reason,omitempty"`
}

// IsPast reports whether the event date is before now.
func (e Event) IsPast(now time.Time) bool { return e.EventDate.Before(now) }
