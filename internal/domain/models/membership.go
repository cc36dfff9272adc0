// internal/domain/models/membership.go
package models

import "time"

// Membership statuses. New members start inactive until an organization
// admin activates them.
const (
	MemberActive   = "active"
	MemberInactive = "inactive"
)

// HourEntry types.
const (
	HourTypeAttendance  = "event_attendance"
	HourTypeAchievement = "achievement"
	HourTypeManual      = "manual"
)

// Membership is a user's registry for one organization.
//
// Invariant: TotalHours equals the sum of Hours over HoursHistory at all
// times. Both are written in the same single-document update ($inc + $push),
// so the ledger, not the stored total, is authoritative.
type Membership struct {
	Status          string     `bson:"status" json:"status"`
	JoinedAt        time.Time  `bson:"joined_at" json:"joined_at"`
	TotalHours      float64    `bson:"total_hours" json:"total_hours"`
	EventsCompleted int        `bson:"events_completed" json:"events_completed"`
	HoursHistory    []HourEntry `bson:"hours_history,omitempty" json:"hours_history,omitempty"`
	Achievements    []string   `bson:"achievements,omitempty" json:"achievements,omitempty"`
	LastEventDate   *time.Time `bson:"last_event_date,omitempty" json:"last_event_date,omitempty"`
	LastHoursUpdate *time.Time `bson:"last_hours_update,omitempty" json:"last_hours_update,omitempty"`
}

// HourEntry is one immutable ledger line item. Entries are appended in
// chronological order and never edited or removed by normal operation.
type HourEntry struct {
	Hours         float64   `bson:"hours" json:"hours"`
	Event         string    `bson:"event" json:"event"`
	Date          time.Time `bson:"date" json:"date"`
	AddedBy       string    `bson:"added_by" json:"added_by"`
	AddedAt       time.Time `bson:"added_at" json:"added_at"`
	Type          string    `bson:"type" json:"type"`
	Comments      string    `bson:"comments,omitempty" json:"comments,omitempty"`
	AchievementID string    `bson:"achievement_id,omitempty" json:"achievement_id,omitempty"`
}
