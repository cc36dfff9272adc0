// internal/domain/models/achievement.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Achievement condition types.
const (
	CondJoinVolunteering = "join_volunteering"
	CondEventsCompleted  = "events_completed"
	CondHoursCompleted   = "hours_completed"
)

// Condition is the threshold predicate an achievement evaluates against a
// member's aggregated stats. Count applies to events_completed, Hours to
// hours_completed; join_volunteering is satisfied by the join itself.
type Condition struct {
	Type  string  `bson:"type" json:"type"`
	Count int     `bson:"count,omitempty" json:"count,omitempty"`
	Hours float64 `bson:"hours,omitempty" json:"hours,omitempty"`
}

// Achievement is a named award belonging to one organization, granted at
// most once per member, optionally crediting bonus hours.
//
// AssignedTo/AssignedAt/AssignedBy are parallel arrays appended inside the
// grant transaction. They are display data only: the user_achievements
// collection, under a unique (user_id, achievement_id) index, is the
// authoritative record of who already holds the award.
type Achievement struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"voluntariado_id" json:"voluntariado_id"`
	Name           string             `bson:"name" json:"name"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Condition      Condition          `bson:"condition" json:"condition"`
	Hours          float64            `bson:"hours" json:"hours"` // bonus credited on grant, may be 0
	Icon           string             `bson:"icon,omitempty" json:"icon,omitempty"`
	IsActive       bool               `bson:"is_active" json:"is_active"`

	AssignedTo []string    `bson:"assigned_to" json:"assigned_to"`
	AssignedAt []time.Time `bson:"assigned_at" json:"assigned_at"`
	AssignedBy []string    `bson:"assigned_by" json:"assigned_by"`

	CreatedBy string    `bson:"created_by" json:"created_by"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// UserAchievement is the denormalized join row written once per grant. Its
// (UserID, AchievementID) pair is unique; inserting a duplicate fails, which
// is what makes grants safe under concurrent attempts.
type UserAchievement struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           string             `bson:"user_id" json:"user_id"`
	AchievementID    primitive.ObjectID `bson:"achievement_id" json:"achievement_id"`
	OrganizationID   primitive.ObjectID `bson:"voluntariado_id" json:"voluntariado_id"`
	AchievementName  string             `bson:"achievement_name" json:"achievement_name"`
	AchievementHours float64            `bson:"achievement_hours" json:"achievement_hours"`
	AssignedBy       string             `bson:"assigned_by" json:"assigned_by"`
	AssignedAt       time.Time          `bson:"assigned_at" json:"assigned_at"`
}
