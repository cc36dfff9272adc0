// internal/domain/models/organization.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization statuses.
const (
	OrgActive   = "active"
	OrgInactive = "inactive"
)

// Organization is a volunteer group ("voluntariado"). Members join with the
// organization's code; AdminUIDs lists the principals allowed to manage its
// events, members, and achievements.
type Organization struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Code        string             `bson:"code" json:"code"` // join code, stored uppercase, unique
	Active      bool               `bson:"active" json:"active"`
	AdminUIDs   []string           `bson:"admin_uids" json:"admin_uids"`

	// MemberCount is a denormalized counter maintained with guarded atomic
	// increments; it never exceeds MaxMembers at the moment a join commits.
	MemberCount int `bson:"member_count" json:"member_count"`
	MaxMembers  int `bson:"max_members" json:"max_members"`

	CreatedBy string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
