// internal/domain/models/user.go
package models

import "time"

// User represents a principal known to the system. The document _id is the
// uid issued by the external identity provider, not an ObjectID.
//
// Per-organization state (hours, events, achievements) is embedded in
// Memberships, keyed by the organization's hex id. The map value is the
// member's registry for that organization and is updated with dotted-path
// writes (`voluntariados.<orgID>.total_hours` etc.) so one membership can
// change without rewriting the rest.
type User struct {
	UID       string `bson:"_id" json:"uid"`
	FirstName string `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName  string `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Email     string `bson:"email" json:"email"`
	Role      string `bson:"role" json:"role"` // admin | user
	Status    string `bson:"status,omitempty" json:"status,omitempty"`

	Memberships map[string]Membership `bson:"voluntariados,omitempty" json:"voluntariados,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// FullName joins the name parts, falling back to the email when both are
// empty (imported accounts sometimes have no name).
func (u User) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Email
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsAdmin reports whether the user holds the global admin role.
func (u User) IsAdmin() bool { return u.Role == "admin" }
