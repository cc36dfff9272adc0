// internal/domain/models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is an announcement on an organization's wall, published by an admin.
// Content is sanitized before storage.
type Post struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"voluntariado_id" json:"voluntariado_id"`
	Title          string             `bson:"title" json:"title"`
	Content        string             `bson:"content" json:"content"`
	Type           string             `bson:"type" json:"type"`         // general | urgent | event
	Priority       string             `bson:"priority" json:"priority"` // low | medium | high
	CreatedBy      string             `bson:"created_by" json:"created_by"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}
