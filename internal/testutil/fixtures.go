// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/voluntahub/voluntahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateOrganization inserts an active organization and returns it.
func CreateOrganization(t *testing.T, db *mongo.Database, name, code string, maxMembers int) models.Organization {
	t.Helper()
	now := time.Now().UTC()
	org := models.Organization{
		ID:         primitive.NewObjectID(),
		Name:       name,
		NameCI:     text.Fold(name),
		Code:       strings.ToUpper(code),
		Active:     true,
		AdminUIDs:  []string{},
		MaxMembers: maxMembers,
		CreatedBy:  "fixture",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := db.Collection("voluntariados").InsertOne(context.Background(), org); err != nil {
		t.Fatalf("fixture organization insert failed: %v", err)
	}
	return org
}

// CreateUser inserts a user with no memberships.
func CreateUser(t *testing.T, db *mongo.Database, uid, email string) models.User {
	t.Helper()
	now := time.Now().UTC()
	u := models.User{
		UID:       uid,
		FirstName: "Test",
		LastName:  "User",
		Email:     strings.ToLower(email),
		Role:      "user",
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := db.Collection("users").InsertOne(context.Background(), u); err != nil {
		t.Fatalf("fixture user insert failed: %v", err)
	}
	return u
}

// CreateMember inserts a user already holding an active registry for org.
func CreateMember(t *testing.T, db *mongo.Database, uid, email string, org models.Organization) models.User {
	t.Helper()
	now := time.Now().UTC()
	u := models.User{
		UID:       uid,
		FirstName: "Test",
		LastName:  "Member",
		Email:     strings.ToLower(email),
		Role:      "user",
		Status:    "active",
		Memberships: map[string]models.Membership{
			org.ID.Hex(): {
				Status:   models.MemberActive,
				JoinedAt: now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := db.Collection("users").InsertOne(context.Background(), u); err != nil {
		t.Fatalf("fixture member insert failed: %v", err)
	}
	if _, err := db.Collection("voluntariados").UpdateByID(context.Background(), org.ID,
		map[string]any{"$inc": map[string]any{"member_count": 1}}); err != nil {
		t.Fatalf("fixture member count update failed: %v", err)
	}
	return u
}

// CreateEvent inserts an open event with the given roster.
func CreateEvent(t *testing.T, db *mongo.Database, org models.Organization, title string, date time.Time, duration float64, maxParticipants int, participants ...string) models.Event {
	t.Helper()
	if participants == nil {
		participants = []string{}
	}
	ev := models.Event{
		ID:                  primitive.NewObjectID(),
		OrganizationID:      org.ID,
		Title:               title,
		EventDate:           date,
		Duration:            duration,
		MaxParticipants:     maxParticipants,
		Status:              models.EventOpen,
		Participants:        participants,
		Attended:            []string{},
		CurrentParticipants: len(participants),
		CreatedBy:           "fixture",
		CreatedAt:           time.Now().UTC(),
	}
	if _, err := db.Collection("eventos").InsertOne(context.Background(), ev); err != nil {
		t.Fatalf("fixture event insert failed: %v", err)
	}
	return ev
}

// CreateAchievement inserts an active achievement for org.
func CreateAchievement(t *testing.T, db *mongo.Database, org models.Organization, name string, cond models.Condition, bonusHours float64) models.Achievement {
	t.Helper()
	a := models.Achievement{
		ID:             primitive.NewObjectID(),
		OrganizationID: org.ID,
		Name:           name,
		Condition:      cond,
		Hours:          bonusHours,
		IsActive:       true,
		AssignedTo:     []string{},
		AssignedAt:     []time.Time{},
		AssignedBy:     []string{},
		CreatedBy:      "fixture",
		CreatedAt:      time.Now().UTC(),
	}
	if _, err := db.Collection("logros").InsertOne(context.Background(), a); err != nil {
		t.Fatalf("fixture achievement insert failed: %v", err)
	}
	return a
}
