// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/voluntahub/voluntahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("a user with this email already exists")
)

// Upsert creates or refreshes the profile for uid. Sign-in calls this on
// every session start; membership registries and timestamps of an existing
// document are preserved.
func (s *Store) Upsert(ctx context.Context, u models.User) error {
	now := time.Now().UTC()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = "user"
	}
	_, err := s.c.UpdateByID(ctx, u.UID,
		bson.M{
			"$set": bson.M{
				"first_name": u.FirstName,
				"last_name":  u.LastName,
				"email":      u.Email,
				"updated_at": now,
			},
			"$setOnInsert": bson.M{
				"role":       u.Role,
				"status":     "active",
				"created_at": now,
			},
		},
		options.Update().SetUpsert(true),
	)
	if wafflemongo.IsDup(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (s *Store) GetByUID(ctx context.Context, uid string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": uid}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// SetRole changes a user's global role (admin | user).
func (s *Store) SetRole(ctx context.Context, uid, role string) error {
	res, err := s.c.UpdateByID(ctx, uid, bson.M{"$set": bson.M{
		"role":       role,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureAdmin promotes the user holding email to global admin. Startup
// calls this with the configured superadmin email so a deployment always
// has at least one admin once that person has signed in. Returns whether a
// matching account existed.
func (s *Store) EnsureAdmin(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, nil
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"role": "admin", "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
