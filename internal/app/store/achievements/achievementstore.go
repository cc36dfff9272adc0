// internal/app/store/achievements/achievementstore.go
package achievementstore

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
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("logros")}
}

var (
	ErrNotFound = errors.New("achievement not found")

	errNoName       = errors.New("achievement name is required")
	errBadCondition = errors.New("unknown achievement condition type")
	errBadThreshold = errors.New("condition threshold must be greater than zero")
	errBadBonus     = errors.New("bonus hours cannot be negative")
)

// Create inserts a new active achievement after validating its condition.
func (s *Store) Create(ctx context.Context, a models.Achievement) (models.Achievement, error) {
	if strings.TrimSpace(a.Name) == "" {
		return models.Achievement{}, errNoName
	}
	if a.Hours < 0 {
		return models.Achievement{}, errBadBonus
	}
	switch a.Condition.Type {
	case models.CondJoinVolunteering:
		// No threshold; joining is the condition.
	case models.CondEventsCompleted:
		if a.Condition.Count <= 0 {
			return models.Achievement{}, errBadThreshold
		}
	case models.CondHoursCompleted:
		if a.Condition.Hours <= 0 {
			return models.Achievement{}, errBadThreshold
		}
	default:
		return models.Achievement{}, errBadCondition
	}

	a.ID = primitive.NewObjectID()
	a.IsActive = true
	a.AssignedTo = []string{}
	a.AssignedAt = []time.Time{}
	a.AssignedBy = []string{}
	a.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Achievement{}, err
	}
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Achievement, error) {
	var a models.Achievement
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return models.Achievement{}, ErrNotFound
	}
	if err != nil {
		return models.Achievement{}, err
	}
	return a, nil
}

// ListByOrg returns an organization's achievements, newest first.
func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID, activeOnly bool) ([]models.Achievement, error) {
	filter := bson.M{"voluntariado_id": orgID}
	if activeOnly {
		filter["is_active"] = true
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Achievement
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetActive enables or disables an achievement. Disabled achievements stop
// being granted but existing grants stand.
func (s *Store) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"is_active": active}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an achievement definition. Grant records and bonus hours
// already credited are untouched.
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
