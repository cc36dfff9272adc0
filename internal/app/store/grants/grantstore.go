// internal/app/store/grants/grantstore.go

// Package grantstore awards achievements. A grant touches four documents —
// the user_achievements record, the achievement's assignment arrays, the
// member's achievements list, and (when the award carries bonus hours) the
// member's ledger — so the whole batch runs inside a transaction where the
// deployment supports one.
//
// Idempotence does not depend on the transaction: the unique
// (user_id, achievement_id) index on user_achievements makes the record
// insert the commit point, and a duplicate insert aborts the batch before
// any side effect lands.
package grantstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/voluntahub/voluntahub/internal/app/system/txn"
	"github.com/voluntahub/voluntahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type Store struct {
	client       *mongo.Client
	users        *mongo.Collection
	achievements *mongo.Collection
	records      *mongo.Collection
	log          *zap.Logger
}

func New(client *mongo.Client, db *mongo.Database, log *zap.Logger) *Store {
	return &Store{
		client:       client,
		users:        db.Collection("users"),
		achievements: db.Collection("logros"),
		records:      db.Collection("user_achievements"),
		log:          log,
	}
}

var (
	ErrAlreadyGranted      = errors.New("achievement already granted to this user")
	ErrAchievementNotFound = errors.New("achievement not found")
	ErrInactive            = errors.New("achievement is not active")
	ErrNotMember           = errors.New("user is not a member of the achievement's organization")
	ErrUserNotFound        = errors.New("user not found")
)

// Assign grants an achievement to uid by admin decision, without evaluating
// the condition.
func (s *Store) Assign(ctx context.Context, achievementID primitive.ObjectID, uid, assignedBy string) error {
	var a models.Achievement
	err := s.achievements.FindOne(ctx, bson.M{"_id": achievementID}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return ErrAchievementNotFound
	}
	if err != nil {
		return err
	}
	return s.grant(ctx, a, uid, assignedBy)
}

// CheckAndAward evaluates every active achievement of every organization uid
// belongs to and grants the ones whose condition the member now satisfies.
// It returns the newly granted achievements. Called after joins, attendance
// marks and manual hour credits; safe to call any time.
//
// events_completed and hours_completed conditions compare against the
// member's totals summed across all of their memberships, so cross-org
// volunteering counts toward every organization's awards.
func (s *Store) CheckAndAward(ctx context.Context, uid string) ([]models.Achievement, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"_id": uid}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(u.Memberships) == 0 {
		return nil, nil
	}

	var totalHours float64
	var totalEvents int
	orgIDs := make([]primitive.ObjectID, 0, len(u.Memberships))
	held := map[string]bool{}
	for hex, reg := range u.Memberships {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			continue
		}
		orgIDs = append(orgIDs, id)
		totalHours += reg.TotalHours
		totalEvents += reg.EventsCompleted
		for _, a := range reg.Achievements {
			held[a] = true
		}
	}

	cur, err := s.achievements.Find(ctx, bson.M{
		"voluntariado_id": bson.M{"$in": orgIDs},
		"is_active":       true,
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var candidates []models.Achievement
	if err := cur.All(ctx, &candidates); err != nil {
		return nil, err
	}

	var granted []models.Achievement
	for _, a := range candidates {
		if held[a.ID.Hex()] {
			continue
		}
		if !conditionMet(a.Condition, totalEvents, totalHours) {
			continue
		}
		err := s.grant(ctx, a, uid, "system")
		if errors.Is(err, ErrAlreadyGranted) {
			continue
		}
		if err != nil {
			return granted, err
		}
		granted = append(granted, a)
	}
	return granted, nil
}

func conditionMet(c models.Condition, eventsCompleted int, totalHours float64) bool {
	switch c.Type {
	case models.CondJoinVolunteering:
		return true
	case models.CondEventsCompleted:
		return eventsCompleted >= c.Count
	case models.CondHoursCompleted:
		return totalHours >= c.Hours
	}
	return false
}

// grant applies the four-effect award batch. The record insert goes first:
// under the unique index it is the only write that can observe a duplicate,
// and inside the transaction its failure rolls the batch back to nothing.
func (s *Store) grant(ctx context.Context, a models.Achievement, uid, assignedBy string) error {
	if !a.IsActive {
		return ErrInactive
	}
	field := "voluntariados." + a.OrganizationID.Hex()
	now := time.Now().UTC()

	return txn.WithTransaction(ctx, s.client, func(sc context.Context) error {
		rec := models.UserAchievement{
			UserID:           uid,
			AchievementID:    a.ID,
			OrganizationID:   a.OrganizationID,
			AchievementName:  a.Name,
			AchievementHours: a.Hours,
			AssignedBy:       assignedBy,
			AssignedAt:       now,
		}
		if _, err := s.records.InsertOne(sc, rec); err != nil {
			if wafflemongo.IsDup(err) {
				return ErrAlreadyGranted
			}
			return err
		}

		if _, err := s.achievements.UpdateByID(sc, a.ID, bson.M{"$push": bson.M{
			"assigned_to": uid,
			"assigned_at": now,
			"assigned_by": assignedBy,
		}}); err != nil {
			return err
		}

		update := bson.M{
			"$addToSet": bson.M{field + ".achievements": a.ID.Hex()},
			"$set":      bson.M{"updated_at": now},
		}
		if a.Hours > 0 {
			update["$inc"] = bson.M{field + ".total_hours": a.Hours}
			update["$push"] = bson.M{field + ".hours_history": models.HourEntry{
				Hours:         a.Hours,
				Event:         "Logro: " + a.Name,
				Date:          now,
				AddedBy:       assignedBy,
				AddedAt:       now,
				Type:          models.HourTypeAchievement,
				AchievementID: a.ID.Hex(),
			}}
			update["$set"].(bson.M)[field+".last_hours_update"] = now
		}
		res, err := s.users.UpdateOne(sc,
			bson.M{"_id": uid, field: bson.M{"$exists": true}},
			update,
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrNotMember
		}

		s.log.Info("achievement granted",
			zap.String("achievement_id", a.ID.Hex()),
			zap.String("uid", uid),
			zap.String("assigned_by", assignedBy),
			zap.Float64("bonus_hours", a.Hours))
		return nil
	})
}

// RecordsOf returns uid's grant records, newest first.
func (s *Store) RecordsOf(ctx context.Context, uid string) ([]models.UserAchievement, error) {
	cur, err := s.records.Find(ctx, bson.M{"user_id": uid},
		options.Find().SetSort(bson.D{{Key: "assigned_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.UserAchievement
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecordsOfAchievement returns everyone holding one achievement.
func (s *Store) RecordsOfAchievement(ctx context.Context, achievementID primitive.ObjectID) ([]models.UserAchievement, error) {
	cur, err := s.records.Find(ctx, bson.M{"achievement_id": achievementID},
		options.Find().SetSort(bson.D{{Key: "assigned_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.UserAchievement
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
