// internal/app/store/stats/statstore.go
package statstore

import (
	"context"

	"github.com/voluntahub/voluntahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	users   *mongo.Collection
	events  *mongo.Collection
	records *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		users:   db.Collection("users"),
		events:  db.Collection("eventos"),
		records: db.Collection("user_achievements"),
	}
}

// OrgStatistics is the admin dashboard summary for one organization.
type OrgStatistics struct {
	Members             int     `json:"members"`
	ActiveMembers       int     `json:"active_members"`
	TotalHours          float64 `json:"total_hours"`
	EventsCompleted     int     `json:"events_completed"`
	OpenEvents          int64   `json:"open_events"`
	ClosedEvents        int64   `json:"closed_events"`
	AchievementsGranted int64   `json:"achievements_granted"`
	AvgHoursPerMember   float64 `json:"avg_hours_per_member"`
}

// ForOrg aggregates membership registries, event counts, and grant records
// into one summary. Hours are read from member ledgers, not recomputed from
// events, so manual and bonus credits are included.
func (s *Store) ForOrg(ctx context.Context, orgID primitive.ObjectID) (OrgStatistics, error) {
	field := "voluntariados." + orgID.Hex()

	cur, err := s.users.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{field: bson.M{"$exists": true}}}},
		{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"members":     bson.M{"$sum": 1},
			"active":      bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$" + field + ".status", models.MemberActive}}, 1, 0}}},
			"total_hours": bson.M{"$sum": "$" + field + ".total_hours"},
			"events_done": bson.M{"$sum": "$" + field + ".events_completed"},
		}}},
	})
	if err != nil {
		return OrgStatistics{}, err
	}
	defer cur.Close(ctx)

	var row struct {
		Members    int     `bson:"members"`
		Active     int     `bson:"active"`
		TotalHours float64 `bson:"total_hours"`
		EventsDone int     `bson:"events_done"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&row); err != nil {
			return OrgStatistics{}, err
		}
	}
	if err := cur.Err(); err != nil {
		return OrgStatistics{}, err
	}

	open, err := s.events.CountDocuments(ctx, bson.M{"voluntariado_id": orgID, "status": models.EventOpen})
	if err != nil {
		return OrgStatistics{}, err
	}
	closed, err := s.events.CountDocuments(ctx, bson.M{"voluntariado_id": orgID, "status": models.EventClosed})
	if err != nil {
		return OrgStatistics{}, err
	}
	grants, err := s.records.CountDocuments(ctx, bson.M{"voluntariado_id": orgID})
	if err != nil {
		return OrgStatistics{}, err
	}

	stats := OrgStatistics{
		Members:             row.Members,
		ActiveMembers:       row.Active,
		TotalHours:          row.TotalHours,
		EventsCompleted:     row.EventsDone,
		OpenEvents:          open,
		ClosedEvents:        closed,
		AchievementsGranted: grants,
	}
	if stats.Members > 0 {
		stats.AvgHoursPerMember = stats.TotalHours / float64(stats.Members)
	}
	return stats, nil
}

// HoursByType breaks one member's ledger down by entry type.
func (s *Store) HoursByType(ctx context.Context, uid string, orgID primitive.ObjectID) (map[string]float64, error) {
	field := "voluntariados." + orgID.Hex()

	cur, err := s.users.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": uid, field: bson.M{"$exists": true}}}},
		{{Key: "$unwind", Value: "$" + field + ".hours_history"}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$" + field + ".hours_history.type",
			"hours": bson.M{"$sum": "$" + field + ".hours_history.hours"},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]float64{}
	for cur.Next(ctx) {
		var row struct {
			Type  string  `bson:"_id"`
			Hours float64 `bson:"hours"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.Type] = row.Hours
	}
	return out, cur.Err()
}
