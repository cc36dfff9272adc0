// internal/app/store/memberships/membershipstore.go
package membershipstore

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
	"go.uber.org/zap"
)

// Store manages the per-user membership registries embedded in user
// documents and the member counters on organization documents.
type Store struct {
	users *mongo.Collection
	orgs  *mongo.Collection
	log   *zap.Logger
}

func New(db *mongo.Database, log *zap.Logger) *Store {
	return &Store{
		users: db.Collection("users"),
		orgs:  db.Collection("voluntariados"),
		log:   log,
	}
}

var (
	ErrOrgNotFound   = errors.New("organization not found")
	ErrOrgInactive   = errors.New("organization is not accepting new members")
	ErrOrgFull       = errors.New("organization is at capacity")
	ErrAlreadyMember = errors.New("user is already a member of this organization")
	ErrNotMember     = errors.New("user is not a member of this organization")
	ErrUserNotFound  = errors.New("user not found")

	errBadStatus = errors.New("invalid member status")
)

// memberField returns the dotted path to a member's registry for one
// organization.
func memberField(orgID primitive.ObjectID) string {
	return "voluntariados." + orgID.Hex()
}

// JoinByCode enrolls uid into the organization holding the given join code.
//
// The seat is reserved first with a guarded counter increment, so two
// concurrent joins can never push member_count past max_members. Only after
// the seat is held is the user's registry initialized; if that second write
// fails (user gone, or a concurrent join won the race) the seat is released
// again.
func (s *Store) JoinByCode(ctx context.Context, uid, code string) (models.Organization, error) {
	var org models.Organization
	err := s.orgs.FindOne(ctx, bson.M{"code": normalizeCode(code)}).Decode(&org)
	if err == mongo.ErrNoDocuments {
		return models.Organization{}, ErrOrgNotFound
	}
	if err != nil {
		return models.Organization{}, err
	}

	// Cheap pre-check; the registry write below is the real guard.
	var u models.User
	err = s.users.FindOne(ctx, bson.M{"_id": uid}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.Organization{}, ErrUserNotFound
	}
	if err != nil {
		return models.Organization{}, err
	}
	if _, ok := u.Memberships[org.ID.Hex()]; ok {
		return models.Organization{}, ErrAlreadyMember
	}

	// Reserve the seat. The $expr guard makes the capacity check and the
	// increment one atomic step.
	res, err := s.orgs.UpdateOne(ctx,
		bson.M{
			"_id":    org.ID,
			"active": true,
			"$expr":  bson.M{"$lt": bson.A{"$member_count", "$max_members"}},
		},
		bson.M{"$inc": bson.M{"member_count": 1}},
	)
	if err != nil {
		return models.Organization{}, err
	}
	if res.MatchedCount == 0 {
		return models.Organization{}, s.classifyJoinRejection(ctx, org.ID)
	}

	reg := models.Membership{
		Status:          models.MemberInactive,
		JoinedAt:        time.Now().UTC(),
		TotalHours:      0,
		EventsCompleted: 0,
	}
	field := memberField(org.ID)
	res, err = s.users.UpdateOne(ctx,
		bson.M{"_id": uid, field: bson.M{"$exists": false}},
		bson.M{"$set": bson.M{field: reg, "updated_at": time.Now().UTC()}},
	)
	if err != nil || res.MatchedCount == 0 {
		// Release the reserved seat.
		if _, decErr := s.orgs.UpdateOne(ctx,
			bson.M{"_id": org.ID, "member_count": bson.M{"$gt": 0}},
			bson.M{"$inc": bson.M{"member_count": -1}},
		); decErr != nil {
			s.log.Error("failed to release reserved seat after join rollback",
				zap.String("org_id", org.ID.Hex()),
				zap.String("uid", uid),
				zap.Error(decErr))
		}
		if err != nil {
			return models.Organization{}, err
		}
		return models.Organization{}, ErrAlreadyMember
	}

	org.MemberCount++
	return org, nil
}

// classifyJoinRejection re-reads the organization to report why the guarded
// seat reservation matched nothing.
func (s *Store) classifyJoinRejection(ctx context.Context, orgID primitive.ObjectID) error {
	var org models.Organization
	err := s.orgs.FindOne(ctx, bson.M{"_id": orgID}).Decode(&org)
	if err == mongo.ErrNoDocuments {
		return ErrOrgNotFound
	}
	if err != nil {
		return err
	}
	if !org.Active {
		return ErrOrgInactive
	}
	return ErrOrgFull
}

// Leave removes uid's registry for the organization and releases the seat.
// The member's credited hours go with the registry; this is the one operation
// where ledger history is discarded, and only at the member's own request.
func (s *Store) Leave(ctx context.Context, uid string, orgID primitive.ObjectID) error {
	field := memberField(orgID)
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": uid, field: bson.M{"$exists": true}},
		bson.M{"$unset": bson.M{field: ""}, "$set": bson.M{"updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotMember
	}

	if _, err := s.orgs.UpdateOne(ctx,
		bson.M{"_id": orgID, "member_count": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"member_count": -1}},
	); err != nil {
		s.log.Error("failed to decrement member count after leave",
			zap.String("org_id", orgID.Hex()),
			zap.String("uid", uid),
			zap.Error(err))
		return err
	}
	return nil
}

// SetMemberStatus activates or deactivates a member within one organization.
func (s *Store) SetMemberStatus(ctx context.Context, uid string, orgID primitive.ObjectID, status string) error {
	if status != models.MemberActive && status != models.MemberInactive {
		return errBadStatus
	}
	field := memberField(orgID)
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": uid, field: bson.M{"$exists": true}},
		bson.M{"$set": bson.M{
			field + ".status": status,
			"updated_at":      time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotMember
	}
	return nil
}

// Registry returns uid's membership registry for one organization.
func (s *Store) Registry(ctx context.Context, uid string, orgID primitive.ObjectID) (models.Membership, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"_id": uid},
		options.FindOne().SetProjection(bson.M{memberField(orgID): 1})).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.Membership{}, ErrUserNotFound
	}
	if err != nil {
		return models.Membership{}, err
	}
	reg, ok := u.Memberships[orgID.Hex()]
	if !ok {
		return models.Membership{}, ErrNotMember
	}
	return reg, nil
}

// HoursHistory returns uid's ledger for one organization, oldest first.
func (s *Store) HoursHistory(ctx context.Context, uid string, orgID primitive.ObjectID) ([]models.HourEntry, error) {
	reg, err := s.Registry(ctx, uid, orgID)
	if err != nil {
		return nil, err
	}
	if reg.HoursHistory == nil {
		return []models.HourEntry{}, nil
	}
	return reg.HoursHistory, nil
}

// Member pairs a user with their registry for one organization.
type Member struct {
	User     models.User
	Registry models.Membership
}

// MembersOf lists every user holding a registry for the organization.
func (s *Store) MembersOf(ctx context.Context, orgID primitive.ObjectID) ([]Member, error) {
	field := memberField(orgID)
	cur, err := s.users.Find(ctx, bson.M{field: bson.M{"$exists": true}},
		options.Find().SetSort(bson.D{{Key: field + ".joined_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var members []Member
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		reg, ok := u.Memberships[orgID.Hex()]
		if !ok {
			continue
		}
		members = append(members, Member{User: u, Registry: reg})
	}
	return members, cur.Err()
}

// MembershipsOf returns uid's full registry map, keyed by organization hex id.
func (s *Store) MembershipsOf(ctx context.Context, uid string) (map[string]models.Membership, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"_id": uid}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if u.Memberships == nil {
		return map[string]models.Membership{}, nil
	}
	return u.Memberships, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
