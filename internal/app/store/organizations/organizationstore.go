// internal/app/store/organizations/organizationstore.go
package organizationstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"github.com/voluntahub/voluntahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c     *mongo.Collection
	users *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("voluntariados"),
		users: db.Collection("users"),
	}
}

var (
	ErrNotFound              = errors.New("organization not found")
	ErrDuplicateOrganization = errors.New("an organization with this name or code already exists")
	ErrAlreadyAdmin          = errors.New("user is already an administrator of this organization")
	ErrNotAdmin              = errors.New("user is not an administrator of this organization")
	ErrUserNotFound          = errors.New("no user with that email")

	errBadCapacity = errors.New("max_members must be greater than zero")
)

// NewJoinCode returns a fresh 8-character uppercase join code.
func NewJoinCode() string {
	return strings.ToUpper(uuid.New().String()[:8])
}

// Create inserts a new organization. The creator is always an admin of it.
func (s *Store) Create(ctx context.Context, org models.Organization) (models.Organization, error) {
	if org.MaxMembers <= 0 {
		return models.Organization{}, errBadCapacity
	}
	now := time.Now().UTC()
	org.ID = primitive.NewObjectID()
	org.NameCI = text.Fold(org.Name)
	if org.Code == "" {
		org.Code = NewJoinCode()
	}
	org.Code = strings.ToUpper(org.Code)
	org.Active = true
	if org.CreatedBy != "" && !contains(org.AdminUIDs, org.CreatedBy) {
		org.AdminUIDs = append(org.AdminUIDs, org.CreatedBy)
	}
	if org.AdminUIDs == nil {
		org.AdminUIDs = []string{}
	}
	org.MemberCount = 0
	org.CreatedAt = now
	org.UpdatedAt = now

	_, err := s.c.InsertOne(ctx, org)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Organization{}, ErrDuplicateOrganization
		}
		return models.Organization{}, err
	}
	return org, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Organization, error) {
	var org models.Organization
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&org)
	if err == mongo.ErrNoDocuments {
		return models.Organization{}, ErrNotFound
	}
	if err != nil {
		return models.Organization{}, err
	}
	return org, nil
}

// GetByCode looks an organization up by its join code, case-insensitively.
func (s *Store) GetByCode(ctx context.Context, code string) (models.Organization, error) {
	var org models.Organization
	err := s.c.FindOne(ctx, bson.M{"code": strings.ToUpper(strings.TrimSpace(code))}).Decode(&org)
	if err == mongo.ErrNoDocuments {
		return models.Organization{}, ErrNotFound
	}
	if err != nil {
		return models.Organization{}, err
	}
	return org, nil
}

// List returns organizations, optionally only active ones, name ordered.
func (s *Store) List(ctx context.Context, activeOnly bool) ([]models.Organization, error) {
	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var orgs []models.Organization
	if err := cur.All(ctx, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// GetByIDs loads multiple organizations by id.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Organization, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var orgs []models.Organization
	if err := cur.All(ctx, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// Update modifies an organization's mutable fields and refreshes UpdatedAt.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, org models.Organization) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if org.Name != "" {
		set["name"] = org.Name
		set["name_ci"] = text.Fold(org.Name)
	}
	if org.Description != "" {
		set["description"] = org.Description
	}
	if org.MaxMembers > 0 {
		set["max_members"] = org.MaxMembers
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateOrganization
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActive flips the organization's active flag. Inactive organizations
// reject new joins but keep their members and history.
func (s *Store) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"active":     active,
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

// Delete removes an organization document. Members' ledgers are left intact:
// credited hours are never retracted.
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

// AssignAdminByEmail resolves a principal by email and adds them to the
// organization's admin set. Global-admin only; the caller gates.
func (s *Store) AssignAdminByEmail(ctx context.Context, orgID primitive.ObjectID, email string) (string, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	if err := s.AssignAdmin(ctx, orgID, u.UID); err != nil {
		return "", err
	}
	return u.UID, nil
}

// AssignAdmin adds uid to admin_uids.
func (s *Store) AssignAdmin(ctx context.Context, orgID primitive.ObjectID, uid string) error {
	res, err := s.c.UpdateByID(ctx, orgID, bson.M{"$addToSet": bson.M{"admin_uids": uid}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	if res.ModifiedCount == 0 {
		return ErrAlreadyAdmin
	}
	return nil
}

// RemoveAdmin removes uid from admin_uids.
func (s *Store) RemoveAdmin(ctx context.Context, orgID primitive.ObjectID, uid string) error {
	res, err := s.c.UpdateByID(ctx, orgID, bson.M{"$pull": bson.M{"admin_uids": uid}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	if res.ModifiedCount == 0 {
		return ErrNotAdmin
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
