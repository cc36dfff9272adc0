// internal/app/policy/orgpolicy/orgpolicy.go

// Package orgpolicy answers "may this principal manage this organization".
// Global admins manage everything; everyone else manages only the
// organizations whose admin_uids list them.
package orgpolicy

import (
	"context"

	"github.com/voluntahub/voluntahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Policy struct {
	orgs *mongo.Collection
}

func New(db *mongo.Database) *Policy {
	return &Policy{orgs: db.Collection("voluntariados")}
}

// CanManage reports whether the principal may administer the organization.
func (p *Policy) CanManage(ctx context.Context, role, uid string, orgID primitive.ObjectID) (bool, error) {
	if role == "admin" {
		return true, nil
	}
	if uid == "" {
		return false, nil
	}
	n, err := p.orgs.CountDocuments(ctx, bson.M{"_id": orgID, "admin_uids": uid})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ManagedOrgs lists the organizations the principal administers. For global
// admins that is all of them.
func (p *Policy) ManagedOrgs(ctx context.Context, role, uid string) ([]models.Organization, error) {
	filter := bson.M{}
	if role != "admin" {
		if uid == "" {
			return nil, nil
		}
		filter["admin_uids"] = uid
	}
	cur, err := p.orgs.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
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
