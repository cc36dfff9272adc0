// internal/app/store/posts/poststore.go
package poststore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/voluntahub/voluntahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// wallLimit caps how many posts a wall listing returns.
const wallLimit = 20

type Store struct {
	c         *mongo.Collection
	sanitizer *bluemonday.Policy
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:         db.Collection("posts"),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

var (
	ErrNotFound = errors.New("post not found")

	errNoTitle   = errors.New("post title is required")
	errNoContent = errors.New("post content is required")
)

// Create publishes a post on an organization's wall. Title and content are
// sanitized; posts render as user-generated HTML.
func (s *Store) Create(ctx context.Context, p models.Post) (models.Post, error) {
	p.Title = strings.TrimSpace(s.sanitizer.Sanitize(p.Title))
	p.Content = strings.TrimSpace(s.sanitizer.Sanitize(p.Content))
	if p.Title == "" {
		return models.Post{}, errNoTitle
	}
	if p.Content == "" {
		return models.Post{}, errNoContent
	}
	if p.Type == "" {
		p.Type = "announcement"
	}

	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

// ListByOrg returns the organization's wall, newest first, capped.
func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.Post, error) {
	cur, err := s.c.Find(ctx, bson.M{"voluntariado_id": orgID},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(wallLimit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

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
