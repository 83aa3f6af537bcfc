// internal/app/store/pages/pagestore.go
package pagestore

import (
	"context"
	"errors"
	"time"

	"github.com/advocatechambers/lawsite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no page has the requested slug.
var ErrNotFound = errors.New("page not found")

// Store keeps the legal pages, one document per slug.
type Store struct {
	c *mongo.Collection
}

// New creates a Store over db.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("pages")}
}

// GetBySlug returns the page stored under slug, or ErrNotFound.
func (s *Store) GetBySlug(ctx context.Context, slug string) (models.Page, error) {
	var page models.Page
	err := s.c.FindOne(ctx, bson.M{"slug": slug}).Decode(&page)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Page{}, ErrNotFound
	}
	if err != nil {
		return models.Page{}, err
	}
	return page, nil
}

// Save writes page by slug, creating it on first save, and returns the
// stored document.
func (s *Store) Save(ctx context.Context, page models.Page) (models.Page, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"title":      page.Title,
			"content":    page.Content,
			"updated_at": now,
			"updated_by": page.UpdatedBy,
		},
		"$setOnInsert": bson.M{"slug": page.Slug},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var saved models.Page
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"slug": page.Slug}, update, opts).Decode(&saved); err != nil {
		return models.Page{}, err
	}
	return saved, nil
}

// Seed inserts page only when no page with its slug exists. It reports
// whether it inserted.
func (s *Store) Seed(ctx context.Context, page models.Page) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"slug": page.Slug},
		bson.M{"$setOnInsert": bson.M{
			"slug":    page.Slug,
			"title":   page.Title,
			"content": page.Content,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return res.UpsertedCount == 1, nil
}

// GetAll returns all pages ordered by slug.
func (s *Store) GetAll(ctx context.Context) ([]models.Page, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "slug", Value: 1}}))
	if err != nil {
		return nil, err
	}
	pages := []models.Page{}
	if err := cur.All(ctx, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}
