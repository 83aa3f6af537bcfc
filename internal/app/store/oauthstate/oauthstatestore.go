// internal/app/store/oauthstate/oauthstatestore.go
//
// Package oauthstate stores single-use OAuth state tokens for the admin's
// Google sign-in. Each token remembers where to send the admin afterwards.
package oauthstate

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection is where states live; a TTL index on expires_at removes stale ones.
const Collection = "oauth_states"

// DefaultTTL bounds how long the admin has to finish the provider round trip.
const DefaultTTL = 10 * time.Minute

// ErrInvalidState is returned for unknown, expired, or already used states.
var ErrInvalidState = errors.New("invalid or expired oauth state")

// State represents an OAuth state token record.
type State struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	State     string             `bson:"state"`
	ReturnTo  string             `bson:"return_to,omitempty"`
	ExpiresAt time.Time          `bson:"expires_at"`
	CreatedAt time.Time          `bson:"created_at"`
}

// Store provides access to the oauth_states collection.
type Store struct {
	c   *mongo.Collection
	ttl time.Duration
}

// New creates a new OAuth state store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection), ttl: DefaultTTL}
}

// Issue creates a fresh random state remembering returnTo and returns it.
func (s *Store) Issue(ctx context.Context, returnTo string) (string, error) {
	state := uuid.NewString()
	if err := s.Create(ctx, state, returnTo); err != nil {
		return "", err
	}
	return state, nil
}

// Create stores a caller-chosen state token.
func (s *Store) Create(ctx context.Context, state, returnTo string) error {
	now := time.Now()
	_, err := s.c.InsertOne(ctx, State{
		ID:        primitive.NewObjectID(),
		State:     state,
		ReturnTo:  returnTo,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	})
	return err
}

// Consume checks a state token and deletes it (single use), returning the
// remembered return path.
func (s *Store) Consume(ctx context.Context, state string) (string, error) {
	if state == "" {
		return "", ErrInvalidState
	}
	var rec State
	err := s.c.FindOneAndDelete(ctx, bson.M{
		"state":      state,
		"expires_at": bson.M{"$gt": time.Now()},
	}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrInvalidState
	}
	if err != nil {
		return "", err
	}
	return rec.ReturnTo, nil
}
