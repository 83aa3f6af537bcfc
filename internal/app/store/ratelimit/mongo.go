// internal/app/store/ratelimit/mongo.go
package ratelimit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection holds one document per throttled subject.
const Collection = "rate_limits"

// Attempt tracks failed sign-in attempts for one subject.
type Attempt struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Subject      string             `bson:"subject"`
	AttemptCount int                `bson:"attempt_count"`
	WindowStart  time.Time          `bson:"window_start"`
	LockedUntil  *time.Time         `bson:"locked_until"`
	LastAttempt  time.Time          `bson:"last_attempt"` // TTL index field
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

// Store is the Mongo-backed Limiter.
type Store struct {
	c      *mongo.Collection
	policy Policy
}

// New creates a Mongo-backed limiter.
func New(db *mongo.Database, policy Policy) *Store {
	return &Store{c: db.Collection(Collection), policy: policy}
}

// CheckAllowed implements Limiter.
func (s *Store) CheckAllowed(ctx context.Context, subject string) (bool, int, *time.Time) {
	att, err := s.GetAttempt(ctx, subject)
	if err != nil || att == nil {
		return true, s.policy.MaxAttempts, nil
	}
	now := time.Now()

	if att.LockedUntil != nil && now.Before(*att.LockedUntil) {
		return false, -1, att.LockedUntil
	}
	if now.After(att.WindowStart.Add(s.policy.Window)) {
		return true, s.policy.MaxAttempts, nil
	}
	remaining := s.policy.MaxAttempts - att.AttemptCount
	if remaining <= 0 {
		// Lock expired inside the same window; the next failure relocks.
		return true, 1, nil
	}
	return true, remaining, nil
}

// RecordFailure implements Limiter.
//
// The counter is updated in a single pipeline upsert so concurrent failures
// for the same subject are all counted.
func (s *Store) RecordFailure(ctx context.Context, subject string) (bool, *time.Time) {
	subject = normalizeSubject(subject)
	now := time.Now().UTC().Truncate(time.Millisecond)
	windowCutoff := now.Add(-s.policy.Window)
	lockUntil := now.Add(s.policy.Lockout)

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"_reset": bson.M{"$lt": bson.A{"$window_start", windowCutoff}},
		}}},
		{{Key: "$set", Value: bson.M{
			"attempt_count": bson.M{"$cond": bson.A{"$_reset", 1, bson.M{"$add": bson.A{"$attempt_count", 1}}}},
			"window_start":  bson.M{"$cond": bson.A{"$_reset", now, "$window_start"}},
			"locked_until":  bson.M{"$cond": bson.A{"$_reset", nil, "$locked_until"}},
			"last_attempt":  now,
			"updated_at":    now,
			"created_at":    bson.M{"$ifNull": bson.A{"$created_at", now}},
		}}},
		{{Key: "$set", Value: bson.M{
			"locked_until": bson.M{"$cond": bson.A{
				bson.M{"$gte": bson.A{"$attempt_count", s.policy.MaxAttempts}},
				lockUntil,
				"$locked_until",
			}},
		}}},
		{{Key: "$unset", Value: "_reset"}},
	}

	var att Attempt
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"subject": subject},
		pipeline,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&att)
	if err != nil {
		return false, nil
	}

	if att.AttemptCount >= s.policy.MaxAttempts && att.LockedUntil != nil {
		return true, att.LockedUntil
	}
	return false, nil
}

// ClearOnSuccess implements Limiter.
func (s *Store) ClearOnSuccess(ctx context.Context, subject string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"subject": normalizeSubject(subject)})
	return err
}

// GetAttempt returns the stored record for subject, or nil.
func (s *Store) GetAttempt(ctx context.Context, subject string) (*Attempt, error) {
	var att Attempt
	err := s.c.FindOne(ctx, bson.M{"subject": normalizeSubject(subject)}).Decode(&att)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &att, nil
}
