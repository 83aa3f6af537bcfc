// internal/app/store/content/mongo.go
package contentstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/advocatechambers/lawsite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store keeps section documents in the content collection, keyed by _id.
// Watch uses change streams and so requires a replica set or sharded cluster.
type Store struct {
	c *mongo.Collection
}

// New creates a content store on models.ContentCollection.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(models.ContentCollection)}
}

// Get returns the stored document for key.
func (s *Store) Get(ctx context.Context, key string) (Snapshot, error) {
	raw, err := s.c.FindOne(ctx, bson.M{"_id": key}).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Snapshot{Key: key}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("get content %s: %w", key, err)
	}
	return Snapshot{Key: key, Exists: true, Doc: raw}, nil
}

// Put replaces the whole document for key (upsert).
func (s *Store) Put(ctx context.Context, key string, doc any) error {
	raw, err := marshalDoc(doc)
	if err != nil {
		return fmt.Errorf("encode content %s: %w", key, err)
	}
	_, err = s.c.ReplaceOne(ctx, bson.M{"_id": key}, raw, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("put content %s: %w", key, err)
	}
	return nil
}

// Seed inserts doc under key unless a document already exists.
// Concurrent seeders race on the _id; the loser sees a duplicate key
// error, which is reported as created=false.
func (s *Store) Seed(ctx context.Context, key string, doc any) (bool, error) {
	raw, err := marshalDoc(doc)
	if err != nil {
		return false, fmt.Errorf("encode content %s: %w", key, err)
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$setOnInsert": raw},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("seed content %s: %w", key, err)
	}
	return res.UpsertedCount == 1, nil
}

type changeEvent struct {
	OperationType string   `bson:"operationType"`
	FullDocument  bson.Raw `bson:"fullDocument"`
}

// Watch opens a change stream on the single document key. The stream is
// opened before the initial read so no write between the two is missed.
func (s *Store) Watch(ctx context.Context, key string) (<-chan Snapshot, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "documentKey._id", Value: key}}}},
	}
	cs, err := s.c.Watch(ctx, pipeline, options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return nil, fmt.Errorf("watch content %s: %w", key, err)
	}

	initial, err := s.Get(ctx, key)
	if err != nil {
		_ = cs.Close(context.Background())
		return nil, err
	}

	out := make(chan Snapshot, 1)
	go func() {
		defer close(out)
		defer cs.Close(context.Background())

		if !send(ctx, out, initial) {
			return
		}
		for cs.Next(ctx) {
			var ev changeEvent
			if err := cs.Decode(&ev); err != nil {
				send(ctx, out, Snapshot{Key: key, Err: fmt.Errorf("decode change for %s: %w", key, err)})
				return
			}
			snap := Snapshot{Key: key}
			switch ev.OperationType {
			case "insert", "replace", "update":
				if ev.FullDocument != nil {
					snap.Exists = true
					snap.Doc = ev.FullDocument
				}
			case "delete":
			case "invalidate", "drop", "dropDatabase", "rename":
				send(ctx, out, Snapshot{Key: key, Err: fmt.Errorf("change stream for %s invalidated by %s", key, ev.OperationType)})
				return
			default:
				continue
			}
			if !send(ctx, out, snap) {
				return
			}
		}
		if err := cs.Err(); err != nil && ctx.Err() == nil {
			send(ctx, out, Snapshot{Key: key, Err: fmt.Errorf("change stream for %s: %w", key, err)})
		}
	}()
	return out, nil
}

// send delivers snap unless ctx ends first.
func send(ctx context.Context, out chan<- Snapshot, snap Snapshot) bool {
	select {
	case out <- snap:
		return true
	case <-ctx.Done():
		return false
	}
}
