// internal/app/system/indexes/indexes.go
//
// Package indexes reconciles MongoDB indexes at startup.
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureAll reconciles the indexes of every collection the site writes.
// Collections are handled independently and every failure is returned, so
// startup fails with the full picture.
//
// The content collection needs no secondary index: every section document
// is addressed by its _id.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	sets := []struct {
		coll   string
		models []mongo.IndexModel
	}{
		{"inquiries", inquiryIndexes()},
		{"pages", pageIndexes()},
		{"oauth_states", oauthStateIndexes()},
		{"audit_logs", auditLogIndexes()},
		{"rate_limits", rateLimitIndexes()},
	}

	var errs []error
	for _, set := range sets {
		if err := ensureIndexSet(ctx, db.Collection(set.coll), set.models, logger); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", set.coll, err))
		}
	}
	return errors.Join(errs...)
}

// keys builds an index key document. A leading "-" sorts the field
// descending.
func keys(fields ...string) bson.D {
	d := make(bson.D, 0, len(fields))
	for _, f := range fields {
		if name, desc := strings.CutPrefix(f, "-"); desc {
			d = append(d, bson.E{Key: name, Value: -1})
		} else {
			d = append(d, bson.E{Key: f, Value: 1})
		}
	}
	return d
}

func index(name string, fields ...string) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys(fields...), Options: options.Index().SetName(name)}
}

func unique(name string, fields ...string) mongo.IndexModel {
	m := index(name, fields...)
	m.Options.SetUnique(true)
	return m
}

func ttl(name string, after time.Duration, field string) mongo.IndexModel {
	m := index(name, field)
	m.Options.SetExpireAfterSeconds(int32(after / time.Second))
	return m
}

func inquiryIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		unique("uniq_inquiries_reference", "reference"),
		index("idx_inquiries_created_id", "-created_at", "-_id"),
		// Also serves the pending digest.
		index("idx_inquiries_status_created", "status", "-created_at"),
		index("idx_inquiries_name_ci", "full_name_ci"),
		index("idx_inquiries_category_created", "category", "-created_at"),
	}
}

func pageIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{unique("uniq_pages_slug", "slug")}
}

func oauthStateIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		unique("uniq_oauth_state", "state"),
		ttl("idx_oauth_expires_ttl", 0, "expires_at"),
	}
}

func auditLogIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		index("idx_audit_created", "-created_at"),
		index("idx_audit_category_created", "category", "-created_at"),
		index("idx_audit_actor_created", "actor", "-created_at"),
	}
}

func rateLimitIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		unique("uniq_ratelimit_subject", "subject"),
		ttl("idx_ratelimit_ttl", 24*time.Hour, "last_attempt"),
	}
}

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique bool   `bson:"unique,omitempty"`
}

// keySig identifies an index by its key pattern, independent of its name.
func keySig(kd bson.D) string {
	var b strings.Builder
	for i, kv := range kd {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s:%v", kv.Key, kv.Value)
	}
	return b.String()
}

func listIndexes(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	var all []existingIndex
	if err := cur.All(ctx, &all); err != nil {
		return nil, err
	}
	bySig := make(map[string]existingIndex, len(all))
	for _, idx := range all {
		bySig[keySig(idx.Key)] = idx
	}
	return bySig, nil
}

// ensureIndexSet creates missing indexes. An index with the same keys but a
// different uniqueness is dropped and recreated; one that matches is reused
// whatever its name.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel, logger *zap.Logger) error {
	log := logger.With(zap.String("collection", coll.Name()))

	existing, err := listIndexes(ctx, coll)
	if err != nil {
		// A collection that does not exist yet has nothing to reconcile.
		log.Debug("list indexes failed, creating all", zap.Error(err))
		existing = map[string]existingIndex{}
	}

	var errs []error
	for _, m := range models {
		name := *m.Options.Name
		isUnique := m.Options.Unique != nil && *m.Options.Unique
		sig := keySig(m.Keys.(bson.D))

		if ex, ok := existing[sig]; ok {
			if ex.Unique == isUnique {
				log.Debug("index present", zap.String("name", ex.Name), zap.String("keys", sig))
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Errorf("%s: drop %s: %w", name, ex.Name, err))
				continue
			}
			log.Info("dropped index with other uniqueness", zap.String("name", ex.Name), zap.String("keys", sig))
		}

		start := time.Now()
		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isUnique && mongo.IsDuplicateKeyError(err) {
				err = fmt.Errorf("duplicates present: %w", err)
			}
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			log.Warn("create index failed", zap.String("name", name), zap.String("keys", sig), zap.Error(err))
			continue
		}
		log.Info("created index",
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", isUnique),
			zap.Duration("took", time.Since(start)))
	}
	return errors.Join(errs...)
}
