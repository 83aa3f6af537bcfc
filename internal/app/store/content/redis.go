// internal/app/store/content/redis.go
package contentstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ChannelPrefix namespaces the pub/sub channels used by RedisFeed.
const ChannelPrefix = "lawsite:content:"

// RedisFeed adds push notifications to a DocStore that cannot stream its own
// changes (for example a standalone mongod). Every write through the feed
// publishes the section key; watchers re-read the document when notified.
//
// Writes that bypass the feed are not observed.
type RedisFeed struct {
	DocStore
	rdb    *redis.Client
	logger *zap.Logger
}

// NewRedisFeed wraps store with notifications over rdb.
func NewRedisFeed(store DocStore, rdb *redis.Client, logger *zap.Logger) *RedisFeed {
	return &RedisFeed{DocStore: store, rdb: rdb, logger: logger}
}

func channelFor(key string) string {
	return ChannelPrefix + key
}

// Put writes through and publishes a change notification.
func (f *RedisFeed) Put(ctx context.Context, key string, doc any) error {
	if err := f.DocStore.Put(ctx, key, doc); err != nil {
		return err
	}
	f.publish(ctx, key)
	return nil
}

// Seed writes through and publishes when the document was created.
func (f *RedisFeed) Seed(ctx context.Context, key string, doc any) (bool, error) {
	created, err := f.DocStore.Seed(ctx, key, doc)
	if err != nil {
		return false, err
	}
	if created {
		f.publish(ctx, key)
	}
	return created, nil
}

// publish failures are logged only: the write itself is durable and the
// next notification for the key carries the latest document.
func (f *RedisFeed) publish(ctx context.Context, key string) {
	if err := f.rdb.Publish(ctx, channelFor(key), key).Err(); err != nil {
		f.logger.Warn("content change publish failed",
			zap.String("key", key),
			zap.Error(err))
	}
}

// Watch subscribes to the key's channel, then emits the current document
// and re-reads it on every notification.
func (f *RedisFeed) Watch(ctx context.Context, key string) (<-chan Snapshot, error) {
	sub := f.rdb.Subscribe(ctx, channelFor(key))
	// Wait for the subscription confirmation so no publish is missed
	// between subscribing and the initial read.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe content %s: %w", key, err)
	}

	initial, err := f.DocStore.Get(ctx, key)
	if err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan Snapshot, 1)
	go func() {
		defer close(out)
		defer sub.Close()

		if !send(ctx, out, initial) {
			return
		}
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					send(ctx, out, Snapshot{Key: key, Err: fmt.Errorf("subscription for %s closed", key)})
					return
				}
			}
			snap, err := f.DocStore.Get(ctx, key)
			if err != nil {
				if ctx.Err() == nil {
					send(ctx, out, Snapshot{Key: key, Err: err})
				}
				return
			}
			if !send(ctx, out, snap) {
				return
			}
		}
	}()
	return out, nil
}
