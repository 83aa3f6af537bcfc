// internal/app/store/ratelimit/redis.go
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "lawsite:ratelimit:"

// RedisStore is the Redis-backed Limiter: a counter key that expires with
// the window and a lock key that expires with the lockout.
type RedisStore struct {
	rdb    *redis.Client
	policy Policy
}

// NewRedis creates a Redis-backed limiter.
func NewRedis(rdb *redis.Client, policy Policy) *RedisStore {
	return &RedisStore{rdb: rdb, policy: policy}
}

func countKey(subject string) string { return redisPrefix + "count:" + subject }
func lockKey(subject string) string  { return redisPrefix + "lock:" + subject }

// CheckAllowed implements Limiter.
func (s *RedisStore) CheckAllowed(ctx context.Context, subject string) (bool, int, *time.Time) {
	subject = normalizeSubject(subject)

	ttl, err := s.rdb.PTTL(ctx, lockKey(subject)).Result()
	if err != nil {
		return true, s.policy.MaxAttempts, nil
	}
	if ttl > 0 {
		until := time.Now().Add(ttl)
		return false, -1, &until
	}

	n, err := s.rdb.Get(ctx, countKey(subject)).Int()
	if err != nil {
		return true, s.policy.MaxAttempts, nil
	}
	remaining := s.policy.MaxAttempts - n
	if remaining < 1 {
		remaining = 1
	}
	return true, remaining, nil
}

// RecordFailure implements Limiter.
func (s *RedisStore) RecordFailure(ctx context.Context, subject string) (bool, *time.Time) {
	subject = normalizeSubject(subject)
	ck := countKey(subject)

	n, err := s.rdb.Incr(ctx, ck).Result()
	if err != nil {
		return false, nil
	}
	if n == 1 {
		s.rdb.PExpire(ctx, ck, s.policy.Window)
	}
	if int(n) < s.policy.MaxAttempts {
		return false, nil
	}

	until := time.Now().Add(s.policy.Lockout)
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, lockKey(subject), until.Unix(), s.policy.Lockout)
		p.Del(ctx, ck)
		return nil
	})
	if err != nil {
		return false, nil
	}
	return true, &until
}

// ClearOnSuccess implements Limiter.
func (s *RedisStore) ClearOnSuccess(ctx context.Context, subject string) error {
	subject = normalizeSubject(subject)
	return s.rdb.Del(ctx, countKey(subject), lockKey(subject)).Err()
}
