// Package ratelimit throttles failed admin sign-in attempts.
//
// A subject (normally the submitted email, optionally prefixed by client IP)
// may fail MaxAttempts times within Window; the next failure locks it for
// Lockout. Both backends fail open: a storage error never blocks a login.
package ratelimit

import (
	"context"
	"strings"
	"time"
)

// Policy configures how many failures are tolerated.
type Policy struct {
	MaxAttempts int
	Window      time.Duration
	Lockout     time.Duration
}

// DefaultPolicy is 5 failures per 15 minutes, then a 15 minute lockout.
var DefaultPolicy = Policy{MaxAttempts: 5, Window: 15 * time.Minute, Lockout: 15 * time.Minute}

// Limiter is satisfied by the Mongo and Redis stores.
type Limiter interface {
	// CheckAllowed reports whether subject may try to sign in.
	// remaining is -1 while locked.
	CheckAllowed(ctx context.Context, subject string) (allowed bool, remaining int, lockedUntil *time.Time)
	// RecordFailure counts one failure and reports whether it caused a lockout.
	RecordFailure(ctx context.Context, subject string) (lockedOut bool, lockedUntil *time.Time)
	// ClearOnSuccess forgets subject's failures.
	ClearOnSuccess(ctx context.Context, subject string) error
}

// normalizeSubject lowercases and trims for consistent lookups.
func normalizeSubject(subject string) string {
	return strings.ToLower(strings.TrimSpace(subject))
}
