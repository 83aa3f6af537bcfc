package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/advocatechambers/lawsite/internal/testutil"
)

var _ Limiter = (*Store)(nil)
var _ Limiter = (*RedisStore)(nil)

func TestStore_CheckAllowed_NoRecord(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, testPolicy)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	allowed, remaining, lockedUntil := store.CheckAllowed(ctx, "new@example.com")
	if !allowed || remaining != 3 || lockedUntil != nil {
		t.Errorf("CheckAllowed() = %v, %d, %v; want true, 3, nil", allowed, remaining, lockedUntil)
	}
}

func TestStore_RecordFailure_CountsAndLocks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, testPolicy)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if locked, _ := store.RecordFailure(ctx, "Admin@Example.com"); locked {
		t.Fatal("first failure should not lock")
	}
	att, err := store.GetAttempt(ctx, "admin@example.com")
	if err != nil || att == nil {
		t.Fatalf("GetAttempt() = %v, %v", att, err)
	}
	if att.AttemptCount != 1 || att.Subject != "admin@example.com" {
		t.Errorf("attempt = %+v", att)
	}

	store.RecordFailure(ctx, "admin@example.com")
	locked, until := store.RecordFailure(ctx, "admin@example.com")
	if !locked || until == nil {
		t.Fatalf("third failure: locked = %v, until = %v", locked, until)
	}

	allowed, remaining, lockedUntil := store.CheckAllowed(ctx, "admin@example.com")
	if allowed || remaining != -1 || lockedUntil == nil {
		t.Errorf("CheckAllowed() while locked = %v, %d, %v", allowed, remaining, lockedUntil)
	}
}

func TestStore_RecordFailure_Concurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, Policy{MaxAttempts: 100, Window: time.Hour, Lockout: time.Hour})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.RecordFailure(ctx, "race@example.com")
		}()
	}
	wg.Wait()

	att, _ := store.GetAttempt(ctx, "race@example.com")
	if att == nil || att.AttemptCount != 10 {
		t.Errorf("AttemptCount = %+v, want 10", att)
	}
}

func TestStore_WindowExpiry_ResetsCounter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, Policy{MaxAttempts: 3, Window: 50 * time.Millisecond, Lockout: time.Hour})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store.RecordFailure(ctx, "a@example.com")
	store.RecordFailure(ctx, "a@example.com")
	time.Sleep(100 * time.Millisecond)

	if locked, _ := store.RecordFailure(ctx, "a@example.com"); locked {
		t.Error("failure after window should start a new count")
	}
	att, _ := store.GetAttempt(ctx, "a@example.com")
	if att == nil || att.AttemptCount != 1 {
		t.Errorf("attempt after window = %+v, want count 1", att)
	}
}

func TestStore_ClearOnSuccess(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, testPolicy)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store.RecordFailure(ctx, "a@example.com")
	if err := store.ClearOnSuccess(ctx, "A@example.com"); err != nil {
		t.Fatalf("ClearOnSuccess() error = %v", err)
	}
	if att, _ := store.GetAttempt(ctx, "a@example.com"); att != nil {
		t.Errorf("attempt after clear = %+v, want nil", att)
	}
}
