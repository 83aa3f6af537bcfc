package oauthstate

import (
	"errors"
	"testing"
	"time"

	"github.com/advocatechambers/lawsite/internal/testutil"
)

func TestStore_IssueAndConsume(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	state, err := store.Issue(ctx, "/admin/inquiries")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if state == "" {
		t.Fatal("Issue() returned empty state")
	}

	ret, err := store.Consume(ctx, state)
	if err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	if ret != "/admin/inquiries" {
		t.Errorf("Consume() returnTo = %q, want /admin/inquiries", ret)
	}
}

func TestStore_Consume_SingleUse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	state, _ := store.Issue(ctx, "")
	if _, err := store.Consume(ctx, state); err != nil {
		t.Fatalf("first Consume() error = %v", err)
	}
	if _, err := store.Consume(ctx, state); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second Consume() error = %v, want ErrInvalidState", err)
	}
}

func TestStore_Consume_Unknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, s := range []string{"", "never-issued"} {
		if _, err := store.Consume(ctx, s); !errors.Is(err, ErrInvalidState) {
			t.Errorf("Consume(%q) error = %v, want ErrInvalidState", s, err)
		}
	}
}

func TestStore_Consume_Expired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	store.ttl = -time.Minute
	ctx, cancel := testutil.TestContext()
	defer cancel()

	state, err := store.Issue(ctx, "/admin")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := store.Consume(ctx, state); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Consume() of expired state error = %v, want ErrInvalidState", err)
	}
}

func TestStore_Create_UniqueConstraint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Create(ctx, "dup", ""); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Create(ctx, "dup", ""); err == nil {
		t.Error("Create() with duplicate state should fail")
	}
}
