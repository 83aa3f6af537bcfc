package contentstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/advocatechambers/lawsite/internal/domain/models"
)

func recv(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		if !ok {
			t.Fatal("watch channel closed")
		}
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return Snapshot{}
}

func TestMemory_GetMissing(t *testing.T) {
	m := NewMemory()
	snap, err := m.Get(context.Background(), "hero")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if snap.Exists {
		t.Error("Get() on empty store reported Exists")
	}
}

func TestMemory_PutReplacesWholeDocument(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if err := m.Put(ctx, "cta", &models.CTAContent{Title: "a", Subtitle: "b"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := m.Put(ctx, "cta", &models.CTAContent{Title: "c"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	snap, _ := m.Get(ctx, "cta")
	var got models.CTAContent
	if err := snap.Decode(&got); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Title != "c" || got.Subtitle != "" {
		t.Errorf("stored = %+v, want Title=c Subtitle empty", got)
	}
}

func TestMemory_SeedIsCreateIfAbsent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	created := make(chan bool, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := m.Seed(ctx, "hero", models.DefaultSection(models.SectionHero))
			if err != nil {
				t.Errorf("Seed() error = %v", err)
			}
			created <- ok
		}()
	}
	wg.Wait()
	close(created)

	n := 0
	for ok := range created {
		if ok {
			n++
		}
	}
	if n != 1 {
		t.Errorf("Seed created %d times, want 1", n)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}

	// Seed never overwrites.
	_ = m.Put(ctx, "hero", &models.HeroContent{Title: "custom"})
	ok, _ := m.Seed(ctx, "hero", models.DefaultSection(models.SectionHero))
	if ok {
		t.Error("Seed() over existing document reported created")
	}
	snap, _ := m.Get(ctx, "hero")
	var got models.HeroContent
	_ = snap.Decode(&got)
	if got.Title != "custom" {
		t.Errorf("Title = %q, want custom", got.Title)
	}
}

func TestMemory_WatchEmitsInitialAndChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewMemory()

	ch, err := m.Watch(ctx, "contact")
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if snap := recv(t, ch); snap.Exists {
		t.Fatal("initial snapshot should report missing document")
	}

	_ = m.Put(ctx, "contact", &models.ContactContent{Phone: "1"})
	snap := recv(t, ch)
	var got models.ContactContent
	if err := snap.Decode(&got); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Phone != "1" {
		t.Errorf("Phone = %q, want 1", got.Phone)
	}

	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			// a final coalesced snapshot may race with cancel; drain once more
			if _, ok := <-ch; ok {
				t.Error("channel not closed after cancel")
			}
		}
	case <-time.After(2 * time.Second):
		t.Error("channel not closed after cancel")
	}
}

// A consumer that writes from inside its own watch loop must not deadlock.
func TestMemory_SeedFromWatchLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewMemory()

	ch, _ := m.Watch(ctx, "settings")
	snap := recv(t, ch)
	if snap.Exists {
		t.Fatal("expected missing document")
	}
	if _, err := m.Seed(ctx, "settings", models.DefaultSection(models.SectionSettings)); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	snap = recv(t, ch)
	if !snap.Exists {
		t.Fatal("expected seeded document")
	}
}

func TestMemory_AbsentFieldsKeepDefaults(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	type oldHero struct {
		Title string `bson:"title"`
	}
	_ = m.Put(ctx, "hero", oldHero{Title: "from an older release"})

	snap, _ := m.Get(ctx, "hero")
	got := models.DefaultSection(models.SectionHero).(*models.HeroContent)
	if err := snap.Decode(got); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Title != "from an older release" {
		t.Errorf("Title = %q", got.Title)
	}
	if len(got.Stats) != 3 {
		t.Errorf("len(Stats) = %d, want default 3", len(got.Stats))
	}
}
