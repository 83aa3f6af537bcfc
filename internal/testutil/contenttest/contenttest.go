// Package contenttest starts a content sync service over an in-memory
// store for handler tests.
package contenttest

import (
	"context"
	"testing"
	"time"

	contentstore "github.com/advocatechambers/lawsite/internal/app/store/content"
	"github.com/advocatechambers/lawsite/internal/app/system/contentsync"
	"github.com/advocatechambers/lawsite/internal/domain/models"
	"go.uber.org/zap"
)

// WaitFor bounds every wait in this package.
const WaitFor = 2 * time.Second

// Start returns a ready service seeded with default content, plus its store.
func Start(t testing.TB) (*contentsync.Service, *contentstore.Memory) {
	t.Helper()
	mem := contentstore.NewMemory()
	svc := contentsync.New(mem, zap.NewNop())
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start content sync: %v", err)
	}
	t.Cleanup(svc.Stop)

	ctx, cancel := context.WithTimeout(context.Background(), WaitFor)
	defer cancel()
	if err := svc.WaitReady(ctx); err != nil {
		t.Fatalf("content sync not ready: %v", err)
	}
	return svc, mem
}

// Unstarted returns a service that never becomes ready.
func Unstarted() *contentsync.Service {
	return contentsync.New(contentstore.NewMemory(), zap.NewNop())
}

// Put writes value straight to the store and waits until svc observes it.
func Put(t testing.TB, svc *contentsync.Service, mem *contentstore.Memory, sec models.Section, value any) {
	t.Helper()
	before := svc.Version(sec)
	if err := mem.Put(context.Background(), sec.Key(), value); err != nil {
		t.Fatalf("put %s: %v", sec, err)
	}
	WaitVersion(t, svc, sec, before)
}

// WaitVersion waits until sec has been observed past version.
func WaitVersion(t testing.TB, svc *contentsync.Service, sec models.Section, version uint64) {
	t.Helper()
	deadline := time.Now().Add(WaitFor)
	for svc.Version(sec) <= version {
		if time.Now().After(deadline) {
			t.Fatalf("%s not observed past version %d", sec, version)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
