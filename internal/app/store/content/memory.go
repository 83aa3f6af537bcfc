// internal/app/store/content/memory.go
package contentstore

import (
	"context"
	"sync"
)

// Memory is an in-process Feed used by tests and dry runs.
type Memory struct {
	mu       sync.Mutex
	docs     map[string][]byte
	watchers map[string]map[*memWatcher]struct{}
	closed   bool

	// FailPut, when set, is returned by Put for the matching key.
	FailPut func(key string) error
}

type memWatcher struct {
	notify chan struct{}
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		docs:     make(map[string][]byte),
		watchers: make(map[string]map[*memWatcher]struct{}),
	}
}

// Get returns the stored document for key.
func (m *Memory) Get(ctx context.Context, key string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked(key), nil
}

func (m *Memory) snapshotLocked(key string) Snapshot {
	doc, ok := m.docs[key]
	if !ok {
		return Snapshot{Key: key}
	}
	cp := make([]byte, len(doc))
	copy(cp, doc)
	return Snapshot{Key: key, Exists: true, Doc: cp}
}

// Put replaces the document for key and notifies watchers.
func (m *Memory) Put(ctx context.Context, key string, doc any) error {
	if m.FailPut != nil {
		if err := m.FailPut(key); err != nil {
			return err
		}
	}
	raw, err := marshalDoc(doc)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.docs[key] = append([]byte(nil), raw...)
	m.notifyLocked(key)
	m.mu.Unlock()
	return nil
}

// Seed stores doc only when key is absent.
func (m *Memory) Seed(ctx context.Context, key string, doc any) (bool, error) {
	raw, err := marshalDoc(doc)
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[key]; ok {
		return false, nil
	}
	m.docs[key] = append([]byte(nil), raw...)
	m.notifyLocked(key)
	return true, nil
}

// Len returns the number of stored documents.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}

// notifyLocked wakes every watcher of key. A watcher that already has a
// pending wake-up reads the latest document anyway, so extra signals are
// dropped.
func (m *Memory) notifyLocked(key string) {
	for w := range m.watchers[key] {
		select {
		case w.notify <- struct{}{}:
		default:
		}
	}
}

// Watch emits the current document and then the latest document after
// every change. Rapid successive writes may be coalesced into one snapshot.
func (m *Memory) Watch(ctx context.Context, key string) (<-chan Snapshot, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	w := &memWatcher{notify: make(chan struct{}, 1)}
	if m.watchers[key] == nil {
		m.watchers[key] = make(map[*memWatcher]struct{})
	}
	m.watchers[key][w] = struct{}{}
	w.notify <- struct{}{}
	m.mu.Unlock()

	out := make(chan Snapshot)
	go func() {
		defer close(out)
		defer m.removeWatcher(key, w)
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.notify:
			}
			snap, _ := m.Get(ctx, key)
			if !send(ctx, out, snap) {
				return
			}
		}
	}()
	return out, nil
}

func (m *Memory) removeWatcher(key string, w *memWatcher) {
	m.mu.Lock()
	delete(m.watchers[key], w)
	m.mu.Unlock()
}

// Close rejects new watches. Existing watches end with their contexts.
func (m *Memory) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}
