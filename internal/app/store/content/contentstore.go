// internal/app/store/content/contentstore.go
//
// Package contentstore persists site content sections, one document per
// section key, and delivers change notifications for them.
package contentstore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

// ErrClosed is returned when a watch is opened on a closed store.
var ErrClosed = errors.New("content store closed")

// Snapshot is one observation of a section document.
//
// Exists is false when no document is stored under Key. A non-nil Err marks
// the end of a watch: the subscription failed and no further snapshots
// follow on that channel.
type Snapshot struct {
	Key    string
	Exists bool
	Doc    bson.Raw
	Err    error
}

// Decode unmarshals the stored document into v. Fields absent from the
// document keep the values already in v, so callers decode onto a default.
func (s Snapshot) Decode(v any) error {
	if !s.Exists {
		return errors.New("decode of missing content document")
	}
	return bson.Unmarshal(s.Doc, v)
}

// DocStore reads and writes whole section documents.
type DocStore interface {
	// Get returns the current document for key.
	Get(ctx context.Context, key string) (Snapshot, error)
	// Put replaces the document for key, creating it when absent.
	Put(ctx context.Context, key string, doc any) error
	// Seed writes doc only if no document exists for key. created reports
	// whether this call inserted it.
	Seed(ctx context.Context, key string, doc any) (created bool, err error)
}

// Feed is a DocStore that can push changes.
type Feed interface {
	DocStore
	// Watch emits the current document for key, then one snapshot per
	// subsequent change, until ctx is cancelled or the subscription fails.
	// The channel is closed when the watch ends.
	Watch(ctx context.Context, key string) (<-chan Snapshot, error)
}

// marshalDoc encodes a section value. bson.Raw passes through unchanged.
func marshalDoc(doc any) (bson.Raw, error) {
	if raw, ok := doc.(bson.Raw); ok {
		return raw, nil
	}
	b, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return bson.Raw(b), nil
}
