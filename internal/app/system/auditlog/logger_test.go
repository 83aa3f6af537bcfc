package auditlog

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/advocatechambers/lawsite/internal/app/store/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeRecorder struct {
	mu     sync.Mutex
	events []audit.Event
	err    error
}

func (f *fakeRecorder) Log(_ context.Context, e audit.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return f.err
}

func newLogger(cfg Config) (*Logger, *fakeRecorder, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	rec := &fakeRecorder{}
	return New(rec, zap.New(core), cfg), rec, logs
}

func TestLogger_Routing(t *testing.T) {
	tests := []struct {
		setting string
		wantDB  int
		wantLog int
	}{
		{"all", 1, 1},
		{"db", 1, 0},
		{"log", 0, 1},
		{"off", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.setting, func(t *testing.T) {
			l, rec, logs := newLogger(Config{Auth: tt.setting, Admin: "off"})
			r := httptest.NewRequest("POST", "/admin/api/login", nil)

			l.LoginSuccess(r, "admin@example.com", "password")

			assert.Len(t, rec.events, tt.wantDB)
			assert.Equal(t, tt.wantLog, logs.Len())
		})
	}
}

func TestLogger_AdminEventDetails(t *testing.T) {
	l, rec, _ := newLogger(Config{Auth: "off", Admin: "db"})
	r := httptest.NewRequest("PATCH", "/admin/api/content/hero", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	l.ContentUpdated(r, "admin@example.com", "hero", "title,subtitle")

	require.Len(t, rec.events, 1)
	e := rec.events[0]
	assert.Equal(t, audit.CategoryAdmin, e.Category)
	assert.Equal(t, audit.EventContentUpdated, e.EventType)
	assert.Equal(t, "admin@example.com", e.Actor)
	assert.Equal(t, "203.0.113.7", e.IP)
	assert.Equal(t, "hero", e.Details["section"])
	assert.Equal(t, "title,subtitle", e.Details["fields_changed"])
}

func TestLogger_FailedEventsLogAtWarn(t *testing.T) {
	l, _, logs := newLogger(Config{Auth: "log", Admin: "log"})
	r := httptest.NewRequest("POST", "/admin/api/login", nil)

	l.LoginFailed(r, "x@example.com", audit.EventLoginFailedWrongPassword, "wrong password")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, "wrong password", entries[0].ContextMap()["failure_reason"])
}

func TestLogger_StoreErrorIsLogged(t *testing.T) {
	l, rec, logs := newLogger(Config{Admin: "db"})
	rec.err = errors.New("db down")
	r := httptest.NewRequest("POST", "/admin/api/content/reset", nil)

	l.ContentReset(r, "admin@example.com", nil)

	assert.Equal(t, 1, logs.FilterMessage("failed to store audit event").Len())
}

func TestLogger_Nil(t *testing.T) {
	var l *Logger
	r := httptest.NewRequest("POST", "/", nil)
	l.Logout(r, "admin@example.com")
}
