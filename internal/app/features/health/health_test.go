package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/advocatechambers/lawsite/internal/testutil"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type readyFlag bool

func (r readyFlag) IsReady() bool { return bool(r) }

func stub(name string, err error) Probe {
	return Probe{Name: name, Check: func(context.Context) error { return err }}
}

func get(h http.HandlerFunc, path string) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestCheck_AllHealthy(t *testing.T) {
	h := NewHandler(readyFlag(true), zap.NewNop(), stub("mongodb", nil), stub("redis", nil))

	rec := get(h.Check, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	rec.DecodeJSON(t, &resp)
	assert.Equal(t, Response{Status: "ok", Services: map[string]string{
		"mongodb": "ok", "redis": "ok", "content": "ok",
	}}, resp)
}

func TestCheck_Degraded(t *testing.T) {
	tests := []struct {
		name    string
		content Readiness
		probes  []Probe
		want    map[string]string
	}{
		{
			name:    "redis down",
			content: readyFlag(true),
			probes:  []Probe{stub("mongodb", nil), stub("redis", errors.New("refused"))},
			want:    map[string]string{"mongodb": "ok", "redis": "unavailable", "content": "ok"},
		},
		{
			name:    "content loading",
			content: readyFlag(false),
			probes:  []Probe{stub("mongodb", nil)},
			want:    map[string]string{"mongodb": "ok", "content": "loading"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(tt.content, zap.NewNop(), tt.probes...)
			rec := get(h.Check, "/health")
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

			var resp Response
			rec.DecodeJSON(t, &resp)
			assert.Equal(t, "degraded", resp.Status)
			assert.Equal(t, tt.want, resp.Services)
		})
	}
}

func TestReady(t *testing.T) {
	tests := []struct {
		name    string
		content Readiness
		probe   error
		code    int
		body    string
	}{
		{"ready", readyFlag(true), nil, http.StatusOK, `{"status":"ready"}`},
		{"loading", readyFlag(false), nil, http.StatusServiceUnavailable, `{"status":"loading content"}`},
		{"db down", readyFlag(true), errors.New("no primary"), http.StatusServiceUnavailable, `{"status":"not ready"}`},
		{"no content tracker", nil, nil, http.StatusOK, `{"status":"ready"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(tt.content, zap.NewNop(), stub("mongodb", tt.probe))
			rec := get(h.Ready, "/ready")
			assert.Equal(t, tt.code, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestLive(t *testing.T) {
	h := NewHandler(readyFlag(false), zap.NewNop(), stub("mongodb", errors.New("down")))
	rec := get(h.Live, "/livez")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"alive"}`, rec.Body.String())
}

func TestRedisProbe(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	p := Redis(rdb)
	assert.Equal(t, "redis", p.Name)
	assert.NoError(t, p.Check(context.Background()))

	mr.Close()
	assert.Error(t, p.Check(context.Background()))
}

func TestMongoProbe(t *testing.T) {
	db := testutil.SetupTestDB(t)
	p := Mongo(db.Client())
	assert.Equal(t, "mongodb", p.Name)
	assert.NoError(t, p.Check(context.Background()))
}

func TestRouting(t *testing.T) {
	h := NewHandler(readyFlag(true), zap.NewNop())
	r := chi.NewRouter()
	r.Mount("/health", Routes(h))
	MountRootEndpoints(r, h)

	for _, path := range []string{"/health", "/health/ready", "/health/live", "/ready", "/readyz", "/livez"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}
