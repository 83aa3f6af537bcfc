// internal/app/features/health/health.go
//
// Package health serves the load balancer and orchestrator probes.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/advocatechambers/lawsite/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const probeTimeout = 5 * time.Second

// Readiness reports whether the in-memory content tree has loaded.
type Readiness interface {
	IsReady() bool
}

// Probe checks one backing service.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// Mongo pings the primary.
func Mongo(client *mongo.Client) Probe {
	return Probe{Name: "mongodb", Check: func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}}
}

// Redis pings rdb.
func Redis(rdb *redis.Client) Probe {
	return Probe{Name: "redis", Check: func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}}
}

// Handler serves /health and the root probes.
type Handler struct {
	content Readiness
	probes  []Probe
	logger  *zap.Logger
}

// NewHandler creates a Handler. content may be nil.
func NewHandler(content Readiness, logger *zap.Logger, probes ...Probe) *Handler {
	return &Handler{content: content, probes: probes, logger: logger}
}

// Response is the /health body.
type Response struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

// Routes serves /health, /health/ready and /health/live.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Check)
	r.Get("/ready", h.Ready)
	r.Get("/live", h.Live)
	return r
}

// MountRootEndpoints adds the Kubernetes style /ready, /readyz and /livez.
func MountRootEndpoints(r chi.Router, h *Handler) {
	r.Get("/ready", h.Ready)
	r.Get("/readyz", h.Ready)
	r.Get("/livez", h.Live)
}

func (h *Handler) contentLoaded() bool {
	return h.content == nil || h.content.IsReady()
}

// runProbes calls each with the outcome of every probe under one shared
// timeout.
func (h *Handler) runProbes(ctx context.Context, each func(p Probe, err error)) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	for _, p := range h.probes {
		each(p, p.Check(ctx))
	}
}

// Check reports every backing service and the content tree. Any failure
// answers 503 with status "degraded".
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	resp := Response{Status: "ok", Services: make(map[string]string, len(h.probes)+1)}

	h.runProbes(r.Context(), func(p Probe, err error) {
		if err != nil {
			resp.Status = "degraded"
			resp.Services[p.Name] = "unavailable"
			h.logger.Warn("health check failed", zap.String("service", p.Name), zap.Error(err))
			return
		}
		resp.Services[p.Name] = "ok"
	})

	resp.Services["content"] = "ok"
	if !h.contentLoaded() {
		resp.Status = "degraded"
		resp.Services["content"] = "loading"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	jsonutil.JSON(w, status, resp)
}

// Ready answers 200 once content has loaded and every probe passes.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if !h.contentLoaded() {
		jsonutil.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading content"})
		return
	}

	ready := true
	h.runProbes(r.Context(), func(p Probe, err error) {
		if err != nil {
			ready = false
			h.logger.Warn("readiness check failed", zap.String("service", p.Name), zap.Error(err))
		}
	})
	if !ready {
		jsonutil.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	jsonutil.OK(w, map[string]string{"status": "ready"})
}

// Live always answers 200.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, map[string]string{"status": "alive"})
}
