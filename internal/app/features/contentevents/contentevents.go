// internal/app/features/contentevents/contentevents.go
package contentevents

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/advocatechambers/lawsite/internal/app/system/contentsync"
	"github.com/advocatechambers/lawsite/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DefaultKeepAlive is how often an idle stream gets a comment line, so
// proxies do not close it.
const DefaultKeepAlive = 25 * time.Second

// Source is satisfied by *contentsync.Service.
type Source interface {
	Subscribe() (<-chan contentsync.Change, func())
}

// Handler streams content changes to browsers as server-sent events.
type Handler struct {
	source    Source
	keepAlive time.Duration
	logger    *zap.Logger
}

// NewHandler creates a new content events Handler.
func NewHandler(source Source, logger *zap.Logger) *Handler {
	return &Handler{source: source, keepAlive: DefaultKeepAlive, logger: logger}
}

// MountRoutes adds GET /content/events to r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/content/events", h.ServeEvents)
}

// ServeEvents writes one "content" event per applied section change until
// the client goes away. Clients refetch the named section.
func (h *Handler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		jsonutil.Error(w, http.StatusNotImplemented, "streaming unsupported")
		return
	}

	changes, unsubscribe := h.source.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "retry: 3000\n\n")
	flusher.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			data, err := json.Marshal(c)
			if err != nil {
				h.logger.Warn("encode content event failed", zap.Error(err))
				continue
			}
			if _, err := fmt.Fprintf(w, "id: %s-%d\nevent: content\ndata: %s\n\n", c.Section, c.Version, data); err != nil {
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
