// internal/app/features/admincontent/admincontent.go
//
// Package admincontent serves the admin editing API for content sections,
// the practice area catalog, and testimonials. Every write goes through the
// content sync service and the response carries the value once it has been
// observed back.
package admincontent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	errorsfeature "github.com/advocatechambers/lawsite/internal/app/features/errors"
	"github.com/advocatechambers/lawsite/internal/app/system/auditlog"
	"github.com/advocatechambers/lawsite/internal/app/system/auth"
	"github.com/advocatechambers/lawsite/internal/app/system/contentsync"
	"github.com/advocatechambers/lawsite/internal/app/system/jsonutil"
	"github.com/advocatechambers/lawsite/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ResetConfirmation must be sent as {"confirm": "RESET"} to reset content.
const ResetConfirmation = "RESET"

// AwaitWrite bounds how long a write handler waits to observe its own write.
var AwaitWrite = 2 * time.Second

// Handler provides the admin content endpoints.
type Handler struct {
	content     *contentsync.Service
	errLog      *errorsfeature.ErrorLogger
	auditLogger *auditlog.Logger
	logger      *zap.Logger
}

// NewHandler creates a new admin content Handler.
func NewHandler(content *contentsync.Service, errLog *errorsfeature.ErrorLogger, auditLogger *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		content:     content,
		errLog:      errLog,
		auditLogger: auditLogger,
		logger:      logger,
	}
}

// MountRoutes adds the admin content endpoints to r. Callers wrap r with
// RequireAdmin.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/content", h.all)
	r.Post("/content/reset", h.reset)
	r.Get("/content/{section}", h.section)
	r.Patch("/content/{section}", h.patch)

	r.Get("/services", h.listServices)
	r.Post("/services", h.createService)
	r.Put("/services/{slug}", h.updateService)
	r.Delete("/services/{slug}", h.deleteService)
	r.Post("/services/{slug}/toggle", h.toggleService)

	r.Get("/testimonials", h.listTestimonials)
	r.Post("/testimonials", h.createTestimonial)
	r.Put("/testimonials/{id}", h.updateTestimonial)
	r.Delete("/testimonials/{id}", h.deleteTestimonial)
}

// adminView hides the admin credentials. Everything else is returned as stored.
func adminView(sec models.Section, v any) any {
	if s, ok := v.(*models.SettingsContent); ok && sec == models.SectionSettings {
		r := s.Redacted()
		return &r
	}
	return v
}

func (h *Handler) all(w http.ResponseWriter, r *http.Request) {
	snap := h.content.Snapshot()
	if snap.Settings != nil {
		s := snap.Settings.Redacted()
		snap.Settings = &s
	}
	jsonutil.OK(w, snap)
}

func (h *Handler) section(w http.ResponseWriter, r *http.Request) {
	sec, err := models.ParseSection(chi.URLParam(r, "section"))
	if err != nil {
		jsonutil.NotFound(w, "unknown section")
		return
	}
	v, ok := h.content.Section(sec)
	if !ok {
		jsonutil.ServiceUnavailable(w, "section unavailable")
		return
	}
	jsonutil.OK(w, adminView(sec, v))
}

func (h *Handler) patch(w http.ResponseWriter, r *http.Request) {
	sec, err := models.ParseSection(chi.URLParam(r, "section"))
	if err != nil {
		jsonutil.NotFound(w, "unknown section")
		return
	}

	var patch map[string]json.RawMessage
	if err := jsonutil.DecodeStrict(w, r, &patch); err != nil {
		jsonutil.DecodeFailed(w, err)
		return
	}
	if len(patch) == 0 {
		jsonutil.BadRequest(w, "no fields to update")
		return
	}

	before := h.content.Version(sec)
	if err := h.content.Update(r.Context(), sec, patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.auditLogger.ContentUpdated(r, auth.Actor(r), sec.String(), patchKeys(patch))
	h.respondSection(w, r, sec, before, http.StatusOK)
}

func patchKeys(patch map[string]json.RawMessage) string {
	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

type resetRequest struct {
	Confirm string `json:"confirm"`
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := jsonutil.DecodeStrict(w, r, &req); err != nil || req.Confirm != ResetConfirmation {
		jsonutil.BadRequest(w, `confirm must be "RESET"`)
		return
	}

	err := h.content.ResetToDefaults(r.Context())
	h.auditLogger.ContentReset(r, auth.Actor(r), err)
	if err != nil {
		h.errLog.Log(r, "content reset failed", err)
		jsonutil.InternalError(w, "reset incomplete")
		return
	}
	h.logger.Warn("content reset to defaults", zap.String("actor", auth.Actor(r)))
	jsonutil.Accepted(w, "reset")
}

// await waits for a write to come back. If it does not arrive in time the
// write is still stored, so it answers 202 and returns false.
func (h *Handler) await(w http.ResponseWriter, r *http.Request, sec models.Section, before uint64) bool {
	ctx, cancel := context.WithTimeout(r.Context(), AwaitWrite)
	defer cancel()
	if err := h.content.Await(ctx, sec, before); err != nil {
		jsonutil.Accepted(w, "pending")
		return false
	}
	return true
}

// respondSection answers with the section value once the write is observed.
func (h *Handler) respondSection(w http.ResponseWriter, r *http.Request, sec models.Section, before uint64, status int) {
	if !h.await(w, r, sec, before) {
		return
	}
	v, _ := h.content.Section(sec)
	jsonutil.JSON(w, status, adminView(sec, v))
}

// writeError maps a content write error to a response.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *contentsync.ValidationError
	switch {
	case errors.As(err, &verr):
		jsonutil.ValidationError(w, map[string]string{verr.Field: verr.Message})
	case errors.Is(err, contentsync.ErrUnknownSection):
		jsonutil.NotFound(w, "unknown section")
	case errors.Is(err, contentsync.ErrNotLoaded):
		w.Header().Set("Retry-After", "1")
		jsonutil.ServiceUnavailable(w, "section not loaded")
	default:
		h.errLog.Log(r, "content write failed", err)
		jsonutil.InternalError(w, "failed to save content")
	}
}
