// internal/app/features/auditlog/auditlog.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	errorsfeature "github.com/advocatechambers/lawsite/internal/app/features/errors"
	"github.com/advocatechambers/lawsite/internal/app/store/audit"
	"github.com/advocatechambers/lawsite/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const pageSize = 50

// Store is satisfied by *audit.Store.
type Store interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error)
	CountByFilter(ctx context.Context, filter audit.QueryFilter) (int64, error)
}

// Handler provides the audit log endpoint.
type Handler struct {
	auditStore Store
	errLog     *errorsfeature.ErrorLogger
	logger     *zap.Logger
}

// NewHandler creates a new audit log Handler.
func NewHandler(auditStore Store, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		auditStore: auditStore,
		errLog:     errLog,
		logger:     logger,
	}
}

// ListResponse is one page of audit events plus the filter options.
type ListResponse struct {
	Items      []audit.Event `json:"items"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	Pages      int           `json:"pages"`
	Categories []string      `json:"categories"`
	EventTypes []string      `json:"eventTypes"`
}

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	authEvents := []string{
		audit.EventLoginSuccess,
		audit.EventLoginFailedUnknownEmail,
		audit.EventLoginFailedWrongPassword,
		audit.EventLoginFailedNotConfigured,
		audit.EventLoginRateLimited,
		audit.EventLogout,
		audit.EventPasswordChanged,
	}

	adminEvents := []string{
		audit.EventContentUpdated,
		audit.EventContentReset,
		audit.EventSettingsUpdated,
		audit.EventInquiryAdvanced,
		audit.EventPageUpdated,
		audit.EventMediaUploaded,
	}

	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryAdmin:
		return adminEvents
	case "":
		all := make([]string, 0, len(authEvents)+len(adminEvents))
		all = append(all, authEvents...)
		all = append(all, adminEvents...)
		return all
	default:
		return []string{}
	}
}

// MountRoutes adds the audit log endpoint to r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/audit", h.list)
}

// list returns audit events, newest first, with filtering and pagination.
//
// Dates are YYYY-MM-DD in the zone named by tz (server local by default);
// end_date includes the whole day.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := strings.TrimSpace(q.Get("category"))
	eventType := strings.TrimSpace(q.Get("event_type"))
	actor := strings.TrimSpace(q.Get("actor"))
	startDate := strings.TrimSpace(q.Get("start_date"))
	endDate := strings.TrimSpace(q.Get("end_date"))
	tzParam := strings.TrimSpace(q.Get("tz"))

	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}

	loc := time.Local
	if tzParam != "" {
		parsed, err := time.LoadLocation(tzParam)
		if err != nil {
			jsonutil.ValidationError(w, map[string]string{"tz": "unknown time zone"})
			return
		}
		loc = parsed
	}

	filter := audit.QueryFilter{
		Actor:     actor,
		Category:  category,
		EventType: eventType,
		Limit:     pageSize,
		Offset:    int64((page - 1) * pageSize),
	}
	if startDate != "" {
		t, err := time.ParseInLocation("2006-01-02", startDate, loc)
		if err != nil {
			jsonutil.ValidationError(w, map[string]string{"start_date": "must be YYYY-MM-DD"})
			return
		}
		filter.StartTime = &t
	}
	if endDate != "" {
		t, err := time.ParseInLocation("2006-01-02", endDate, loc)
		if err != nil {
			jsonutil.ValidationError(w, map[string]string{"end_date": "must be YYYY-MM-DD"})
			return
		}
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndTime = &endOfDay
	}

	events, err := h.auditStore.Query(r.Context(), filter)
	if err != nil {
		h.errLog.Log(r, "failed to query audit events", err)
		jsonutil.InternalError(w, "failed to load audit log")
		return
	}
	if events == nil {
		events = []audit.Event{}
	}

	total, err := h.auditStore.CountByFilter(r.Context(), filter)
	if err != nil {
		h.logger.Warn("failed to count audit events", zap.Error(err))
		total = int64(len(events))
	}

	pages := int((total + pageSize - 1) / pageSize)
	if pages < 1 {
		pages = 1
	}

	jsonutil.OK(w, ListResponse{
		Items:      events,
		Total:      total,
		Page:       page,
		Pages:      pages,
		Categories: []string{audit.CategoryAuth, audit.CategoryAdmin},
		EventTypes: eventTypesForCategory(category),
	})
}
