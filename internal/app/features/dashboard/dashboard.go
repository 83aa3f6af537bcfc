// internal/app/features/dashboard/dashboard.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	errorsfeature "github.com/advocatechambers/lawsite/internal/app/features/errors"
	inquirystore "github.com/advocatechambers/lawsite/internal/app/store/inquiries"
	"github.com/advocatechambers/lawsite/internal/app/system/contentsync"
	"github.com/advocatechambers/lawsite/internal/app/system/jsonutil"
	"github.com/advocatechambers/lawsite/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RecentCount is how many of the newest inquiries the dashboard lists.
const RecentCount = 5

// failedLoginWindow is how far back failed logins are counted.
const failedLoginWindow = 24 * time.Hour

// InquiryStats is satisfied by *inquirystore.Store.
type InquiryStats interface {
	Stats(ctx context.Context) (inquirystore.Stats, error)
	Recent(ctx context.Context, n int64) ([]models.Inquiry, error)
}

// FailedLogins is satisfied by *audit.Store.
type FailedLogins interface {
	CountFailedLogins(ctx context.Context, since time.Time) (int64, error)
}

// Handler provides the admin dashboard summary.
type Handler struct {
	content   *contentsync.Service
	inquiries InquiryStats
	audit     FailedLogins
	errLog    *errorsfeature.ErrorLogger
	logger    *zap.Logger
}

// NewHandler creates a new dashboard Handler. auditStore may be nil.
func NewHandler(content *contentsync.Service, inquiries InquiryStats, auditStore FailedLogins, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		content:   content,
		inquiries: inquiries,
		audit:     auditStore,
		errLog:    errLog,
		logger:    logger,
	}
}

// ContentSummary counts the catalog entries an admin manages.
type ContentSummary struct {
	PracticeAreas       int `json:"practiceAreas"`
	ActivePracticeAreas int `json:"activePracticeAreas"`
	Testimonials        int `json:"testimonials"`
	Articles            int `json:"articles"`
}

// Summary is the dashboard response.
type Summary struct {
	Inquiries    inquirystore.Stats `json:"inquiries"`
	Recent       []models.Inquiry   `json:"recent"`
	Content      ContentSummary     `json:"content"`
	FailedLogins int                `json:"failedLogins24h"`
	Currency     string             `json:"currency"`
}

// MountRoutes adds the dashboard endpoint to r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dashboard", h.showDashboard)
}

func (h *Handler) showDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.inquiries.Stats(ctx)
	if err != nil {
		h.errLog.Log(r, "failed to load inquiry stats", err)
		jsonutil.InternalError(w, "failed to load dashboard")
		return
	}
	recent, err := h.inquiries.Recent(ctx, RecentCount)
	if err != nil {
		h.errLog.Log(r, "failed to load recent inquiries", err)
		jsonutil.InternalError(w, "failed to load dashboard")
		return
	}
	if recent == nil {
		recent = []models.Inquiry{}
	}

	out := Summary{
		Inquiries: stats,
		Recent:    recent,
		Content:   h.contentSummary(),
	}
	if s, ok := contentsync.Get[models.SettingsContent](h.content, models.SectionSettings); ok {
		out.Currency = s.Currency
	}

	// Failed logins are informational; the dashboard still loads without them.
	if h.audit != nil {
		n, err := h.audit.CountFailedLogins(ctx, time.Now().Add(-failedLoginWindow))
		if err != nil {
			h.logger.Warn("failed to count failed logins", zap.Error(err))
		} else {
			out.FailedLogins = int(n)
		}
	}

	jsonutil.OK(w, out)
}

func (h *Handler) contentSummary() ContentSummary {
	var cs ContentSummary
	if p, ok := contentsync.Get[models.PracticeAreasContent](h.content, models.SectionPracticeAreas); ok {
		cs.PracticeAreas = len(p.Items)
		cs.ActivePracticeAreas = len(p.Active())
	}
	if t, ok := contentsync.Get[models.TestimonialsContent](h.content, models.SectionTestimonials); ok {
		cs.Testimonials = len(t.Items)
	}
	if k, ok := contentsync.Get[models.KnowledgeContent](h.content, models.SectionKnowledge); ok {
		cs.Articles = len(k.Articles)
	}
	return cs
}
