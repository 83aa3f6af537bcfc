// internal/app/features/pages/pages.go
package pages

import (
	"errors"
	"net/http"
	"strings"

	errorsfeature "github.com/advocatechambers/lawsite/internal/app/features/errors"
	pagestore "github.com/advocatechambers/lawsite/internal/app/store/pages"
	"github.com/advocatechambers/lawsite/internal/app/system/auditlog"
	"github.com/advocatechambers/lawsite/internal/app/system/auth"
	"github.com/advocatechambers/lawsite/internal/app/system/htmlsanitize"
	"github.com/advocatechambers/lawsite/internal/app/system/jsonutil"
	"github.com/advocatechambers/lawsite/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MaxContentLength is the maximum allowed length for page content (100KB).
const MaxContentLength = 100000

// MaxTitleLength bounds page titles.
const MaxTitleLength = 200

// Handler provides legal page handlers.
type Handler struct {
	pageStore   *pagestore.Store
	errLog      *errorsfeature.ErrorLogger
	auditLogger *auditlog.Logger
	logger      *zap.Logger
}

// NewHandler creates a new pages Handler.
func NewHandler(db *mongo.Database, errLog *errorsfeature.ErrorLogger, auditLogger *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		pageStore:   pagestore.New(db),
		errLog:      errLog,
		auditLogger: auditLogger,
		logger:      logger,
	}
}

// MountPublicRoutes adds the visitor endpoint to r.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Get("/pages/{slug}", h.showPage)
}

// MountRoutes adds the admin endpoints to r. Callers wrap r with RequireAdmin.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/pages", h.listPages)
	r.Get("/pages/{slug}", h.editPage)
	r.Put("/pages/{slug}", h.updatePage)
}

// pageDisplayName returns a human-friendly name for a page slug.
func pageDisplayName(slug string) string {
	switch slug {
	case models.PageSlugPrivacy:
		return "Privacy Policy"
	case models.PageSlugTerms:
		return "Terms of Service"
	case models.PageSlugDisclaimer:
		return "Disclaimer"
	default:
		return slug
	}
}

// showPage returns a page for display. Plain-text content is converted to
// HTML; a page never edited is 404.
func (h *Handler) showPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !models.IsValidPageSlug(slug) {
		jsonutil.NotFound(w, "page not found")
		return
	}

	page, err := h.pageStore.GetBySlug(r.Context(), slug)
	if errors.Is(err, pagestore.ErrNotFound) {
		jsonutil.NotFound(w, "page not found")
		return
	}
	if err != nil {
		h.errLog.Log(r, "failed to get page", err)
		jsonutil.InternalError(w, "failed to load page")
		return
	}

	page.Content = htmlsanitize.PrepareForDisplay(page.Content)
	page.UpdatedBy = ""
	jsonutil.OK(w, page)
}

// PageSummary is one row of the admin page list.
type PageSummary struct {
	Slug string       `json:"slug"`
	Name string       `json:"name"`
	Page *models.Page `json:"page,omitempty"`
}

// listPages returns every editable page, stored or not.
func (h *Handler) listPages(w http.ResponseWriter, r *http.Request) {
	stored, err := h.pageStore.GetAll(r.Context())
	if err != nil {
		h.errLog.Log(r, "failed to list pages", err)
		jsonutil.InternalError(w, "failed to list pages")
		return
	}
	bySlug := make(map[string]models.Page, len(stored))
	for _, p := range stored {
		bySlug[p.Slug] = p
	}

	out := make([]PageSummary, 0, len(models.AllPageSlugs()))
	for _, slug := range models.AllPageSlugs() {
		row := PageSummary{Slug: slug, Name: pageDisplayName(slug)}
		if p, ok := bySlug[slug]; ok {
			row.Page = &p
		}
		out = append(out, row)
	}
	jsonutil.OK(w, out)
}

// editPage returns a page as stored, for editing.
func (h *Handler) editPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !models.IsValidPageSlug(slug) {
		jsonutil.NotFound(w, "page not found")
		return
	}

	page, err := h.pageStore.GetBySlug(r.Context(), slug)
	if errors.Is(err, pagestore.ErrNotFound) {
		jsonutil.OK(w, models.Page{Slug: slug, Title: pageDisplayName(slug)})
		return
	}
	if err != nil {
		h.errLog.Log(r, "failed to get page for edit", err)
		jsonutil.InternalError(w, "failed to load page")
		return
	}
	jsonutil.OK(w, page)
}

type updateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// updatePage saves changes to a page. Content is sanitized HTML.
func (h *Handler) updatePage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !models.IsValidPageSlug(slug) {
		jsonutil.NotFound(w, "page not found")
		return
	}

	var req updateRequest
	if err := jsonutil.DecodeStrict(w, r, &req); err != nil {
		jsonutil.DecodeFailed(w, err)
		return
	}

	fields := map[string]string{}
	title := htmlsanitize.PlainText(strings.TrimSpace(req.Title))
	if title == "" {
		fields["title"] = "is required"
	} else if len(title) > MaxTitleLength {
		fields["title"] = "is too long"
	}
	if len(req.Content) > MaxContentLength {
		fields["content"] = "is too long; maximum length is 100,000 characters"
	}
	if len(fields) > 0 {
		jsonutil.ValidationError(w, fields)
		return
	}

	actor := auth.Actor(r)
	page := models.Page{
		Slug:      slug,
		Title:     title,
		Content:   htmlsanitize.Sanitize(req.Content),
		UpdatedBy: actor,
	}
	saved, err := h.pageStore.Save(r.Context(), page)
	if err != nil {
		h.errLog.Log(r, "failed to update page", err)
		jsonutil.InternalError(w, "failed to save page")
		return
	}
	h.auditLogger.PageUpdated(r, actor, slug)

	jsonutil.OK(w, saved)
}
