// internal/app/features/site/site.go
package site

import (
	"net/http"
	"strconv"
	"sync"

	errorsfeature "github.com/advocatechambers/lawsite/internal/app/features/errors"
	"github.com/advocatechambers/lawsite/internal/app/system/contentsync"
	"github.com/advocatechambers/lawsite/internal/app/system/jsonutil"
	"github.com/advocatechambers/lawsite/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// footerAreas is how many practice areas the footer lists.
const footerAreas = 5

// Handler serves the public content API.
type Handler struct {
	content *contentsync.Service
	errLog  *errorsfeature.ErrorLogger
	logger  *zap.Logger

	// Rendered knowledge section, reused until the section changes.
	knowledgeMu      sync.Mutex
	knowledgeVersion uint64
	knowledge        *models.KnowledgeContent
}

// NewHandler creates a new site Handler.
func NewHandler(content *contentsync.Service, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		content: content,
		errLog:  errLog,
		logger:  logger,
	}
}

// MountRoutes adds the public content endpoints to r. Callers wrap r with
// RequireReady.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/content", h.all)
	r.Get("/content/{section}", h.section)
	r.Get("/practice-areas", h.practiceAreas)
	r.Get("/practice-areas/{slug}", h.practiceArea)
	r.Get("/knowledge", h.knowledgeBase)
	r.Get("/knowledge/{id}", h.article)
	r.Get("/testimonials", h.testimonials)
	r.Get("/footer", h.footer)
}

// Readiness is satisfied by *contentsync.Service.
type Readiness interface {
	IsReady() bool
}

// RequireReady answers 503 until the content tree has loaded.
func RequireReady(content Readiness) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !content.IsReady() {
				w.Header().Set("Retry-After", "1")
				jsonutil.ServiceUnavailable(w, "not_ready")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) all(w http.ResponseWriter, r *http.Request) {
	snap := h.content.Snapshot()
	var out models.SiteContent
	for _, sec := range models.AllSections() {
		v := snap.Get(sec)
		if !snap.Has(sec) {
			continue
		}
		_ = out.Set(sec, h.public(r, sec, v))
	}
	jsonutil.OK(w, out)
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
	jsonutil.OK(w, h.public(r, sec, v))
}

// public returns the visitor-facing projection of a section value.
func (h *Handler) public(r *http.Request, sec models.Section, v any) any {
	switch sec {
	case models.SectionSettings:
		s := v.(*models.SettingsContent).Redacted()
		return &s
	case models.SectionPracticeAreas:
		return activeAreas(v.(*models.PracticeAreasContent))
	case models.SectionTestimonials:
		return clampedTestimonials(v.(*models.TestimonialsContent))
	case models.SectionKnowledge:
		return h.renderedKnowledge(r)
	}
	return v
}

func activeAreas(p *models.PracticeAreasContent) *models.PracticeAreasContent {
	out := *p
	out.Items = p.Active()
	return &out
}

func clampedTestimonials(t *models.TestimonialsContent) *models.TestimonialsContent {
	out := *t
	out.Items = make([]models.TestimonialItem, len(t.Items))
	for i, it := range t.Items {
		it.Rating = models.ClampRating(it.Rating)
		out.Items[i] = it
	}
	return &out
}

// renderedKnowledge returns the knowledge section with article bodies
// converted from Markdown to sanitized HTML.
func (h *Handler) renderedKnowledge(r *http.Request) *models.KnowledgeContent {
	version := h.content.Version(models.SectionKnowledge)

	h.knowledgeMu.Lock()
	defer h.knowledgeMu.Unlock()
	if h.knowledge != nil && h.knowledgeVersion == version {
		return h.knowledge
	}

	src, ok := contentsync.Get[models.KnowledgeContent](h.content, models.SectionKnowledge)
	if !ok {
		return nil
	}
	out := *src
	out.Articles = make([]models.ArticleItem, len(src.Articles))
	for i, a := range src.Articles {
		a.Content = renderArticle(a.Content, func(err error) {
			h.errLog.LogWithFields(r, "render article failed", err, zap.Int("article_id", a.ID))
		})
		out.Articles[i] = a
	}
	h.knowledge = &out
	h.knowledgeVersion = version
	return h.knowledge
}

func (h *Handler) practiceAreas(w http.ResponseWriter, r *http.Request) {
	p, ok := contentsync.Get[models.PracticeAreasContent](h.content, models.SectionPracticeAreas)
	if !ok {
		jsonutil.ServiceUnavailable(w, "section unavailable")
		return
	}
	jsonutil.OK(w, activeAreas(p))
}

func (h *Handler) practiceArea(w http.ResponseWriter, r *http.Request) {
	p, ok := contentsync.Get[models.PracticeAreasContent](h.content, models.SectionPracticeAreas)
	if !ok {
		jsonutil.ServiceUnavailable(w, "section unavailable")
		return
	}
	i := p.Find(chi.URLParam(r, "slug"))
	if i < 0 || !p.Items[i].IsActive {
		jsonutil.NotFound(w, "practice area not found")
		return
	}
	jsonutil.OK(w, p.Items[i])
}

func (h *Handler) knowledgeBase(w http.ResponseWriter, r *http.Request) {
	k := h.renderedKnowledge(r)
	if k == nil {
		jsonutil.ServiceUnavailable(w, "section unavailable")
		return
	}
	jsonutil.OK(w, k)
}

func (h *Handler) article(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.NotFound(w, "article not found")
		return
	}
	k := h.renderedKnowledge(r)
	if k == nil {
		jsonutil.ServiceUnavailable(w, "section unavailable")
		return
	}
	for _, a := range k.Articles {
		if a.ID == id {
			jsonutil.OK(w, a)
			return
		}
	}
	jsonutil.NotFound(w, "article not found")
}

func (h *Handler) testimonials(w http.ResponseWriter, r *http.Request) {
	t, ok := contentsync.Get[models.TestimonialsContent](h.content, models.SectionTestimonials)
	if !ok {
		jsonutil.ServiceUnavailable(w, "section unavailable")
		return
	}
	jsonutil.OK(w, clampedTestimonials(t))
}

// FooterArea is a practice area link in the footer.
type FooterArea struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// FooterContact is the footer's contact block.
type FooterContact struct {
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	OfficePhone string `json:"officePhone"`
	Email       string `json:"email"`
	Hours       string `json:"hours"`
}

// Footer is the site-wide footer view model.
type Footer struct {
	FirmName      string        `json:"firmName"`
	AdvocateName  string        `json:"advocateName"`
	Contact       FooterContact `json:"contact"`
	PracticeAreas []FooterArea  `json:"practiceAreas"`
}

func (h *Handler) footer(w http.ResponseWriter, r *http.Request) {
	var f Footer
	if s, ok := contentsync.Get[models.SettingsContent](h.content, models.SectionSettings); ok {
		f.FirmName = s.FirmName
		f.AdvocateName = s.AdvocateName
	}
	if c, ok := contentsync.Get[models.ContactContent](h.content, models.SectionContact); ok {
		f.Contact = FooterContact{
			Address:     c.Address,
			Phone:       c.Phone,
			OfficePhone: c.OfficePhone,
			Email:       c.Email,
			Hours:       c.Hours,
		}
	}
	f.PracticeAreas = []FooterArea{}
	if p, ok := contentsync.Get[models.PracticeAreasContent](h.content, models.SectionPracticeAreas); ok {
		for _, a := range p.Active() {
			if len(f.PracticeAreas) == footerAreas {
				break
			}
			f.PracticeAreas = append(f.PracticeAreas, FooterArea{ID: a.ID, Title: a.Title})
		}
	}
	jsonutil.OK(w, f)
}
