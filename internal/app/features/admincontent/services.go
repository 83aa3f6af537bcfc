// internal/app/features/admincontent/services.go
package admincontent

import (
	"net/http"
	"slices"

	"github.com/advocatechambers/lawsite/internal/app/system/auth"
	"github.com/advocatechambers/lawsite/internal/app/system/contentsync"
	"github.com/advocatechambers/lawsite/internal/app/system/jsonutil"
	"github.com/advocatechambers/lawsite/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// practiceAreas returns a copy of the catalog that the caller may modify.
func (h *Handler) practiceAreas(w http.ResponseWriter) (*models.PracticeAreasContent, bool) {
	cur, ok := contentsync.Get[models.PracticeAreasContent](h.content, models.SectionPracticeAreas)
	if !ok {
		jsonutil.ServiceUnavailable(w, "section unavailable")
		return nil, false
	}
	next := *cur
	next.Items = slices.Clone(cur.Items)
	return &next, true
}

func (h *Handler) listServices(w http.ResponseWriter, r *http.Request) {
	p, ok := h.practiceAreas(w)
	if !ok {
		return
	}
	jsonutil.OK(w, p.Items)
}

func (h *Handler) createService(w http.ResponseWriter, r *http.Request) {
	var item models.PracticeAreaItem
	if err := jsonutil.DecodeStrict(w, r, &item); err != nil {
		jsonutil.DecodeFailed(w, err)
		return
	}
	if item.ID == "" {
		item.ID = models.Slugify(item.Title)
	}

	p, ok := h.practiceAreas(w)
	if !ok {
		return
	}
	if p.Find(item.ID) >= 0 {
		jsonutil.Conflict(w, "a practice area with this slug already exists")
		return
	}
	p.Items = append(p.Items, item)

	before, ok := h.saveAreas(w, r, p, item.ID)
	if !ok {
		return
	}
	h.respondArea(w, r, before, item.ID, http.StatusCreated)
}

func (h *Handler) updateService(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	var item models.PracticeAreaItem
	if err := jsonutil.DecodeStrict(w, r, &item); err != nil {
		jsonutil.DecodeFailed(w, err)
		return
	}
	if item.ID == "" {
		item.ID = slug
	}

	p, ok := h.practiceAreas(w)
	if !ok {
		return
	}
	i := p.Find(slug)
	if i < 0 {
		jsonutil.NotFound(w, "practice area not found")
		return
	}
	if item.ID != slug && p.Find(item.ID) >= 0 {
		jsonutil.Conflict(w, "a practice area with this slug already exists")
		return
	}
	p.Items[i] = item

	before, ok := h.saveAreas(w, r, p, item.ID)
	if !ok {
		return
	}
	h.respondArea(w, r, before, item.ID, http.StatusOK)
}

func (h *Handler) deleteService(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	p, ok := h.practiceAreas(w)
	if !ok {
		return
	}
	i := p.Find(slug)
	if i < 0 {
		jsonutil.NotFound(w, "practice area not found")
		return
	}
	p.Items = slices.Delete(p.Items, i, i+1)

	before, ok := h.saveAreas(w, r, p, slug)
	if !ok || !h.await(w, r, models.SectionPracticeAreas, before) {
		return
	}
	jsonutil.NoContent(w)
}

func (h *Handler) toggleService(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	p, ok := h.practiceAreas(w)
	if !ok {
		return
	}
	i := p.Find(slug)
	if i < 0 {
		jsonutil.NotFound(w, "practice area not found")
		return
	}
	p.Items[i].IsActive = !p.Items[i].IsActive

	before, ok := h.saveAreas(w, r, p, slug)
	if !ok {
		return
	}
	h.respondArea(w, r, before, slug, http.StatusOK)
}

// saveAreas writes the catalog. It returns the version the write replaces.
func (h *Handler) saveAreas(w http.ResponseWriter, r *http.Request, p *models.PracticeAreasContent, slug string) (uint64, bool) {
	before := h.content.Version(models.SectionPracticeAreas)
	if err := h.content.Replace(r.Context(), models.SectionPracticeAreas, p); err != nil {
		h.writeError(w, r, err)
		return 0, false
	}
	h.auditLogger.ContentUpdated(r, auth.Actor(r), models.SectionPracticeAreas.String(), "items."+slug)
	return before, true
}

func (h *Handler) respondArea(w http.ResponseWriter, r *http.Request, before uint64, slug string, status int) {
	if !h.await(w, r, models.SectionPracticeAreas, before) {
		return
	}
	cur, _ := contentsync.Get[models.PracticeAreasContent](h.content, models.SectionPracticeAreas)
	i := cur.Find(slug)
	if i < 0 {
		// Replaced by a concurrent write.
		jsonutil.NotFound(w, "practice area not found")
		return
	}
	jsonutil.JSON(w, status, cur.Items[i])
}
