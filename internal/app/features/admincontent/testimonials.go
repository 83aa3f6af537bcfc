// internal/app/features/admincontent/testimonials.go
package admincontent

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/advocatechambers/lawsite/internal/app/system/auth"
	"github.com/advocatechambers/lawsite/internal/app/system/contentsync"
	"github.com/advocatechambers/lawsite/internal/app/system/jsonutil"
	"github.com/advocatechambers/lawsite/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) testimonials(w http.ResponseWriter) (*models.TestimonialsContent, bool) {
	cur, ok := contentsync.Get[models.TestimonialsContent](h.content, models.SectionTestimonials)
	if !ok {
		jsonutil.ServiceUnavailable(w, "section unavailable")
		return nil, false
	}
	next := *cur
	next.Items = slices.Clone(cur.Items)
	return &next, true
}

func findTestimonial(t *models.TestimonialsContent, id int) int {
	return slices.IndexFunc(t.Items, func(it models.TestimonialItem) bool { return it.ID == id })
}

func testimonialID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.NotFound(w, "testimonial not found")
		return 0, false
	}
	return id, true
}

func (h *Handler) listTestimonials(w http.ResponseWriter, r *http.Request) {
	t, ok := h.testimonials(w)
	if !ok {
		return
	}
	jsonutil.OK(w, t.Items)
}

func (h *Handler) createTestimonial(w http.ResponseWriter, r *http.Request) {
	var item models.TestimonialItem
	if err := jsonutil.DecodeStrict(w, r, &item); err != nil {
		jsonutil.DecodeFailed(w, err)
		return
	}
	t, ok := h.testimonials(w)
	if !ok {
		return
	}
	item.ID = t.NextID()
	t.Items = append(t.Items, item)

	before, ok := h.saveTestimonials(w, r, t, item.ID)
	if !ok {
		return
	}
	h.respondTestimonial(w, r, before, item.ID, http.StatusCreated)
}

func (h *Handler) updateTestimonial(w http.ResponseWriter, r *http.Request) {
	id, ok := testimonialID(w, r)
	if !ok {
		return
	}
	var item models.TestimonialItem
	if err := jsonutil.DecodeStrict(w, r, &item); err != nil {
		jsonutil.DecodeFailed(w, err)
		return
	}
	t, ok := h.testimonials(w)
	if !ok {
		return
	}
	i := findTestimonial(t, id)
	if i < 0 {
		jsonutil.NotFound(w, "testimonial not found")
		return
	}
	item.ID = id
	t.Items[i] = item

	before, ok := h.saveTestimonials(w, r, t, id)
	if !ok {
		return
	}
	h.respondTestimonial(w, r, before, id, http.StatusOK)
}

func (h *Handler) deleteTestimonial(w http.ResponseWriter, r *http.Request) {
	id, ok := testimonialID(w, r)
	if !ok {
		return
	}
	t, ok := h.testimonials(w)
	if !ok {
		return
	}
	i := findTestimonial(t, id)
	if i < 0 {
		jsonutil.NotFound(w, "testimonial not found")
		return
	}
	t.Items = slices.Delete(t.Items, i, i+1)

	before, ok := h.saveTestimonials(w, r, t, id)
	if !ok || !h.await(w, r, models.SectionTestimonials, before) {
		return
	}
	jsonutil.NoContent(w)
}

func (h *Handler) saveTestimonials(w http.ResponseWriter, r *http.Request, t *models.TestimonialsContent, id int) (uint64, bool) {
	before := h.content.Version(models.SectionTestimonials)
	if err := h.content.Replace(r.Context(), models.SectionTestimonials, t); err != nil {
		h.writeError(w, r, err)
		return 0, false
	}
	h.auditLogger.ContentUpdated(r, auth.Actor(r), models.SectionTestimonials.String(), "items."+strconv.Itoa(id))
	return before, true
}

func (h *Handler) respondTestimonial(w http.ResponseWriter, r *http.Request, before uint64, id int, status int) {
	if !h.await(w, r, models.SectionTestimonials, before) {
		return
	}
	cur, _ := contentsync.Get[models.TestimonialsContent](h.content, models.SectionTestimonials)
	i := findTestimonial(cur, id)
	if i < 0 {
		jsonutil.NotFound(w, "testimonial not found")
		return
	}
	jsonutil.JSON(w, status, cur.Items[i])
}
