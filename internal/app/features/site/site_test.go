package site

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	errorsfeature "github.com/advocatechambers/lawsite/internal/app/features/errors"
	"github.com/advocatechambers/lawsite/internal/app/system/contentsync"
	"github.com/advocatechambers/lawsite/internal/domain/models"
	"github.com/advocatechambers/lawsite/internal/testutil"
	"github.com/advocatechambers/lawsite/internal/testutil/contenttest"
)

func newRouter(svc *contentsync.Service) http.Handler {
	h := NewHandler(svc, errorsfeature.NewErrorLogger(zap.NewNop()), zap.NewNop())
	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		api.Use(RequireReady(svc))
		h.MountRoutes(api)
	})
	return r
}

func get(t *testing.T, h http.Handler, target string) *testutil.ResponseRecorder {
	t.Helper()
	rec := testutil.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNotReady(t *testing.T) {
	router := newRouter(contenttest.Unstarted())

	for _, path := range []string{"/api/content", "/api/content/hero", "/api/footer", "/api/testimonials"} {
		rec := get(t, router, path)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "not_ready", path)
	}
}

func TestAllContent_RedactsCredentials(t *testing.T) {
	svc, mem := contenttest.Start(t)
	settings := models.DefaultSection(models.SectionSettings).(*models.SettingsContent)
	settings.AdminEmail = "admin@firm.example"
	settings.AdminPassword = "$2a$12$hash"
	contenttest.Put(t, svc, mem, models.SectionSettings, settings)

	rec := get(t, newRouter(svc), "/api/content")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "admin@firm.example")
	assert.NotContains(t, rec.Body.String(), "$2a$12$hash")

	var got models.SiteContent
	rec.DecodeJSON(t, &got)
	for _, sec := range models.AllSections() {
		assert.True(t, got.Has(sec), "section %s missing", sec)
	}
	assert.Equal(t, float64(models.DefaultInquiryFee), got.Settings.InquiryFee)
}

func TestSection_ByPropertyOrKey(t *testing.T) {
	svc, _ := contenttest.Start(t)
	router := newRouter(svc)

	for _, name := range []string{"aboutSection", "about_section"} {
		rec := get(t, router, "/api/content/"+name)
		require.Equal(t, http.StatusOK, rec.Code, name)
		var got models.AboutSectionContent
		rec.DecodeJSON(t, &got)
		assert.Equal(t, "Adv. Arun Kumar", got.Name)
	}

	rec := get(t, router, "/api/content/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPracticeAreas_HidesInactive(t *testing.T) {
	svc, mem := contenttest.Start(t)
	areas := models.DefaultSection(models.SectionPracticeAreas).(*models.PracticeAreasContent)
	areas.Items[0].IsActive = false
	hidden := areas.Items[0].ID
	contenttest.Put(t, svc, mem, models.SectionPracticeAreas, areas)
	router := newRouter(svc)

	rec := get(t, router, "/api/practice-areas")
	require.Equal(t, http.StatusOK, rec.Code)
	var list models.PracticeAreasContent
	rec.DecodeJSON(t, &list)
	assert.Len(t, list.Items, len(areas.Items)-1)
	for _, it := range list.Items {
		assert.NotEqual(t, hidden, it.ID)
	}

	assert.Equal(t, http.StatusNotFound, get(t, router, "/api/practice-areas/"+hidden).Code)
	assert.Equal(t, http.StatusNotFound, get(t, router, "/api/practice-areas/unknown").Code)

	rec = get(t, router, "/api/practice-areas/civil")
	require.Equal(t, http.StatusOK, rec.Code)
	var area models.PracticeAreaItem
	rec.DecodeJSON(t, &area)
	assert.Equal(t, "Civil Litigation", area.Title)
}

func TestTestimonials_ClampRatings(t *testing.T) {
	svc, mem := contenttest.Start(t)
	// Records written before ratings were validated can hold anything.
	require.NoError(t, mem.Put(t.Context(), models.SectionTestimonials.Key(), &models.TestimonialsContent{
		Items: []models.TestimonialItem{
			{ID: 1, Name: "Low", Rating: 0},
			{ID: 2, Name: "High", Rating: 6},
			{ID: 3, Name: "Fine", Rating: 4},
		},
	}))
	require.Eventually(t, func() bool {
		v, ok := contentsync.Get[models.TestimonialsContent](svc, models.SectionTestimonials)
		return ok && len(v.Items) == 3
	}, contenttest.WaitFor, 5*time.Millisecond)

	rec := get(t, newRouter(svc), "/api/testimonials")
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.TestimonialsContent
	rec.DecodeJSON(t, &got)
	require.Len(t, got.Items, 3)
	assert.Equal(t, 1, got.Items[0].Rating)
	assert.Equal(t, 5, got.Items[1].Rating)
	assert.Equal(t, 4, got.Items[2].Rating)

	// The stored value is untouched.
	stored, _ := contentsync.Get[models.TestimonialsContent](svc, models.SectionTestimonials)
	assert.Equal(t, 0, stored.Items[0].Rating)
}

func TestKnowledge_RendersMarkdown(t *testing.T) {
	svc, mem := contenttest.Start(t)
	k := models.DefaultSection(models.SectionKnowledge).(*models.KnowledgeContent)
	k.Articles[0].Content = "## Types of bail\n\n* Regular\n* Interim\n\n<script>alert(1)</script>"
	contenttest.Put(t, svc, mem, models.SectionKnowledge, k)
	router := newRouter(svc)

	rec := get(t, router, "/api/knowledge/1")
	require.Equal(t, http.StatusOK, rec.Code)
	var a models.ArticleItem
	rec.DecodeJSON(t, &a)
	assert.Contains(t, a.Content, "<h2")
	assert.Contains(t, a.Content, "<li>Regular</li>")
	assert.NotContains(t, a.Content, "<script")

	assert.Equal(t, http.StatusNotFound, get(t, router, "/api/knowledge/999").Code)
	assert.Equal(t, http.StatusNotFound, get(t, router, "/api/knowledge/abc").Code)

	// A later edit is picked up rather than served from the rendered copy.
	k.Articles[0].Content = "Updated **text**"
	contenttest.Put(t, svc, mem, models.SectionKnowledge, k)
	rec = get(t, router, "/api/knowledge/1")
	rec.DecodeJSON(t, &a)
	assert.True(t, strings.Contains(a.Content, "<strong>text</strong>"), a.Content)
}

func TestFooter(t *testing.T) {
	svc, _ := contenttest.Start(t)

	rec := get(t, newRouter(svc), "/api/footer")
	require.Equal(t, http.StatusOK, rec.Code)
	var f Footer
	rec.DecodeJSON(t, &f)

	settings := models.DefaultSection(models.SectionSettings).(*models.SettingsContent)
	contact := models.DefaultSection(models.SectionContact).(*models.ContactContent)
	assert.Equal(t, settings.FirmName, f.FirmName)
	assert.Equal(t, contact.Phone, f.Contact.Phone)
	assert.Len(t, f.PracticeAreas, footerAreas)
	assert.Equal(t, "criminal", f.PracticeAreas[0].ID)
}
