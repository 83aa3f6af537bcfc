package dashboard

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	errorsfeature "github.com/advocatechambers/lawsite/internal/app/features/errors"
	inquirystore "github.com/advocatechambers/lawsite/internal/app/store/inquiries"
	"github.com/advocatechambers/lawsite/internal/domain/models"
	"github.com/advocatechambers/lawsite/internal/testutil"
	"github.com/advocatechambers/lawsite/internal/testutil/contenttest"
	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeInquiries struct {
	stats    inquirystore.Stats
	recent   []models.Inquiry
	err      error
	lastRecN int64
}

func (f *fakeInquiries) Stats(context.Context) (inquirystore.Stats, error) {
	return f.stats, f.err
}

func (f *fakeInquiries) Recent(_ context.Context, n int64) ([]models.Inquiry, error) {
	f.lastRecN = n
	return f.recent, nil
}

type fakeAudit struct {
	n   int64
	err error
}

func (f fakeAudit) CountFailedLogins(context.Context, time.Time) (int64, error) {
	return f.n, f.err
}

func serve(t *testing.T, h *Handler) *testutil.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	h.MountRoutes(r)
	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard", testutil.AdminUser()))
	return rec
}

func TestDashboard(t *testing.T) {
	svc, _ := contenttest.Start(t)
	inq := &fakeInquiries{
		stats: inquirystore.Stats{
			Total: 3,
			ByStatus: map[models.InquiryStatus]int64{
				models.InquiryPending:   1,
				models.InquiryResponded: 1,
				models.InquiryClosed:    1,
			},
			Revenue: 998,
		},
		recent: []models.Inquiry{{ID: primitive.NewObjectID(), FullName: "Asha Rao"}},
	}
	logger := zap.NewNop()
	h := NewHandler(svc, inq, fakeAudit{n: 2}, errorsfeature.NewErrorLogger(logger), logger)

	rec := serve(t, h)
	rec.AssertStatus(t, http.StatusOK)

	var got Summary
	rec.DecodeJSON(t, &got)

	if diff := cmp.Diff(inq.stats, got.Inquiries); diff != "" {
		t.Errorf("inquiry stats mismatch (-want +got):\n%s", diff)
	}
	if inq.lastRecN != RecentCount {
		t.Errorf("Recent(n) n = %d, want %d", inq.lastRecN, RecentCount)
	}
	if len(got.Recent) != 1 || got.Recent[0].FullName != "Asha Rao" {
		t.Errorf("recent = %+v", got.Recent)
	}
	if got.FailedLogins != 2 {
		t.Errorf("FailedLogins = %d, want 2", got.FailedLogins)
	}
	if got.Currency != models.DefaultCurrency {
		t.Errorf("Currency = %q, want %q", got.Currency, models.DefaultCurrency)
	}

	areas := models.DefaultSection(models.SectionPracticeAreas).(*models.PracticeAreasContent)
	want := ContentSummary{
		PracticeAreas:       len(areas.Items),
		ActivePracticeAreas: len(areas.Active()),
		Testimonials:        len(models.DefaultSection(models.SectionTestimonials).(*models.TestimonialsContent).Items),
		Articles:            len(models.DefaultSection(models.SectionKnowledge).(*models.KnowledgeContent).Articles),
	}
	if diff := cmp.Diff(want, got.Content); diff != "" {
		t.Errorf("content summary mismatch (-want +got):\n%s", diff)
	}
}

func TestDashboard_WithoutAuditStore(t *testing.T) {
	svc, _ := contenttest.Start(t)
	logger := zap.NewNop()
	h := NewHandler(svc, &fakeInquiries{}, nil, errorsfeature.NewErrorLogger(logger), logger)

	rec := serve(t, h)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"recent":[]`)
}

func TestDashboard_AuditErrorIsNotFatal(t *testing.T) {
	svc, _ := contenttest.Start(t)
	logger := zap.NewNop()
	h := NewHandler(svc, &fakeInquiries{}, fakeAudit{err: errors.New("boom")}, errorsfeature.NewErrorLogger(logger), logger)

	rec := serve(t, h)
	rec.AssertStatus(t, http.StatusOK)
}

func TestDashboard_StatsError(t *testing.T) {
	svc, _ := contenttest.Start(t)
	logger := zap.NewNop()
	h := NewHandler(svc, &fakeInquiries{err: errors.New("db down")}, nil, errorsfeature.NewErrorLogger(logger), logger)

	rec := serve(t, h)
	rec.AssertStatus(t, http.StatusInternalServerError)
}
