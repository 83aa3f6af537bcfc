package booking

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	errorsfeature "github.com/advocatechambers/lawsite/internal/app/features/errors"
	"github.com/advocatechambers/lawsite/internal/app/system/contentsync"
	"github.com/advocatechambers/lawsite/internal/app/system/mailer"
	"github.com/advocatechambers/lawsite/internal/domain/models"
	"github.com/advocatechambers/lawsite/internal/testutil"
	"github.com/advocatechambers/lawsite/internal/testutil/contenttest"
)

type fakeStore struct {
	mu      sync.Mutex
	created []models.Inquiry
	err     error
}

func (f *fakeStore) Create(_ context.Context, in models.Inquiry) (models.Inquiry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.Inquiry{}, f.err
	}
	in.ID = primitive.NewObjectID()
	in.Reference = "ref-" + in.ID.Hex()
	f.created = append(f.created, in)
	return in, nil
}

type fakeSender struct {
	enabled bool
	sent    chan mailer.Email
}

func (f *fakeSender) Enabled() bool { return f.enabled }
func (f *fakeSender) Send(e mailer.Email) error {
	f.sent <- e
	return nil
}

func newRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", h.MountRoutes)
	return r
}

func newHandler(t *testing.T, svc *contentsync.Service, store InquiryCreator, mail mailer.Sender) *Handler {
	t.Helper()
	return NewHandler(svc, store, mail, "https://admin.example/admin/", errorsfeature.NewErrorLogger(zap.NewNop()), zap.NewNop())
}

func validInput() map[string]string {
	return map[string]string{
		"fullName":    "  Asha   Rao ",
		"mobile":      "+91 98765 43210",
		"email":       "Asha@Example.com",
		"city":        "Pune",
		"category":    "Family Law",
		"description": "Need advice on <b>custody</b>.",
	}
}

func submit(t *testing.T, h *Handler, body any) *testutil.ResponseRecorder {
	t.Helper()
	rec := testutil.NewRecorder()
	newRouter(h).ServeHTTP(rec, testutil.NewJSONRequest(http.MethodPost, "/api/inquiries", body))
	return rec
}

func TestBookingPage(t *testing.T) {
	svc, mem := contenttest.Start(t)
	areas := models.DefaultSection(models.SectionPracticeAreas).(*models.PracticeAreasContent)
	areas.Items[1].IsActive = false
	contenttest.Put(t, svc, mem, models.SectionPracticeAreas, areas)

	rec := testutil.NewRecorder()
	newRouter(newHandler(t, svc, &fakeStore{}, nil)).ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/api/booking"))
	require.Equal(t, http.StatusOK, rec.Code)

	var vm PageVM
	rec.DecodeJSON(t, &vm)
	assert.Equal(t, float64(models.DefaultInquiryFee), vm.Fee)
	assert.Equal(t, models.DefaultCurrency, vm.Currency)
	assert.NotContains(t, vm.Categories, areas.Items[1].Title)
	assert.Equal(t, models.InquiryOtherCategory, vm.Categories[len(vm.Categories)-1])
	assert.Len(t, vm.Categories, len(areas.Items))
}

func TestSubmit_CreatesInquiry(t *testing.T) {
	svc, mem := contenttest.Start(t)
	settings := models.DefaultSection(models.SectionSettings).(*models.SettingsContent)
	settings.InquiryFee = 750
	settings.Currency = "USD"
	contenttest.Put(t, svc, mem, models.SectionSettings, settings)

	store := &fakeStore{}
	rec := submit(t, newHandler(t, svc, store, nil), validInput())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var receipt Receipt
	rec.DecodeJSON(t, &receipt)
	assert.NotEmpty(t, receipt.Reference)
	assert.Equal(t, models.InquiryPending, receipt.Status)
	assert.Equal(t, models.PaymentCompleted, receipt.PaymentStatus)
	assert.Equal(t, 750.0, receipt.Amount)
	assert.Equal(t, "USD", receipt.Currency)

	require.Len(t, store.created, 1)
	got := store.created[0]
	assert.Equal(t, "Asha Rao", got.FullName)
	assert.Equal(t, "asha@example.com", got.Email)
	assert.Equal(t, "Need advice on custody.", got.Description)
	assert.Equal(t, 750.0, got.Amount)
}

func TestSubmit_FeeChangeAppliesToNewInquiriesOnly(t *testing.T) {
	svc, mem := contenttest.Start(t)
	store := &fakeStore{}
	h := newHandler(t, svc, store, nil)

	rec := submit(t, h, validInput())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	settings, ok := contentsync.Get[models.SettingsContent](svc, models.SectionSettings)
	require.True(t, ok)
	require.EqualValues(t, 499, settings.InquiryFee)
	next := *settings
	next.InquiryFee = 999
	contenttest.Put(t, svc, mem, models.SectionSettings, &next)

	rec = submit(t, h, validInput())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.Len(t, store.created, 2)
	assert.Equal(t, 499.0, store.created[0].Amount, "earlier inquiry keeps its price")
	assert.Equal(t, 999.0, store.created[1].Amount)
	assert.Equal(t, settings.Currency, store.created[1].Currency)
}

func TestSubmit_OtherCategory(t *testing.T) {
	svc, _ := contenttest.Start(t)
	in := validInput()
	in["category"] = models.InquiryOtherCategory

	rec := submit(t, newHandler(t, svc, &fakeStore{}, nil), in)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestSubmit_Validation(t *testing.T) {
	svc, _ := contenttest.Start(t)

	tests := []struct {
		name  string
		edit  func(map[string]string)
		field string
	}{
		{"missing name", func(m map[string]string) { m["fullName"] = " " }, "fullName"},
		{"markup-only name", func(m map[string]string) { m["fullName"] = "<i></i>" }, "fullName"},
		{"bad email", func(m map[string]string) { m["email"] = "not-an-email" }, "email"},
		{"bad mobile", func(m map[string]string) { m["mobile"] = "12" }, "mobile"},
		{"missing description", func(m map[string]string) { m["description"] = "" }, "description"},
		{"unknown category", func(m map[string]string) { m["category"] = "Maritime Law" }, "category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			in := validInput()
			tt.edit(in)

			rec := submit(t, newHandler(t, svc, store, nil), in)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body struct {
				Fields map[string]string `json:"fields"`
			}
			rec.DecodeJSON(t, &body)
			assert.Contains(t, body.Fields, tt.field)
			assert.Empty(t, store.created)
		})
	}
}

func TestSubmit_RejectsUnknownFields(t *testing.T) {
	svc, _ := contenttest.Start(t)
	rec := submit(t, newHandler(t, svc, &fakeStore{}, nil), `{"fullName":"A","amount":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmit_StoreError(t *testing.T) {
	svc, _ := contenttest.Start(t)
	rec := submit(t, newHandler(t, svc, &fakeStore{err: errors.New("down")}, nil), validInput())
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSubmit_NotifiesInquiryEmail(t *testing.T) {
	svc, mem := contenttest.Start(t)
	contact := models.DefaultSection(models.SectionContact).(*models.ContactContent)
	contact.InquiryEmail = "desk@firm.example"
	contenttest.Put(t, svc, mem, models.SectionContact, contact)

	sender := &fakeSender{enabled: true, sent: make(chan mailer.Email, 1)}
	store := &fakeStore{}
	h := newHandler(t, svc, store, sender)

	rec := submit(t, h, validInput())
	require.Equal(t, http.StatusCreated, rec.Code)

	select {
	case e := <-sender.sent:
		assert.Equal(t, "desk@firm.example", e.To)
		assert.Equal(t, "asha@example.com", e.ReplyTo)
		assert.Contains(t, e.Subject, "Family Law")
		assert.Contains(t, e.TextBody, "https://admin.example/admin/inquiries/"+store.created[0].ID.Hex())
	case <-time.After(2 * time.Second):
		t.Fatal("notification not sent")
	}
}

func TestSubmit_NoNotificationWhenMailDisabled(t *testing.T) {
	svc, mem := contenttest.Start(t)
	contact := models.DefaultSection(models.SectionContact).(*models.ContactContent)
	contact.InquiryEmail = "desk@firm.example"
	contenttest.Put(t, svc, mem, models.SectionContact, contact)

	sender := &fakeSender{enabled: false, sent: make(chan mailer.Email, 1)}
	rec := submit(t, newHandler(t, svc, &fakeStore{}, sender), validInput())
	require.Equal(t, http.StatusCreated, rec.Code)

	select {
	case <-sender.sent:
		t.Fatal("mail sent while disabled")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "499.00 INR", FormatAmount(499, "INR"))
	assert.Equal(t, "12.50 USD", FormatAmount(12.5, "USD"))
}
