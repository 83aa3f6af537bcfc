// internal/app/features/booking/booking.go
package booking

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	errorsfeature "github.com/advocatechambers/lawsite/internal/app/features/errors"
	"github.com/advocatechambers/lawsite/internal/app/system/contentsync"
	"github.com/advocatechambers/lawsite/internal/app/system/htmlsanitize"
	"github.com/advocatechambers/lawsite/internal/app/system/inputval"
	"github.com/advocatechambers/lawsite/internal/app/system/jsonutil"
	"github.com/advocatechambers/lawsite/internal/app/system/mailer"
	"github.com/advocatechambers/lawsite/internal/app/system/normalize"
	"github.com/advocatechambers/lawsite/internal/domain/models"
)

// notifyTimeout bounds the notification mail sent after a booking.
const notifyTimeout = 30 * time.Second

// InquiryCreator is satisfied by *inquiries.Store.
type InquiryCreator interface {
	Create(ctx context.Context, in models.Inquiry) (models.Inquiry, error)
}

// Handler serves the consultation booking flow.
type Handler struct {
	content  *contentsync.Service
	store    InquiryCreator
	mail     mailer.Sender
	adminURL string // base URL of the admin app, for links in mail
	errLog   *errorsfeature.ErrorLogger
	logger   *zap.Logger
}

// NewHandler creates a new booking Handler. mail may be nil.
func NewHandler(content *contentsync.Service, store InquiryCreator, mail mailer.Sender, adminURL string, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		content:  content,
		store:    store,
		mail:     mail,
		adminURL: strings.TrimRight(adminURL, "/"),
		errLog:   errLog,
		logger:   logger,
	}
}

// MountRoutes adds the booking endpoints to r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/booking", h.page)
	r.Post("/inquiries", h.submit)
}

// PageVM is the booking page view model.
type PageVM struct {
	Page       models.InquiryPageContent `json:"page"`
	Fee        float64                   `json:"fee"`
	Currency   string                    `json:"currency"`
	Categories []string                  `json:"categories"`
}

// categories lists the titles of active practice areas, then "Other".
func (h *Handler) categories() []string {
	out := []string{}
	if p, ok := contentsync.Get[models.PracticeAreasContent](h.content, models.SectionPracticeAreas); ok {
		for _, a := range p.Active() {
			out = append(out, a.Title)
		}
	}
	return append(out, models.InquiryOtherCategory)
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	vm := PageVM{Categories: h.categories()}
	if p, ok := contentsync.Get[models.InquiryPageContent](h.content, models.SectionInquiryPage); ok {
		vm.Page = *p
	}
	if s, ok := contentsync.Get[models.SettingsContent](h.content, models.SectionSettings); ok {
		vm.Fee = s.InquiryFee
		vm.Currency = s.Currency
	}
	jsonutil.OK(w, vm)
}

// InquiryInput is the booking form.
type InquiryInput struct {
	FullName    string `json:"fullName" validate:"required,max=200" label:"Full name"`
	Mobile      string `json:"mobile" validate:"required,phone" label:"Mobile number"`
	Email       string `json:"email" validate:"required,email,max=254" label:"Email"`
	City        string `json:"city" validate:"max=100" label:"City"`
	Category    string `json:"category" validate:"required" label:"Category"`
	Description string `json:"description" validate:"required,max=5000" label:"Description"`
}

// clean strips markup and normalizes whitespace and case.
func (in *InquiryInput) clean() {
	in.FullName = normalize.Name(htmlsanitize.PlainText(in.FullName))
	in.Mobile = normalize.Mobile(htmlsanitize.PlainText(in.Mobile))
	in.Email = normalize.Email(htmlsanitize.PlainText(in.Email))
	in.City = normalize.Name(htmlsanitize.PlainText(in.City))
	in.Category = strings.TrimSpace(htmlsanitize.PlainText(in.Category))
	in.Description = htmlsanitize.PlainText(in.Description)
}

// Receipt is returned once an inquiry is stored.
type Receipt struct {
	Reference     string               `json:"reference"`
	Status        models.InquiryStatus `json:"status"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	Amount        float64              `json:"amount"`
	Currency      string               `json:"currency"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var in InquiryInput
	if err := jsonutil.DecodeStrict(w, r, &in); err != nil {
		jsonutil.DecodeFailed(w, err)
		return
	}
	in.clean()

	if fields := inputval.Validate(in); fields != nil {
		jsonutil.ValidationError(w, fields)
		return
	}
	if !mapset.NewSet(h.categories()...).Contains(in.Category) {
		jsonutil.ValidationError(w, map[string]string{"category": "Category must be one of the offered practice areas."})
		return
	}

	settings, ok := contentsync.Get[models.SettingsContent](h.content, models.SectionSettings)
	if !ok {
		jsonutil.ServiceUnavailable(w, "settings unavailable")
		return
	}

	inq, err := h.store.Create(r.Context(), models.Inquiry{
		FullName:    in.FullName,
		Mobile:      in.Mobile,
		Email:       in.Email,
		City:        in.City,
		Category:    in.Category,
		Description: in.Description,
		Status:      models.InquiryPending,
		// No payment gateway: submission counts as payment.
		PaymentStatus: models.PaymentCompleted,
		Amount:        settings.InquiryFee,
		Currency:      settings.Currency,
	})
	if err != nil {
		h.errLog.Log(r, "create inquiry failed", err)
		jsonutil.InternalError(w, "could not save your request, please try again")
		return
	}

	h.logger.Info("inquiry received",
		zap.String("reference", inq.Reference),
		zap.String("category", inq.Category))

	h.notify(inq, settings.FirmName)

	jsonutil.Created(w, Receipt{
		Reference:     inq.Reference,
		Status:        inq.Status,
		PaymentStatus: inq.PaymentStatus,
		Amount:        inq.Amount,
		Currency:      inq.Currency,
	})
}

// notify mails the new inquiry to contact.inquiryEmail in the background.
func (h *Handler) notify(inq models.Inquiry, firmName string) {
	if h.mail == nil || !h.mail.Enabled() {
		return
	}
	c, ok := contentsync.Get[models.ContactContent](h.content, models.SectionContact)
	if !ok || c.InquiryEmail == "" {
		return
	}

	data := mailer.NewInquiryEmailData{
		FirmName:    firmName,
		Reference:   inq.Reference,
		FullName:    inq.FullName,
		Mobile:      inq.Mobile,
		Email:       inq.Email,
		City:        inq.City,
		Category:    inq.Category,
		Description: inq.Description,
		Amount:      FormatAmount(inq.Amount, inq.Currency),
	}
	if h.adminURL != "" {
		data.AdminURL = h.adminURL + "/inquiries/" + inq.ID.Hex()
	}
	subject, text, html := mailer.NewInquiryEmail(data)
	email := mailer.Email{
		To:       c.InquiryEmail,
		ReplyTo:  inq.Email,
		Subject:  subject,
		TextBody: text,
		HTMLBody: html,
	}

	go func() {
		done := make(chan error, 1)
		go func() { done <- h.mail.Send(email) }()

		var err error
		select {
		case err = <-done:
		case <-time.After(notifyTimeout):
			err = context.DeadlineExceeded
		}
		if err != nil {
			h.logger.Warn("inquiry notification failed",
				zap.String("reference", inq.Reference),
				zap.Error(err))
		}
	}()
}

// FormatAmount renders an amount with two decimals and its currency.
func FormatAmount(amount float64, currency string) string {
	return strconv.FormatFloat(amount, 'f', 2, 64) + " " + currency
}
