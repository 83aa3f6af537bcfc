// internal/app/features/inquiries/inquiries.go
package inquiries

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	errorsfeature "github.com/advocatechambers/lawsite/internal/app/features/errors"
	inquirystore "github.com/advocatechambers/lawsite/internal/app/store/inquiries"
	"github.com/advocatechambers/lawsite/internal/app/store/storeutil"
	"github.com/advocatechambers/lawsite/internal/app/system/auditlog"
	"github.com/advocatechambers/lawsite/internal/app/system/auth"
	"github.com/advocatechambers/lawsite/internal/app/system/jsonutil"
	"github.com/advocatechambers/lawsite/internal/app/system/normalize"
	"github.com/advocatechambers/lawsite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is satisfied by *inquirystore.Store.
type Store interface {
	List(ctx context.Context, f inquirystore.Filter) ([]models.Inquiry, int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Inquiry, error)
	Advance(ctx context.Context, id primitive.ObjectID) (models.Inquiry, bool, error)
}

// Handler provides the admin inquiry endpoints.
type Handler struct {
	store       Store
	errLog      *errorsfeature.ErrorLogger
	auditLogger *auditlog.Logger
	logger      *zap.Logger
}

// NewHandler creates a new inquiries Handler.
func NewHandler(store Store, errLog *errorsfeature.ErrorLogger, auditLogger *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		store:       store,
		errLog:      errLog,
		auditLogger: auditLogger,
		logger:      logger,
	}
}

// MountRoutes adds the inquiry endpoints to r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/inquiries", h.list)
	r.Get("/inquiries/{id}", h.show)
	r.Post("/inquiries/{id}/advance", h.advance)
}

// ListResponse is one page of inquiries.
type ListResponse struct {
	Items []models.Inquiry `json:"items"`
	Total int64            `json:"total"`
	Page  int64            `json:"page"`
	Pages int64            `json:"pages"`
	Limit int64            `json:"limit"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	f := inquirystore.Filter{
		Status:   models.InquiryStatus(normalize.Keyword(query.Get(r, "status"))),
		Category: query.Get(r, "category"),
		Search:   query.Get(r, "q"),
	}
	if f.Status != "" && !f.Status.Valid() {
		jsonutil.ValidationError(w, map[string]string{"status": "must be pending, responded or closed"})
		return
	}
	if p, err := strconv.ParseInt(query.Get(r, "page"), 10, 64); err == nil {
		f.Page = p
	}
	if l, err := strconv.ParseInt(query.Get(r, "limit"), 10, 64); err == nil {
		f.Limit = l
	}
	f.Limit, f.Page = storeutil.Clamp(f.Limit, f.Page)

	items, total, err := h.store.List(r.Context(), f)
	if err != nil {
		h.errLog.Log(r, "failed to list inquiries", err)
		jsonutil.InternalError(w, "failed to list inquiries")
		return
	}
	jsonutil.OK(w, ListResponse{
		Items: items,
		Total: total,
		Page:  f.Page,
		Pages: storeutil.Pages(total, f.Limit),
		Limit: f.Limit,
	})
}

// inquiryID parses the id URL parameter. Malformed ids are reported as not found.
func inquiryID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.NotFound(w, "inquiry not found")
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := inquiryID(w, r)
	if !ok {
		return
	}
	inq, err := h.store.GetByID(r.Context(), id)
	if errors.Is(err, inquirystore.ErrNotFound) {
		jsonutil.NotFound(w, "inquiry not found")
		return
	}
	if err != nil {
		h.errLog.Log(r, "failed to load inquiry", err)
		jsonutil.InternalError(w, "failed to load inquiry")
		return
	}
	jsonutil.OK(w, inq)
}

// advance moves the inquiry one step forward. A closed inquiry is a conflict.
func (h *Handler) advance(w http.ResponseWriter, r *http.Request) {
	id, ok := inquiryID(w, r)
	if !ok {
		return
	}
	inq, changed, err := h.store.Advance(r.Context(), id)
	if errors.Is(err, inquirystore.ErrNotFound) {
		jsonutil.NotFound(w, "inquiry not found")
		return
	}
	if err != nil {
		h.errLog.Log(r, "failed to advance inquiry", err)
		jsonutil.InternalError(w, "failed to update inquiry")
		return
	}
	if !changed {
		jsonutil.Conflict(w, "inquiry is already closed")
		return
	}

	from := previousStatus(inq.Status)
	h.auditLogger.InquiryAdvanced(r, auth.Actor(r), inq.ID.Hex(), string(from), string(inq.Status))
	h.logger.Info("inquiry advanced",
		zap.String("inquiry_id", inq.ID.Hex()),
		zap.String("status", string(inq.Status)))
	jsonutil.OK(w, inq)
}

func previousStatus(s models.InquiryStatus) models.InquiryStatus {
	for _, p := range models.AllInquiryStatuses() {
		if n, ok := p.Next(); ok && n == s {
			return p
		}
	}
	return ""
}
