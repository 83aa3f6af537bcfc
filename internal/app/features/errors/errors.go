// internal/app/features/errors/errors.go
//
// Package errors holds the request-scoped error logger shared by handlers
// and the JSON fallbacks the router uses for unknown routes.
package errors

import (
	"net/http"

	"github.com/advocatechambers/lawsite/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger logs handler failures with the request's method, path and
// chi request ID attached.
type ErrorLogger struct {
	logger *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{logger: logger}
}

func (e *ErrorLogger) Log(r *http.Request, msg string, err error) {
	e.LogWithFields(r, msg, err)
}

func (e *ErrorLogger) LogWithFields(r *http.Request, msg string, err error, extra ...zap.Field) {
	fields := make([]zap.Field, 0, 4+len(extra))
	fields = append(fields, zap.Error(err), zap.String("method", r.Method), zap.String("path", r.URL.Path))
	if id := middleware.GetReqID(r.Context()); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	e.logger.Error(msg, append(fields, extra...)...)
}

// Handler answers unmatched routes with JSON instead of chi's plain text.
type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	jsonutil.NotFound(w, "not found")
}

func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	jsonutil.Error(w, http.StatusMethodNotAllowed, "method not allowed")
}
