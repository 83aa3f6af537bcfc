// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/advocatechambers/lawsite/internal/app/store/audit"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, logout, password).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for admin actions (content, settings, inquiries, pages, media).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
}

// Recorder persists audit events.
type Recorder interface {
	Log(ctx context.Context, event audit.Event) error
}

// Logger provides convenience methods for logging audit events.
// It logs to MongoDB (via a Recorder) and to structured logs (via zap).
type Logger struct {
	store  Recorder
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store Recorder, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request. For a forwarded
// chain only the first (client) address is kept.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.Actor != "" {
		fields = append(fields, zap.String("actor", event.Actor))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func (l *Logger) event(r *http.Request, category, eventType, actor string, success bool) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		Actor:     actor,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   success,
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful admin login.
func (l *Logger) LoginSuccess(r *http.Request, email, method string) {
	e := l.event(r, audit.CategoryAuth, audit.EventLoginSuccess, email, true)
	e.Details = map[string]string{"auth_method": method}
	l.Log(r.Context(), e)
}

// LoginFailed logs a rejected login. eventType is one of the
// audit.EventLoginFailed* constants.
func (l *Logger) LoginFailed(r *http.Request, attemptedEmail, eventType, reason string) {
	e := l.event(r, audit.CategoryAuth, eventType, attemptedEmail, false)
	e.FailureReason = reason
	l.Log(r.Context(), e)
}

// LoginRateLimited logs a login refused by the rate limiter.
func (l *Logger) LoginRateLimited(r *http.Request, attemptedEmail string) {
	e := l.event(r, audit.CategoryAuth, audit.EventLoginRateLimited, attemptedEmail, false)
	e.FailureReason = "too many attempts"
	l.Log(r.Context(), e)
}

// Logout logs an admin logout.
func (l *Logger) Logout(r *http.Request, email string) {
	l.Log(r.Context(), l.event(r, audit.CategoryAuth, audit.EventLogout, email, true))
}

// PasswordChanged logs a change of the admin password.
func (l *Logger) PasswordChanged(r *http.Request, actor string) {
	l.Log(r.Context(), l.event(r, audit.CategoryAuth, audit.EventPasswordChanged, actor, true))
}

// --- Admin Events ---

// ContentUpdated logs a content section write.
func (l *Logger) ContentUpdated(r *http.Request, actor, section, fieldsChanged string) {
	e := l.event(r, audit.CategoryAdmin, audit.EventContentUpdated, actor, true)
	e.Details = map[string]string{"section": section}
	if fieldsChanged != "" {
		e.Details["fields_changed"] = fieldsChanged
	}
	l.Log(r.Context(), e)
}

// ContentReset logs a reset of every section to defaults.
func (l *Logger) ContentReset(r *http.Request, actor string, err error) {
	e := l.event(r, audit.CategoryAdmin, audit.EventContentReset, actor, err == nil)
	if err != nil {
		e.FailureReason = err.Error()
	}
	l.Log(r.Context(), e)
}

// SettingsUpdated logs a settings change.
func (l *Logger) SettingsUpdated(r *http.Request, actor, fieldsChanged string) {
	e := l.event(r, audit.CategoryAdmin, audit.EventSettingsUpdated, actor, true)
	e.Details = map[string]string{"fields_changed": fieldsChanged}
	l.Log(r.Context(), e)
}

// InquiryAdvanced logs an inquiry status transition.
func (l *Logger) InquiryAdvanced(r *http.Request, actor, inquiryID, from, to string) {
	e := l.event(r, audit.CategoryAdmin, audit.EventInquiryAdvanced, actor, true)
	e.Details = map[string]string{"inquiry_id": inquiryID, "from": from, "to": to}
	l.Log(r.Context(), e)
}

// PageUpdated logs a legal page edit.
func (l *Logger) PageUpdated(r *http.Request, actor, pageSlug string) {
	e := l.event(r, audit.CategoryAdmin, audit.EventPageUpdated, actor, true)
	e.Details = map[string]string{"page_slug": pageSlug}
	l.Log(r.Context(), e)
}

// MediaUploaded logs an uploaded file.
func (l *Logger) MediaUploaded(r *http.Request, actor, path string, size int64) {
	e := l.event(r, audit.CategoryAdmin, audit.EventMediaUploaded, actor, true)
	e.Details = map[string]string{"path": path, "size": strconv.FormatInt(size, 10)}
	l.Log(r.Context(), e)
}
