// internal/app/features/login/login.go
package login

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	errorsfeature "github.com/advocatechambers/lawsite/internal/app/features/errors"
	"github.com/advocatechambers/lawsite/internal/app/store/audit"
	"github.com/advocatechambers/lawsite/internal/app/store/ratelimit"
	"github.com/advocatechambers/lawsite/internal/app/system/auditlog"
	"github.com/advocatechambers/lawsite/internal/app/system/auth"
	"github.com/advocatechambers/lawsite/internal/app/system/authutil"
	"github.com/advocatechambers/lawsite/internal/app/system/contentsync"
	"github.com/advocatechambers/lawsite/internal/app/system/jsonutil"
	"github.com/advocatechambers/lawsite/internal/app/system/normalize"
	"github.com/advocatechambers/lawsite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// DefaultReturn is where the admin lands after signing in.
const DefaultReturn = "/admin"

// Handler provides the admin sign-in endpoints.
type Handler struct {
	content     *contentsync.Service
	limiter     ratelimit.Limiter // nil if rate limiting disabled
	sessionMgr  *auth.SessionManager
	auditLogger *auditlog.Logger
	errLog      *errorsfeature.ErrorLogger
	logger      *zap.Logger
}

// NewHandler creates a new login Handler. limiter can be nil to disable
// rate limiting.
func NewHandler(
	content *contentsync.Service,
	sessionMgr *auth.SessionManager,
	limiter ratelimit.Limiter,
	auditLogger *auditlog.Logger,
	errLog *errorsfeature.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		content:     content,
		limiter:     limiter,
		sessionMgr:  sessionMgr,
		auditLogger: auditLogger,
		errLog:      errLog,
		logger:      logger,
	}
}

// MountRoutes adds POST /login and GET /session to r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Get("/session", h.session)
}

// loginRequest is the JSON body for POST /login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Return   string `json:"return"`
}

// loginResponse tells the admin client where to go next.
type loginResponse struct {
	Email    string `json:"email"`
	ReturnTo string `json:"returnTo"`
}

// lockoutMessage tells the user how long to wait.
func lockoutMessage(lockedUntil *time.Time) string {
	if lockedUntil == nil {
		return "Too many failed login attempts. Please try again later."
	}
	remaining := time.Until(*lockedUntil)
	if remaining > time.Minute {
		return fmt.Sprintf("Too many failed login attempts. Please try again in %d minute(s).", int(remaining.Minutes())+1)
	}
	return fmt.Sprintf("Too many failed login attempts. Please try again in %d second(s).", int(remaining.Seconds())+1)
}

// handleLogin checks the credentials against the settings section.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := jsonutil.DecodeStrict(w, r, &req); err != nil {
		jsonutil.DecodeFailed(w, err)
		return
	}
	email := normalize.Email(req.Email)
	if email == "" || req.Password == "" {
		jsonutil.BadRequest(w, "email and password are required")
		return
	}

	// Check rate limit before processing
	if h.limiter != nil {
		if allowed, _, lockedUntil := h.limiter.CheckAllowed(r.Context(), email); !allowed {
			h.auditLogger.LoginRateLimited(r, email)
			w.Header().Set("Retry-After", retryAfter(lockedUntil))
			jsonutil.TooManyRequests(w, lockoutMessage(lockedUntil))
			return
		}
	}

	settings, ok := contentsync.Get[models.SettingsContent](h.content, models.SectionSettings)
	if !ok {
		jsonutil.ServiceUnavailable(w, "not_ready")
		return
	}

	if err := authutil.CheckAdminLogin(settings, email, req.Password); err != nil {
		eventType := audit.EventLoginFailedWrongPassword
		switch {
		case errors.Is(err, authutil.ErrNotConfigured):
			eventType = audit.EventLoginFailedNotConfigured
		case errors.Is(err, authutil.ErrUnknownEmail):
			eventType = audit.EventLoginFailedUnknownEmail
		}

		if h.limiter != nil {
			if lockedOut, lockedUntil := h.limiter.RecordFailure(r.Context(), email); lockedOut {
				h.auditLogger.LoginFailed(r, email, eventType, err.Error())
				w.Header().Set("Retry-After", retryAfter(lockedUntil))
				jsonutil.TooManyRequests(w, lockoutMessage(lockedUntil))
				return
			}
		}
		h.auditLogger.LoginFailed(r, email, eventType, err.Error())

		// The client cannot tell an unknown email from a wrong password.
		jsonutil.Unauthorized(w, "Invalid credentials")
		return
	}

	// Clear rate limit on successful login
	if h.limiter != nil {
		if err := h.limiter.ClearOnSuccess(r.Context(), email); err != nil {
			h.logger.Warn("clear login rate limit failed", zap.Error(err))
		}
	}

	if err := h.sessionMgr.CreateSession(w, r, email, "password"); err != nil {
		h.errLog.Log(r, "failed to create session", err)
		jsonutil.InternalError(w, "could not sign in")
		return
	}

	h.auditLogger.LoginSuccess(r, email, "password")

	jsonutil.OK(w, loginResponse{
		Email:    email,
		ReturnTo: urlutil.SafeReturn(req.Return, "", DefaultReturn),
	})
}

func retryAfter(lockedUntil *time.Time) string {
	if lockedUntil == nil {
		return "60"
	}
	secs := int(time.Until(*lockedUntil).Seconds()) + 1
	if secs < 1 {
		secs = 1
	}
	return fmt.Sprint(secs)
}

// SessionInfo describes the current admin session.
type SessionInfo struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
	AuthMethod    string `json:"authMethod,omitempty"`
	CSRFToken     string `json:"csrfToken"`
}

// session reports who is signed in and hands out the CSRF token the admin
// client must echo on writes.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	info := SessionInfo{CSRFToken: csrf.Token(r)}
	if u, ok := auth.CurrentUser(r); ok {
		info.Authenticated = true
		info.Email = u.Email
		info.AuthMethod = u.AuthMethod
	}
	w.Header().Set("Cache-Control", "no-store")
	jsonutil.OK(w, info)
}
