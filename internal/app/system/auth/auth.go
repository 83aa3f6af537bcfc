// Package auth manages the admin session cookie and the middleware that
// guards the admin surface.
//
// There is a single administrator identified by settings.adminEmail. The
// session stores that email; each request re-checks it against the current
// settings so a changed admin email signs out existing sessions.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/advocatechambers/lawsite/internal/app/system/jsonutil"
	"github.com/advocatechambers/lawsite/internal/app/system/normalize"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Session value keys.
const (
	adminEmailKey   = "admin_email"
	authMethodKey   = "auth_method"
	sessionTokenKey = "session_token"
	signedInAtKey   = "signed_in_at"
)

// RoleAdmin is the only role.
const RoleAdmin = "admin"

// LoginPath is where browser navigations are sent when not signed in.
const LoginPath = "/admin/login"

// DefaultSessionName is used when no cookie name is configured.
const DefaultSessionName = "lawsite-admin"

// SessionManager issues and reads the admin session cookie.
type SessionManager struct {
	store        *sessions.CookieStore
	logger       *zap.Logger
	name         string
	adminFetcher AdminFetcher
}

// MinSessionKeyLength is the shortest signing key accepted in production.
const MinSessionKeyLength = 32

// NewSessionManager creates a SessionManager signing cookies with
// sessionKey. An empty name means DefaultSessionName and an empty domain
// means the request host. With secure set, cookies are Secure and a weak
// key is an error; otherwise a weak key only logs a warning.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, &SessionConfigError{Message: "session key is empty; provide at least 32 random characters"}
	}
	if weakKey(sessionKey) {
		if secure {
			return nil, &SessionConfigError{Message: "session key is too weak for production; provide at least 32 random characters"}
		}
		logger.Warn("session key is weak; use 32+ random characters in production",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = DefaultSessionName
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		// Lax still sends the cookie on the top-level redirect back from
		// Google sign-in.
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge > 0 {
		store.MaxAge(int(maxAge.Seconds()))
	}

	logger.Info("session manager initialized",
		zap.Bool("secure", secure),
		zap.String("name", name),
		zap.String("domain", domain))

	return &SessionManager{store: store, logger: logger, name: name}, nil
}

// SessionConfigError is returned when session configuration is invalid.
type SessionConfigError struct {
	Message string
}

func (e *SessionConfigError) Error() string {
	return e.Message
}

// SessionName returns the configured session cookie name.
func (sm *SessionManager) SessionName() string {
	return sm.name
}

// SetAdminFetcher sets the AdminFetcher LoadSessionUser consults on every
// request. Without one, sessions are trusted as stored.
func (sm *SessionManager) SetAdminFetcher(af AdminFetcher) {
	sm.adminFetcher = af
}

// AdminFetcher resolves a session's email to the current administrator.
// Implementations return nil when the email is no longer the admin email.
type AdminFetcher interface {
	FetchAdmin(ctx context.Context, email string) *SessionUser
}

// AdminFetcherFunc adapts a function to AdminFetcher.
type AdminFetcherFunc func(ctx context.Context, email string) *SessionUser

// FetchAdmin calls f.
func (f AdminFetcherFunc) FetchAdmin(ctx context.Context, email string) *SessionUser {
	return f(ctx, email)
}

// SessionUser is the signed-in administrator.
type SessionUser struct {
	Email      string
	Name       string
	Role       string
	AuthMethod string // password or google
	Token      string
	SignedInAt time.Time
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the signed-in admin, if any.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// Actor returns the signed-in admin email, or "" when anonymous.
func Actor(r *http.Request) string {
	if u, ok := CurrentUser(r); ok {
		return u.Email
	}
	return ""
}

// LoadSessionUser puts the signed-in admin, if any, into the request
// context. An unreadable cookie is treated as signed out.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.store.Get(r, sm.name)
		if err != nil {
			sm.logSessionError(r, err)
		}

		email := getString(sess, adminEmailKey)
		if email == "" {
			next.ServeHTTP(w, r)
			return
		}
		u := &SessionUser{Email: email, Role: RoleAdmin}
		if sm.adminFetcher != nil {
			if u = sm.adminFetcher.FetchAdmin(r.Context(), email); u == nil {
				sm.logger.Info("session invalidated: no longer the admin",
					zap.String("email", email),
					zap.String("path", r.URL.Path))
				clearSession(sess)
				_ = sess.Save(r, w)
				next.ServeHTTP(w, r)
				return
			}
		}
		u.AuthMethod = getString(sess, authMethodKey)
		u.Token = getString(sess, sessionTokenKey)
		if at, ok := sess.Values[signedInAtKey].(int64); ok {
			u.SignedInAt = time.Unix(at, 0).UTC()
		}
		next.ServeHTTP(w, withUser(r, u))
	})
}

// logSessionError logs a cookie that could not be read. Expiry is routine;
// a bad MAC may be tampering.
func (sm *SessionManager) logSessionError(r *http.Request, err error) {
	level, reason := classifySessionError(err)
	if ce := sm.logger.Check(level, "session cookie rejected, starting fresh session"); ce != nil {
		ce.Write(
			zap.String("reason", reason),
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err))
	}
}

// RequireAdmin rejects requests without a signed-in admin. Browser
// navigations are redirected to LoginPath; API callers get a JSON 401.
func (sm *SessionManager) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := CurrentUser(r); ok && strings.EqualFold(u.Role, RoleAdmin) {
			next.ServeHTTP(w, r)
			return
		}

		if wantsHTML(r) {
			ret := url.QueryEscape(currentURI(r))
			http.Redirect(w, r, LoginPath+"?return="+ret, http.StatusSeeOther)
			return
		}
		jsonutil.Unauthorized(w, "sign in required")
	})
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestUser injects a SessionUser into the request context for testing.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func currentURI(r *http.Request) string {
	u := *r.URL
	return u.RequestURI()
}

// weakKey reports a key that is short or looks like a placeholder.
func weakKey(key string) bool {
	if len(key) < MinSessionKeyLength {
		return true
	}
	lower := strings.ToLower(key)
	for _, p := range []string{"dev-only", "change-me", "changeme", "placeholder", "default", "example", "insecure", "secret123", "password"} {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// classifySessionError maps a cookie decode failure to a log level and a
// short reason.
func classifySessionError(err error) (zapcore.Level, string) {
	var scErr securecookie.Error
	if !errors.As(err, &scErr) || !scErr.IsDecode() {
		return zapcore.ErrorLevel, "backend"
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "expired timestamp"):
		return zapcore.DebugLevel, "expired"
	case strings.Contains(msg, "mac"), strings.Contains(msg, "hash"):
		return zapcore.WarnLevel, "mac_invalid"
	case strings.Contains(msg, "decrypt"):
		return zapcore.InfoLevel, "decrypt_failed"
	default:
		return zapcore.InfoLevel, "decode_failed"
	}
}

func clearSession(sess *sessions.Session) {
	for _, k := range []string{adminEmailKey, authMethodKey, sessionTokenKey, signedInAtKey} {
		delete(sess.Values, k)
	}
}

// CreateSession signs the admin in. method records how they authenticated.
// Any previous session state is replaced.
func (sm *SessionManager) CreateSession(w http.ResponseWriter, r *http.Request, email, method string) error {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		sess, _ = sm.store.New(r, sm.name)
	}
	token, err := GenerateSessionToken()
	if err != nil {
		return err
	}

	clearSession(sess)
	sess.Values[adminEmailKey] = normalize.Email(email)
	sess.Values[authMethodKey] = method
	sess.Values[sessionTokenKey] = token
	sess.Values[signedInAtKey] = time.Now().Unix()
	return sess.Save(r, w)
}

// GenerateSessionToken returns 32 random bytes, URL-safe base64 encoded.
func GenerateSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// DestroySession signs the admin out and expires the cookie.
func (sm *SessionManager) DestroySession(w http.ResponseWriter, r *http.Request) {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		return
	}
	clearSession(sess)
	sess.Options.MaxAge = -1
	_ = sess.Save(r, w)
}
