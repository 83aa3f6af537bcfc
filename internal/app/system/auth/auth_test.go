package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const testKey = "this-is-a-32-character-long-key!"

func TestNewSessionManager(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name       string
		sessionKey string
		secure     bool
		wantErr    bool
	}{
		{"valid key dev mode", testKey, false, false},
		{"valid key prod mode", testKey, true, false},
		{"empty key", "", false, true},
		{"weak key dev mode", "short", false, false},
		{"weak key prod mode", "short", true, true},
		{"default key prod mode", "dev-only-session-key-not-for-production", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm, err := NewSessionManager(tt.sessionKey, "test-session", "", time.Hour, tt.secure, logger)

			if tt.wantErr {
				if err == nil {
					t.Error("NewSessionManager() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("NewSessionManager() error = %v", err)
			}
			if sm == nil {
				t.Error("NewSessionManager() returned nil")
			}
		})
	}
}

func TestSessionManager_SessionName(t *testing.T) {
	sm, _ := NewSessionManager(testKey, "", "", time.Hour, false, zap.NewNop())
	if sm.SessionName() != DefaultSessionName {
		t.Errorf("SessionName() = %q, want %q", sm.SessionName(), DefaultSessionName)
	}

	sm2, _ := NewSessionManager(testKey, "custom-session", "", time.Hour, false, zap.NewNop())
	if sm2.SessionName() != "custom-session" {
		t.Errorf("SessionName() = %q, want %q", sm2.SessionName(), "custom-session")
	}
}

func TestCurrentUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if user, ok := CurrentUser(req); ok || user != nil {
		t.Error("CurrentUser() should be empty for request without user")
	}
	if Actor(req) != "" {
		t.Errorf("Actor() = %q, want empty", Actor(req))
	}

	req = WithTestUser(req, &SessionUser{Email: "admin@example.com", Role: RoleAdmin})
	user, ok := CurrentUser(req)
	if !ok || user.Email != "admin@example.com" {
		t.Errorf("CurrentUser() = %+v, %v", user, ok)
	}
	if Actor(req) != "admin@example.com" {
		t.Errorf("Actor() = %q", Actor(req))
	}
}

// signIn runs CreateSession and returns the cookies it set.
func signIn(t *testing.T, sm *SessionManager, email string) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/admin/api/login", nil)
	if err := sm.CreateSession(rec, req, email, "password"); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("CreateSession() set no cookie")
	}
	return cookies
}

func TestLoadSessionUser_RoundTrip(t *testing.T) {
	sm, _ := NewSessionManager(testKey, "", "", time.Hour, false, zap.NewNop())
	admin := "admin@example.com"
	sm.SetAdminFetcher(AdminFetcherFunc(func(_ context.Context, email string) *SessionUser {
		if email != admin {
			return nil
		}
		return &SessionUser{Email: email, Name: "Advocate", Role: RoleAdmin}
	}))

	cookies := signIn(t, sm, "  Admin@Example.com ")

	var got *SessionUser
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentUser(r)
	}))

	req := httptest.NewRequest("GET", "/admin/api/session", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("no user loaded from session")
	}
	if got.Email != admin || got.AuthMethod != "password" || got.Token == "" {
		t.Errorf("user = %+v", got)
	}
	if time.Since(got.SignedInAt) > time.Minute {
		t.Errorf("SignedInAt = %v, want about now", got.SignedInAt)
	}
}

func TestLoadSessionUser_AdminChanged(t *testing.T) {
	sm, _ := NewSessionManager(testKey, "", "", time.Hour, false, zap.NewNop())
	sm.SetAdminFetcher(AdminFetcherFunc(func(context.Context, string) *SessionUser { return nil }))

	cookies := signIn(t, sm, "old@example.com")

	loaded := false
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, loaded = CurrentUser(r)
	}))
	req := httptest.NewRequest("GET", "/admin/api/session", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)

	if loaded {
		t.Error("session for a replaced admin email should not load")
	}
}

func TestRequireAdmin(t *testing.T) {
	sm, _ := NewSessionManager(testKey, "", "", time.Hour, false, zap.NewNop())
	called := false
	protected := sm.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	tests := []struct {
		name       string
		accept     string
		user       *SessionUser
		wantStatus int
		wantCalled bool
	}{
		{"api anonymous", "application/json", nil, http.StatusUnauthorized, false},
		{"browser anonymous", "text/html", nil, http.StatusSeeOther, false},
		{"admin", "application/json", &SessionUser{Email: "a@example.com", Role: RoleAdmin}, http.StatusOK, true},
		{"other role", "application/json", &SessionUser{Email: "a@example.com", Role: "viewer"}, http.StatusUnauthorized, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false
			req := httptest.NewRequest("GET", "/admin/api/content?x=1", nil)
			req.Header.Set("Accept", tt.accept)
			if tt.user != nil {
				req = WithTestUser(req, tt.user)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if called != tt.wantCalled {
				t.Errorf("called = %v, want %v", called, tt.wantCalled)
			}
			if tt.wantStatus == http.StatusSeeOther {
				loc := rec.Header().Get("Location")
				if !strings.HasPrefix(loc, LoginPath+"?return=") {
					t.Errorf("Location = %q", loc)
				}
			}
			if tt.wantStatus == http.StatusUnauthorized && !strings.Contains(rec.Body.String(), `"error"`) {
				t.Errorf("body = %q, want JSON error", rec.Body.String())
			}
		})
	}
}

func TestDestroySession(t *testing.T) {
	sm, _ := NewSessionManager(testKey, "", "", time.Hour, false, zap.NewNop())
	cookies := signIn(t, sm, "admin@example.com")

	req := httptest.NewRequest("POST", "/admin/api/logout", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	sm.DestroySession(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == sm.SessionName() && c.MaxAge >= 0 {
			t.Errorf("session cookie MaxAge = %d, want expired", c.MaxAge)
		}
	}
}

func TestWeakKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"short", true},
		{"dev-only-session-key-not-for-production", true},
		{"please-change-me-now-0123456789ab", true},
		{"k8f3!Qz0pX7mW2rT9vB4nL6yH1cJ5dGa", false},
		{testKey, false},
	}
	for _, tt := range tests {
		if got := weakKey(tt.key); got != tt.want {
			t.Errorf("weakKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestClassifySessionError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel zapcore.Level
		wantWhy   string
	}{
		{"expired", cookieErr{msg: "securecookie: expired timestamp", decode: true}, zapcore.DebugLevel, "expired"},
		{"mac", cookieErr{msg: "securecookie: the value is not valid (mac mismatch)", decode: true}, zapcore.WarnLevel, "mac_invalid"},
		{"hash", cookieErr{msg: "hash invalid", decode: true}, zapcore.WarnLevel, "mac_invalid"},
		{"decrypt", cookieErr{msg: "securecookie: decrypt failed", decode: true}, zapcore.InfoLevel, "decrypt_failed"},
		{"base64", cookieErr{msg: "illegal base64 data", decode: true}, zapcore.InfoLevel, "decode_failed"},
		{"not a decode error", cookieErr{msg: "usage", decode: false}, zapcore.ErrorLevel, "backend"},
		{"plain error", errors.New("boom"), zapcore.ErrorLevel, "backend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, why := classifySessionError(tt.err)
			if level != tt.wantLevel || why != tt.wantWhy {
				t.Errorf("classifySessionError() = %v, %q; want %v, %q", level, why, tt.wantLevel, tt.wantWhy)
			}
		})
	}
}

// cookieErr implements securecookie.Error.
type cookieErr struct {
	msg    string
	decode bool
}

func (e cookieErr) Error() string    { return e.msg }
func (e cookieErr) IsDecode() bool   { return e.decode }
func (e cookieErr) IsUsage() bool    { return !e.decode }
func (e cookieErr) IsInternal() bool { return false }
func (e cookieErr) Cause() error     { return nil }

func TestLoadSessionUser_TamperedCookie(t *testing.T) {
	sm, _ := NewSessionManager(testKey, "", "", time.Hour, false, zap.NewNop())
	cookies := signIn(t, sm, "admin@example.com")

	other, _ := NewSessionManager("another-32-character-signing-key", "", "", time.Hour, false, zap.NewNop())
	loaded := false
	h := other.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, loaded = CurrentUser(r)
	}))
	req := httptest.NewRequest("GET", "/admin/api/session", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)

	if loaded {
		t.Error("cookie signed with another key should not load")
	}
}

func TestGetString(t *testing.T) {
	sm, _ := NewSessionManager(testKey, "", "", time.Hour, false, zap.NewNop())
	sess, _ := sm.store.Get(httptest.NewRequest("GET", "/", nil), sm.name)

	sess.Values[adminEmailKey] = "a@example.com"
	sess.Values[signedInAtKey] = int64(42)
	if got := getString(sess, adminEmailKey); got != "a@example.com" {
		t.Errorf("getString() = %q", got)
	}
	if got := getString(sess, signedInAtKey); got != "" {
		t.Errorf("getString(non-string) = %q, want empty", got)
	}

	clearSession(sess)
	if len(sess.Values) != 0 {
		t.Errorf("clearSession left %v", sess.Values)
	}
}
