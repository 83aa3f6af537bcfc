package logout

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/advocatechambers/lawsite/internal/app/system/auth"
	"github.com/advocatechambers/lawsite/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *auth.SessionManager) {
	t.Helper()
	logger := zap.NewNop()

	sessionMgr, err := auth.NewSessionManager(
		"test-session-key-for-testing-1234567890",
		"test-session",
		"",
		24*time.Hour,
		false,
		logger,
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}

	// auditLogger can be nil - it's nil-safe
	return NewHandler(sessionMgr, nil, logger), sessionMgr
}

func TestLogout_NoContent(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.NewAuthenticatedRequest(http.MethodPost, "/logout", testutil.AdminUser())
	rec := httptest.NewRecorder()

	h.handleLogout(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestLogout_Anonymous(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.handleLogout(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestLogout_EndsSession(t *testing.T) {
	h, sm := newTestHandler(t)

	r := chi.NewRouter()
	r.Use(sm.LoadSessionUser)
	h.MountRoutes(r)
	r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(auth.Actor(r)))
	})

	// Sign in.
	signin := httptest.NewRecorder()
	if err := sm.CreateSession(signin, httptest.NewRequest(http.MethodPost, "/login", nil), "admin@firm.example", "password"); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	cookies := signin.Result().Cookies()

	send := func(method, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	if got := send(http.MethodGet, "/whoami", cookies).Body.String(); got != "admin@firm.example" {
		t.Fatalf("whoami before logout = %q", got)
	}

	out := send(http.MethodPost, "/logout", cookies)
	if out.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d, want %d", out.Code, http.StatusNoContent)
	}

	if got := send(http.MethodGet, "/whoami", out.Result().Cookies()).Body.String(); got != "" {
		t.Errorf("whoami after logout = %q, want empty", got)
	}
}
