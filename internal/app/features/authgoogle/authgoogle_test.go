package authgoogle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	errorsfeature "github.com/advocatechambers/lawsite/internal/app/features/errors"
	contentstore "github.com/advocatechambers/lawsite/internal/app/store/content"
	"github.com/advocatechambers/lawsite/internal/app/store/oauthstate"
	"github.com/advocatechambers/lawsite/internal/app/system/auth"
	"github.com/advocatechambers/lawsite/internal/app/system/contentsync"
	"github.com/advocatechambers/lawsite/internal/domain/models"
	"github.com/advocatechambers/lawsite/internal/testutil/contenttest"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const adminEmail = "admin@firm.example"

// memStates is an in-memory StateStore.
type memStates struct {
	mu     sync.Mutex
	next   int
	states map[string]string
}

func (m *memStates) Issue(_ context.Context, returnTo string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	state := "state-" + strconv.Itoa(m.next)
	m.states[state] = returnTo
	return state, nil
}

func (m *memStates) Consume(_ context.Context, state string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ret, ok := m.states[state]
	if !ok {
		return "", oauthstate.ErrInvalidState
	}
	delete(m.states, state)
	return ret, nil
}

// fakeGoogle serves the token and userinfo endpoints.
func fakeGoogle(t *testing.T, info Profile) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(info)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestHandler(t *testing.T, info Profile) (*Handler, *memStates) {
	t.Helper()
	logger := zap.NewNop()

	svc, mem := contenttest.Start(t)
	setAdmin(t, svc, mem)

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

	states := &memStates{states: map[string]string{}}
	h := NewHandler(
		svc,
		sessionMgr,
		errorsfeature.NewErrorLogger(logger),
		nil, // auditLogger is nil-safe
		states,
		"test-client-id",
		"test-client-secret",
		"http://localhost:8080",
		logger,
	)

	g := fakeGoogle(t, info)
	h.oauth.Endpoint = oauth2.Endpoint{AuthURL: g.URL + "/auth", TokenURL: g.URL + "/token"}
	h.profileURL = g.URL + "/userinfo"
	return h, states
}

func setAdmin(t *testing.T, svc *contentsync.Service, mem *contentstore.Memory) {
	t.Helper()
	settings := models.DefaultSection(models.SectionSettings).(*models.SettingsContent)
	settings.AdminEmail = adminEmail
	settings.AdminPassword = "$2a$10$placeholder"
	contenttest.Put(t, svc, mem, models.SectionSettings, settings)
}

func TestBegin_RedirectsWithState(t *testing.T) {
	h, states := newTestHandler(t, Profile{})

	req := httptest.NewRequest(http.MethodGet, "/admin/auth/google?return=/admin/inquiries", nil)
	rec := httptest.NewRecorder()
	h.begin(rec, req)

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTemporaryRedirect)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse Location: %v", err)
	}
	state := loc.Query().Get("state")
	if state == "" {
		t.Fatal("Location should carry a state")
	}
	if got := loc.Query().Get("redirect_uri"); got != "http://localhost:8080"+CallbackPath {
		t.Errorf("redirect_uri = %q", got)
	}
	if ret := states.states[state]; ret != "/admin/inquiries" {
		t.Errorf("stored returnTo = %q, want /admin/inquiries", ret)
	}
}

func TestBegin_RejectsOffsiteReturn(t *testing.T) {
	h, states := newTestHandler(t, Profile{})

	rec := httptest.NewRecorder()
	h.begin(rec, httptest.NewRequest(http.MethodGet, "/admin/auth/google?return=https://evil.example/", nil))

	for _, ret := range states.states {
		if strings.Contains(ret, "evil.example") {
			t.Errorf("offsite return stored: %q", ret)
		}
	}
}

func callback(h *Handler, query string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.finish(rec, httptest.NewRequest(http.MethodGet, CallbackPath+"?"+query, nil))
	return rec
}

func TestFinish_AdminSignsIn(t *testing.T) {
	h, states := newTestHandler(t, Profile{Email: "Admin@Firm.example", VerifiedEmail: true})
	state, _ := states.Issue(context.Background(), "/admin/settings")

	rec := callback(h, "state="+state+"&code=abc")

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin/settings" {
		t.Errorf("Location = %q, want /admin/settings", loc)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie")
	}

	// The state is single use.
	rec = callback(h, "state="+state+"&code=abc")
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "invalid_state") {
		t.Errorf("reused state Location = %q, want invalid_state", loc)
	}
}

func TestFinish_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		info  Profile
		query func(state string) string
		want  string
	}{
		{"invalid state", Profile{}, func(string) string { return "state=bogus&code=abc" }, "invalid_state"},
		{"google error", Profile{}, func(s string) string { return "state=" + s + "&error=access_denied" }, "access_denied"},
		{"no code", Profile{}, func(s string) string { return "state=" + s }, "missing_code"},
		{"other account", Profile{Email: "someone@else.example", VerifiedEmail: true}, func(s string) string { return "state=" + s + "&code=abc" }, "not_admin"},
		{"unverified admin email", Profile{Email: adminEmail}, func(s string) string { return "state=" + s + "&code=abc" }, "not_admin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, states := newTestHandler(t, tt.info)
			state, _ := states.Issue(context.Background(), "/admin")

			rec := callback(h, tt.query(state))

			if rec.Code != http.StatusSeeOther {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
			}
			loc := rec.Header().Get("Location")
			if !strings.HasPrefix(loc, auth.LoginPath) || !strings.Contains(loc, tt.want) {
				t.Errorf("Location = %q, want login page with %q", loc, tt.want)
			}
			if len(rec.Result().Cookies()) != 0 {
				t.Error("no session should be created")
			}
		})
	}
}
