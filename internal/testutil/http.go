package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/advocatechambers/lawsite/internal/app/system/auth"
)

// AdminEmail is the address every authenticated test request signs in as.
const AdminEmail = "admin@firm.example"

// TestUser is the identity injected by WithUser.
type TestUser struct {
	Name  string
	Email string
	Role  string
}

// AdminUser is the single site administrator.
func AdminUser() TestUser {
	return TestUser{Name: "Chambers Admin", Email: AdminEmail, Role: auth.RoleAdmin}
}

// WithUser puts user on r's context the way the session middleware would,
// so handlers behind RequireAdmin can be called directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		Email:      user.Email,
		Name:       user.Name,
		Role:       user.Role,
		AuthMethod: "password",
		SignedInAt: time.Now().UTC(),
	})
}

func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest encodes body as JSON. Strings and byte slices are sent
// verbatim so tests can post malformed payloads.
func NewJSONRequest(method, target string, body any) *http.Request {
	var raw []byte
	switch b := body.(type) {
	case nil:
	case string:
		raw = []byte(b)
	case []byte:
		raw = b
	default:
		var err error
		raw, err = json.Marshal(b)
		if err != nil {
			panic("testutil: encode body: " + err.Error())
		}
	}
	r := httptest.NewRequest(method, target, bytes.NewReader(raw))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	return WithUser(NewRequest(method, target), user)
}

// ResponseRecorder adds assertion helpers to httptest.ResponseRecorder.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{ResponseRecorder: httptest.NewRecorder()}
}

func (r *ResponseRecorder) AssertStatus(t testing.TB, want int) {
	t.Helper()
	if r.Code != want {
		t.Errorf("status = %d, want %d (body %s)", r.Code, want, strings.TrimSpace(r.Body.String()))
	}
}

// DecodeJSON fails the test when the body is not valid JSON for v.
func (r *ResponseRecorder) DecodeJSON(t testing.TB, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", r.Body.String(), err)
	}
}

func (r *ResponseRecorder) AssertContains(t testing.TB, substr string) {
	t.Helper()
	if !strings.Contains(r.Body.String(), substr) {
		t.Errorf("body %q does not contain %q", r.Body.String(), substr)
	}
}
