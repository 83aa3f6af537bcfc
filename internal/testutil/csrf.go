package testutil

import (
	"net/http"

	"github.com/gorilla/csrf"
)

// csrfTestKey is a fixed 32 byte key for CSRF tests.
var csrfTestKey = []byte("lawsite-test-csrf-key-0123456789")

// CSRFProtect wraps h with the same gorilla/csrf middleware the admin API
// uses, minus the Secure cookie flag so plain httptest requests work.
func CSRFProtect(h http.Handler) http.Handler {
	return csrf.Protect(csrfTestKey,
		csrf.Secure(false),
		csrf.Path("/"),
		csrf.CookieName("lawsite_csrf"),
	)(h)
}
