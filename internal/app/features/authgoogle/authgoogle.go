// internal/app/features/authgoogle/authgoogle.go
//
// Package authgoogle lets the site administrator sign in with the Google
// account whose verified address matches the configured admin email.
package authgoogle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	errorsfeature "github.com/advocatechambers/lawsite/internal/app/features/errors"
	"github.com/advocatechambers/lawsite/internal/app/store/audit"
	"github.com/advocatechambers/lawsite/internal/app/store/oauthstate"
	"github.com/advocatechambers/lawsite/internal/app/system/auditlog"
	"github.com/advocatechambers/lawsite/internal/app/system/auth"
	"github.com/advocatechambers/lawsite/internal/app/system/authutil"
	"github.com/advocatechambers/lawsite/internal/app/system/contentsync"
	"github.com/advocatechambers/lawsite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	// CallbackPath is appended to the public base URL for the redirect URI.
	CallbackPath = "/admin/auth/google/callback"

	defaultProfileURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	profileTimeout    = 10 * time.Second
)

// StateStore is satisfied by *oauthstate.Store.
type StateStore interface {
	Issue(ctx context.Context, returnTo string) (string, error)
	Consume(ctx context.Context, state string) (string, error)
}

type Handler struct {
	content     *contentsync.Service
	sessionMgr  *auth.SessionManager
	errLog      *errorsfeature.ErrorLogger
	auditLogger *auditlog.Logger
	states      StateStore
	oauth       *oauth2.Config
	profileURL  string
	logger      *zap.Logger
}

func NewHandler(
	content *contentsync.Service,
	sessionMgr *auth.SessionManager,
	errLog *errorsfeature.ErrorLogger,
	auditLogger *auditlog.Logger,
	states StateStore,
	clientID, clientSecret, baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		content:     content,
		sessionMgr:  sessionMgr,
		errLog:      errLog,
		auditLogger: auditLogger,
		states:      states,
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  baseURL + CallbackPath,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		profileURL: defaultProfileURL,
		logger:     logger,
	}
}

// Routes serves the redirect at / and Google's callback at /callback.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.begin)
	r.Get("/callback", h.finish)
	return r
}

// rejection is a failed callback. code is shown to the login page; err,
// when set, is an internal failure worth logging.
type rejection struct {
	code string
	msg  string
	err  error
}

func (h *Handler) toLogin(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, auth.LoginPath+"?error="+url.QueryEscape(code), http.StatusSeeOther)
}

func (h *Handler) begin(w http.ResponseWriter, r *http.Request) {
	returnTo := urlutil.SafeReturn(r.URL.Query().Get("return"), "", "/admin")

	state, err := h.states.Issue(r.Context(), returnTo)
	if err != nil {
		h.errLog.Log(r, "issue oauth state", err)
		h.toLogin(w, r, "oauth_error")
		return
	}
	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (h *Handler) finish(w http.ResponseWriter, r *http.Request) {
	returnTo, profile, rej := h.verify(r)
	if rej != nil {
		if rej.err != nil {
			h.errLog.Log(r, rej.msg, rej.err)
		} else {
			h.logger.Warn("google sign-in rejected", zap.String("reason", rej.code))
		}
		h.toLogin(w, r, rej.code)
		return
	}

	settings, _ := contentsync.Get[models.SettingsContent](h.content, models.SectionSettings)
	if !profile.VerifiedEmail || !authutil.IsAdminEmail(settings, profile.Email) {
		h.auditLogger.LoginFailed(r, profile.Email, audit.EventLoginFailedUnknownEmail, "not the admin google account")
		h.toLogin(w, r, "not_admin")
		return
	}

	if err := h.sessionMgr.CreateSession(w, r, profile.Email, "google"); err != nil {
		h.errLog.Log(r, "create session", err)
		h.toLogin(w, r, "session_error")
		return
	}
	h.auditLogger.LoginSuccess(r, profile.Email, "google")
	http.Redirect(w, r, returnTo, http.StatusSeeOther)
}

// verify consumes the state, then trades the code for the caller's
// Google profile.
func (h *Handler) verify(r *http.Request) (string, *Profile, *rejection) {
	q := r.URL.Query()

	returnTo, err := h.states.Consume(r.Context(), q.Get("state"))
	if errors.Is(err, oauthstate.ErrInvalidState) {
		return "", nil, &rejection{code: "invalid_state"}
	}
	if err != nil {
		return "", nil, &rejection{code: "invalid_state", msg: "consume oauth state", err: err}
	}

	if denied := q.Get("error"); denied != "" {
		return "", nil, &rejection{code: denied}
	}
	code := q.Get("code")
	if code == "" {
		return "", nil, &rejection{code: "missing_code"}
	}

	token, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		return "", nil, &rejection{code: "token_exchange_failed", msg: "exchange oauth code", err: err}
	}
	profile, err := h.fetchProfile(r.Context(), token)
	if err != nil {
		return "", nil, &rejection{code: "userinfo_failed", msg: "fetch google profile", err: err}
	}
	return returnTo, profile, nil
}

// Profile is the subset of Google's userinfo response the handler reads.
type Profile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func (h *Handler) fetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, profileTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.profileURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo: status %d", resp.StatusCode)
	}
	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("userinfo: %w", err)
	}
	return &p, nil
}
