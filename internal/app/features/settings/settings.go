// internal/app/features/settings/settings.go
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	errorsfeature "github.com/advocatechambers/lawsite/internal/app/features/errors"
	"github.com/advocatechambers/lawsite/internal/app/system/auditlog"
	"github.com/advocatechambers/lawsite/internal/app/system/auth"
	"github.com/advocatechambers/lawsite/internal/app/system/authutil"
	"github.com/advocatechambers/lawsite/internal/app/system/contentsync"
	"github.com/advocatechambers/lawsite/internal/app/system/jsonutil"
	"github.com/advocatechambers/lawsite/internal/app/system/normalize"
	"github.com/advocatechambers/lawsite/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// awaitWrite bounds how long an update waits to observe its own write.
const awaitWrite = 2 * time.Second

// Handler provides the admin settings endpoints.
type Handler struct {
	content     *contentsync.Service
	sessionMgr  *auth.SessionManager
	errLog      *errorsfeature.ErrorLogger
	auditLogger *auditlog.Logger
	logger      *zap.Logger
}

// NewHandler creates a new settings Handler.
func NewHandler(
	content *contentsync.Service,
	sessionMgr *auth.SessionManager,
	errLog *errorsfeature.ErrorLogger,
	auditLogger *auditlog.Logger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		content:     content,
		sessionMgr:  sessionMgr,
		errLog:      errLog,
		auditLogger: auditLogger,
		logger:      logger,
	}
}

// View is the settings section as the admin sees it. The password hash is
// never included.
type View struct {
	models.SettingsContent
	PasswordSet bool `json:"passwordSet"`
}

func newView(s *models.SettingsContent) View {
	v := View{SettingsContent: *s, PasswordSet: s.AdminPassword != ""}
	v.AdminPassword = ""
	return v
}

// MountRoutes mounts settings routes on the given router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/settings", h.show)
	r.Patch("/settings", h.update)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	s, ok := contentsync.Get[models.SettingsContent](h.content, models.SectionSettings)
	if !ok {
		jsonutil.ServiceUnavailable(w, "section unavailable")
		return
	}
	jsonutil.OK(w, newView(s))
}

// update merges the given fields into settings. A plain-text adminPassword
// is validated and stored as a bcrypt hash in the same write.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var patch map[string]json.RawMessage
	if err := jsonutil.DecodeStrict(w, r, &patch); err != nil {
		jsonutil.DecodeFailed(w, err)
		return
	}
	if len(patch) == 0 {
		jsonutil.BadRequest(w, "no fields to update")
		return
	}

	var password string
	rawPassword, changingPassword := patch["adminPassword"]
	if changingPassword {
		if err := json.Unmarshal(rawPassword, &password); err != nil {
			jsonutil.ValidationError(w, map[string]string{"adminPassword": "must be a string"})
			return
		}
		if err := authutil.ValidatePassword(password); err != nil {
			jsonutil.ValidationError(w, map[string]string{"adminPassword": authutil.PasswordRules()})
			return
		}
		delete(patch, "adminPassword")
	}

	merged, err := h.content.Merge(models.SectionSettings, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	next := merged.(*models.SettingsContent)
	next.AdminEmail = normalize.Email(next.AdminEmail)
	next.Currency = normalize.Currency(next.Currency)
	if changingPassword {
		hash, err := authutil.HashPassword(password)
		if err != nil {
			h.errLog.Log(r, "failed to hash password", err)
			jsonutil.InternalError(w, "failed to save settings")
			return
		}
		next.AdminPassword = hash
	}

	before := h.content.Version(models.SectionSettings)
	if err := h.content.Replace(r.Context(), models.SectionSettings, next); err != nil {
		h.writeError(w, r, err)
		return
	}

	actor := auth.Actor(r)
	if len(patch) > 0 {
		h.auditLogger.SettingsUpdated(r, actor, fieldNames(patch))
	}
	if changingPassword {
		h.auditLogger.PasswordChanged(r, actor)
	}

	// Sessions are bound to the admin email, so a changed email moves the
	// current session over to it.
	_, emailChanged := patch["adminEmail"]
	if u, ok := auth.CurrentUser(r); ok && emailChanged && h.sessionMgr != nil && next.AdminEmail != "" && u.Email != next.AdminEmail {
		if err := h.sessionMgr.CreateSession(w, r, next.AdminEmail, u.AuthMethod); err != nil {
			h.errLog.Log(r, "failed to move session to new admin email", err)
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), awaitWrite)
	defer cancel()
	if err := h.content.Await(ctx, models.SectionSettings, before); err != nil {
		jsonutil.Accepted(w, "pending")
		return
	}
	s, _ := contentsync.Get[models.SettingsContent](h.content, models.SectionSettings)
	jsonutil.OK(w, newView(s))
}

func fieldNames(patch map[string]json.RawMessage) string {
	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *contentsync.ValidationError
	switch {
	case errors.As(err, &verr):
		jsonutil.ValidationError(w, map[string]string{verr.Field: verr.Message})
	case errors.Is(err, contentsync.ErrNotLoaded):
		w.Header().Set("Retry-After", "1")
		jsonutil.ServiceUnavailable(w, "section not loaded")
	default:
		h.errLog.Log(r, "failed to update settings", err)
		jsonutil.InternalError(w, "failed to save settings")
	}
}
