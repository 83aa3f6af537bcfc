package login

import (
	"context"

	"github.com/advocatechambers/lawsite/internal/app/system/auth"
	"github.com/advocatechambers/lawsite/internal/app/system/authutil"
	"github.com/advocatechambers/lawsite/internal/app/system/contentsync"
	"github.com/advocatechambers/lawsite/internal/domain/models"
)

// AdminFetcher resolves sessions against the admin email in the settings
// section, so changing the admin email signs the old address out. Until
// settings has loaded, sessions are trusted as stored.
func AdminFetcher(content *contentsync.Service) auth.AdminFetcher {
	return auth.AdminFetcherFunc(func(_ context.Context, email string) *auth.SessionUser {
		settings, ok := contentsync.Get[models.SettingsContent](content, models.SectionSettings)
		if ok && !authutil.IsAdminEmail(settings, email) {
			return nil
		}
		return &auth.SessionUser{Email: email, Role: auth.RoleAdmin}
	})
}
