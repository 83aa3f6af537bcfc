package login

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advocatechambers/lawsite/internal/domain/models"
	"github.com/advocatechambers/lawsite/internal/testutil/contenttest"
)

func TestAdminFetcher(t *testing.T) {
	svc, mem := contenttest.Start(t)
	settings := models.DefaultSection(models.SectionSettings).(*models.SettingsContent)
	settings.AdminEmail = adminEmail
	contenttest.Put(t, svc, mem, models.SectionSettings, settings)

	f := AdminFetcher(svc)
	u := f.FetchAdmin(context.Background(), "Admin@Firm.example")
	require.NotNil(t, u)
	assert.Equal(t, "Admin@Firm.example", u.Email)
	assert.Nil(t, f.FetchAdmin(context.Background(), "someone@else.example"))
}

func TestAdminFetcher_BeforeLoad(t *testing.T) {
	f := AdminFetcher(contenttest.Unstarted())
	assert.NotNil(t, f.FetchAdmin(context.Background(), "anyone@firm.example"))
}
