// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"time"

	inquirystore "github.com/advocatechambers/lawsite/internal/app/store/inquiries"
	"github.com/advocatechambers/lawsite/internal/app/system/authutil"
	"github.com/advocatechambers/lawsite/internal/app/system/contentsync"
	"github.com/advocatechambers/lawsite/internal/app/system/normalize"
	"github.com/advocatechambers/lawsite/internal/app/system/tasks"
	"github.com/advocatechambers/lawsite/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// contentReadyWait bounds how long Startup waits for the first content
// load before moving on. Requests are gated on readiness either way.
const contentReadyWait = 15 * time.Second

// Startup runs once after the schema is ensured and before requests are
// served. It starts the content subscriptions, applies the seed admin
// credentials, and starts the background jobs.
//
// Returning a non-nil error aborts startup.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := deps.Content.Start(ctx); err != nil {
		logger.Error("content sync start failed", zap.Error(err))
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, contentReadyWait)
	defer cancel()
	if err := deps.Content.WaitReady(waitCtx); err != nil {
		logger.Warn("content not ready yet; serving 503 until it loads", zap.Error(err))
	} else if appCfg.SeedAdminEmail != "" {
		if err := ensureAdmin(ctx, deps.Content, appCfg.SeedAdminEmail, appCfg.SeedAdminPassword, logger); err != nil {
			logger.Error("failed to seed admin credentials", zap.Error(err))
			return err
		}
	}

	startTaskRunner(appCfg, deps, logger)
	return nil
}

// taskRunner is the global task runner instance, used for graceful shutdown.
var taskRunner *tasks.Runner

// startTaskRunner initializes and starts the background task runner.
func startTaskRunner(appCfg AppConfig, deps DBDeps, logger *zap.Logger) {
	taskRunner = tasks.New(logger)

	taskRunner.Register(tasks.OAuthStateCleanupJob(deps.MongoDatabase, logger))
	taskRunner.Register(tasks.InquiryDigestJob(
		inquirystore.New(deps.MongoDatabase),
		digestRecipient(deps.Content),
		deps.Mailer,
		appCfg.AdminURL,
		appCfg.InquiryDigestInterval,
		logger,
	))

	taskRunner.Start()
}

// digestRecipient reads the admin email and firm name at send time so
// settings changes apply without a restart.
func digestRecipient(content *contentsync.Service) tasks.DigestRecipient {
	return func() (string, string) {
		s, ok := contentsync.Get[models.SettingsContent](content, models.SectionSettings)
		if !ok {
			return "", ""
		}
		return s.AdminEmail, s.FirmName
	}
}

// ensureAdmin sets the admin email, and the password when given, if
// settings has no admin email yet. An admin configured through the console
// is never overwritten.
func ensureAdmin(ctx context.Context, content *contentsync.Service, email, password string, logger *zap.Logger) error {
	settings, ok := contentsync.Get[models.SettingsContent](content, models.SectionSettings)
	if !ok {
		return contentsync.ErrNotLoaded
	}
	email = normalize.Email(email)
	if settings.AdminEmail != "" {
		logger.Debug("admin already configured", zap.String("email", settings.AdminEmail))
		return nil
	}

	var hash string
	if password != "" {
		var err error
		if hash, err = authutil.HashPassword(password); err != nil {
			return err
		}
	}

	before := content.Version(models.SectionSettings)
	if err := content.SetAdmin(ctx, email, hash); err != nil {
		return err
	}
	awaitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := content.Await(awaitCtx, models.SectionSettings, before); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	logger.Info("seeded admin credentials",
		zap.String("email", email),
		zap.Bool("password_set", hash != ""))
	return nil
}
