// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown runs after the HTTP server has drained. Background jobs stop
// first so nothing writes through a closing client, then the content
// watchers, then Redis and MongoDB. Every step runs even when an earlier
// one fails; the failures are joined.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	var errs []error

	if taskRunner != nil {
		logger.Info("stopping background jobs", zap.Strings("active", taskRunner.Active()))
		if err := taskRunner.Stop(ctx); err != nil {
			logger.Warn("background jobs did not stop in time", zap.Error(err))
			errs = append(errs, fmt.Errorf("stop jobs: %w", err))
		}
	}

	if deps.Content != nil {
		logger.Info("stopping content sync")
		deps.Content.Stop()
	}

	if err := closeDeps(ctx, deps); err != nil {
		logger.Error("backend disconnect failed", zap.Error(err))
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// closeDeps releases the connections ConnectDB opened.
func closeDeps(ctx context.Context, deps DBDeps) error {
	var errs []error
	if deps.Redis != nil {
		if err := deps.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if deps.MongoClient != nil {
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("disconnect mongo: %w", err))
		}
	}
	return errors.Join(errs...)
}
