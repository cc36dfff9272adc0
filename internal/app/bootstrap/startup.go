// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/config"
	eventstore "github.com/voluntahub/voluntahub/internal/app/store/events"
	userstore "github.com/voluntahub/voluntahub/internal/app/store/users"
	"go.uber.org/zap"
)

// sweeperCancel stops the background event sweeper; Shutdown calls it.
var sweeperCancel context.CancelFunc

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// It promotes the configured superadmin (if that account exists yet) and
// starts the background sweep that closes past events.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)
	if appCfg.SuperAdminEmail != "" {
		promoted, err := users.EnsureAdmin(ctx, appCfg.SuperAdminEmail)
		if err != nil {
			logger.Error("superadmin promotion failed", zap.Error(err))
			return err
		}
		if promoted {
			logger.Info("superadmin ensured", zap.String("email", appCfg.SuperAdminEmail))
		} else {
			// Promotion happens at first sign-in instead (see the session feature).
			logger.Info("superadmin account not present yet", zap.String("email", appCfg.SuperAdminEmail))
		}
	}

	events := eventstore.New(deps.MongoDatabase, logger)

	// Close anything that expired while the service was down.
	if _, err := events.ClosePastEvents(ctx, time.Now()); err != nil {
		logger.Error("initial past-event sweep failed", zap.Error(err))
		return err
	}

	if appCfg.AutoCloseInterval > 0 {
		var sctx context.Context
		sctx, sweeperCancel = context.WithCancel(context.Background())
		go runEventSweeper(sctx, events, appCfg.AutoCloseInterval, logger)
	}
	return nil
}

// runEventSweeper periodically closes open events whose date has passed.
// The operation is idempotent, so overlapping or repeated runs are harmless.
func runEventSweeper(ctx context.Context, events *eventstore.Store, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("event sweeper started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			logger.Info("event sweeper stopped")
			return
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			if _, err := events.ClosePastEvents(sweepCtx, time.Now()); err != nil {
				logger.Error("past-event sweep failed", zap.Error(err))
			}
			cancel()
		}
	}
}
