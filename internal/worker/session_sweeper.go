package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-request/internal/session"
)

// RunSessionSweeper discards idle form sessions until ctx is cancelled.
func RunSessionSweeper(ctx context.Context, store *session.Store, interval time.Duration, logger *zap.Logger) error {
	logger.Info("session sweeper started", zap.Duration("interval", interval))
	err := store.Run(ctx, interval)
	logger.Info("session sweeper stopped")
	return err
}
