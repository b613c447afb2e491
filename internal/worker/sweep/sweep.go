// Package sweep removes expired verification credentials.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Sweeper deletes credentials that expired before now.
type Sweeper interface {
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

// Job is storage hygiene only. Expired codes are already rejected at verification.
type Job struct {
	store  Sweeper
	logger *slog.Logger
	now    func() time.Time
}

func NewJob(store Sweeper, logger *slog.Logger) *Job {
	return &Job{store: store, logger: logger, now: time.Now}
}

func (j *Job) Run(ctx context.Context) error {
	n, err := j.store.SweepExpired(ctx, j.now())
	if err != nil {
		return fmt.Errorf("sweep expired credentials: %w", err)
	}
	if n > 0 {
		j.logger.InfoContext(ctx, "expired credentials removed", slog.Int64("deleted_count", n))
	}
	return nil
}
