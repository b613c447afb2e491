// Package summary rebuilds the monthly per-lane rate summaries.
package summary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dat-archive/internal/metrics"
)

// Regenerator replaces recent summaries and returns the total summary count.
type Regenerator interface {
	Regenerate(ctx context.Context) (int64, error)
}

// Job runs one regeneration. It is safe to call repeatedly.
type Job struct {
	repo     Regenerator
	logger   *slog.Logger
	recorder metrics.Recorder
}

func NewJob(repo Regenerator, logger *slog.Logger, recorder metrics.Recorder) *Job {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Job{repo: repo, logger: logger, recorder: recorder}
}

func (j *Job) Run(ctx context.Context) (int64, error) {
	start := time.Now()
	count, err := j.repo.Regenerate(ctx)
	j.recorder.RecordSummaryRun(err)
	if err != nil {
		j.logger.ErrorContext(ctx, "route summary generation failed", slog.String("error", err.Error()))
		return 0, fmt.Errorf("generate summaries: %w", err)
	}
	j.logger.InfoContext(ctx, "route summaries generated",
		slog.Int64("count", count),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)
	return count, nil
}

// Tick adapts Run for the scheduler.
func (j *Job) Tick(ctx context.Context) error {
	_, err := j.Run(ctx)
	return err
}
