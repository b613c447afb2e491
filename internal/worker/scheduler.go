// Package worker runs periodic background jobs until the context is cancelled.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task is one periodic job.
type Task struct {
	Name     string
	Interval time.Duration
	// RunOnStart runs the task once before the first tick.
	RunOnStart bool
	Run        func(ctx context.Context) error
}

// Scheduler runs each task on its own ticker.
type Scheduler struct {
	logger *slog.Logger
	tasks  []Task
}

func NewScheduler(logger *slog.Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// Add registers t. Tasks with a non-positive interval are skipped.
func (s *Scheduler) Add(t Task) {
	if t.Interval <= 0 {
		s.logger.Info("background task disabled", slog.String("task", t.Name))
		return
	}
	s.tasks = append(s.tasks, t)
}

// Start blocks until ctx is done and every task loop has returned.
func (s *Scheduler) Start(ctx context.Context) {
	var wg sync.WaitGroup
	for _, t := range s.tasks {
		wg.Add(1)
		go func(t Task) {
			defer wg.Done()
			s.loop(ctx, t)
		}(t)
	}
	wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, t Task) {
	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()

	s.logger.Info("background task started",
		slog.String("task", t.Name),
		slog.Duration("interval", t.Interval),
	)
	if t.RunOnStart {
		s.runOnce(ctx, t)
	}
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("background task stopped", slog.String("task", t.Name))
			return
		case <-ticker.C:
			s.runOnce(ctx, t)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, t Task) {
	if err := t.Run(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error("background task failed",
			slog.String("task", t.Name),
			slog.String("error", err.Error()),
		)
	}
}
