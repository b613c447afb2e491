package worker

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestScheduler_RunsUntilCancelled(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler(testLogger())
	s.Add(Task{
		Name:       "count",
		Interval:   5 * time.Millisecond,
		RunOnStart: true,
		Run: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestScheduler_ErrorsDoNotStopLoop(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler(testLogger())
	s.Add(Task{
		Name:     "fail",
		Interval: 5 * time.Millisecond,
		Run: func(context.Context) error {
			runs.Add(1)
			return errors.New("boom")
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Start(ctx)

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, time.Millisecond)
}

func TestScheduler_DisabledTask(t *testing.T) {
	s := NewScheduler(testLogger())
	s.Add(Task{Name: "off", Interval: 0, Run: func(context.Context) error { return nil }})
	assert.Empty(t, s.tasks)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Start(ctx)
}
