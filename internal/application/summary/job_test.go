package summary

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/dat-archive/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) Regenerate(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type recorderSpy struct {
	metrics.Nop
	runs []error
}

func (r *recorderSpy) RecordSummaryRun(err error) { r.runs = append(r.runs, err) }

func TestRun(t *testing.T) {
	repo := &mockRepo{}
	repo.On("Regenerate", mock.Anything).Return(int64(42), nil)
	var buf bytes.Buffer

	n, err := NewJob(repo, slog.New(slog.NewJSONHandler(&buf, nil)), nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	assert.Contains(t, buf.String(), `"count":42`)
}

func TestRun_Error(t *testing.T) {
	repo := &mockRepo{}
	repo.On("Regenerate", mock.Anything).Return(int64(0), errors.New("deadlock"))

	rec := &recorderSpy{}

	err := NewJob(repo, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), rec).Tick(context.Background())
	assert.ErrorContains(t, err, "deadlock")
	require.Len(t, rec.runs, 1)
	assert.Error(t, rec.runs[0])
}
