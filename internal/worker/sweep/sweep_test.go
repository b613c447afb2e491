package sweep

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/dat-archive/internal/domain"
	"github.com/dat-archive/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSweeper struct{}

func (failingSweeper) SweepExpired(context.Context, time.Time) (int64, error) {
	return 0, errors.New("locked")
}

func TestRun_RemovesExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := memory.NewCredentialStore()
	require.NoError(t, store.Upsert(ctx, &domain.VerificationCredential{Email: "a@x.com", Code: "1", ExpiresAt: now.Add(-time.Minute)}))

	var buf bytes.Buffer
	job := NewJob(store, slog.New(slog.NewJSONHandler(&buf, nil)))
	job.now = func() time.Time { return now }

	require.NoError(t, job.Run(ctx))
	assert.Contains(t, buf.String(), `"deleted_count":1`)
	_, err := store.Get(ctx, "a@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRun_Error(t *testing.T) {
	job := NewJob(failingSweeper{}, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	assert.ErrorContains(t, job.Run(context.Background()), "locked")
}
