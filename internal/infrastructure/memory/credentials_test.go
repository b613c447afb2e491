package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dat-archive/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialStore_UpsertReplaces(t *testing.T) {
	s := NewCredentialStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, &domain.VerificationCredential{Email: "a@x.com", Code: "1"}))
	require.NoError(t, s.Upsert(ctx, &domain.VerificationCredential{Email: "a@x.com", Code: "2"}))

	c, err := s.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "2", c.Code)
}

func TestCredentialStore_GetMissing(t *testing.T) {
	_, err := NewCredentialStore().Get(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCredentialStore_Consume(t *testing.T) {
	s := NewCredentialStore()
	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, &domain.VerificationCredential{Email: "a@x.com", Code: "1"}))

	ok, err := s.Consume(ctx, "a@x.com", "9")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Consume(ctx, "a@x.com", "1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Consume(ctx, "a@x.com", "1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCredentialStore_ConsumeConcurrent(t *testing.T) {
	s := NewCredentialStore()
	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, &domain.VerificationCredential{Email: "a@x.com", Code: "1"}))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := s.Consume(ctx, "a@x.com", "1"); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestCredentialStore_SweepExpired(t *testing.T) {
	s := NewCredentialStore()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, s.Upsert(ctx, &domain.VerificationCredential{Email: "old@x.com", Code: "1", ExpiresAt: now.Add(-time.Second)}))
	require.NoError(t, s.Upsert(ctx, &domain.VerificationCredential{Email: "new@x.com", Code: "2", ExpiresAt: now.Add(time.Minute)}))

	n, err := s.SweepExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.Get(ctx, "old@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.Get(ctx, "new@x.com")
	assert.NoError(t, err)
}
