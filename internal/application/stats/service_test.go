package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/dat-archive/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSource struct{ mock.Mock }

func (m *mockSource) Stats(ctx context.Context) (*domain.Stats, error) {
	args := m.Called(ctx)
	if s, _ := args.Get(0).(*domain.Stats); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestGet_FillsEmptyLists(t *testing.T) {
	src := &mockSource{}
	src.On("Stats", mock.Anything).Return(&domain.Stats{TotalRows: 5}, nil)

	st, err := NewService(src).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), st.TotalRows)
	assert.NotNil(t, st.EquipmentBreakdown)
	assert.NotNil(t, st.TopRoutes)
}

func TestGet_Error(t *testing.T) {
	src := &mockSource{}
	src.On("Stats", mock.Anything).Return(nil, errors.New("db down"))

	_, err := NewService(src).Get(context.Background())
	assert.ErrorContains(t, err, "db down")
}
