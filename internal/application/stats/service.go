package stats

import (
	"context"

	"github.com/dat-archive/internal/domain"
)

// Source computes archive-wide aggregates.
type Source interface {
	Stats(ctx context.Context) (*domain.Stats, error)
}

type Service interface {
	Get(ctx context.Context) (*domain.Stats, error)
}

type service struct {
	src Source
}

func NewService(src Source) Service {
	return &service{src: src}
}

func (s *service) Get(ctx context.Context) (*domain.Stats, error) {
	st, err := s.src.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if st.EquipmentBreakdown == nil {
		st.EquipmentBreakdown = []domain.EquipmentCount{}
	}
	if st.TopRoutes == nil {
		st.TopRoutes = []domain.RouteCount{}
	}
	return st, nil
}
