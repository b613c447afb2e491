package postgres

import (
	"context"
	"fmt"

	"github.com/dat-archive/internal/domain"
)

// StatsRepo aggregates main_historical for the dashboard.
type StatsRepo struct {
	db DB
}

func NewStatsRepo(db DB) *StatsRepo {
	return &StatsRepo{db: db}
}

func (r *StatsRepo) Stats(ctx context.Context) (*domain.Stats, error) {
	s := &domain.Stats{
		EquipmentBreakdown: make([]domain.EquipmentCount, 0),
		TopRoutes:          make([]domain.RouteCount, 0),
	}

	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM main_historical`).Scan(&s.TotalRows); err != nil {
		return nil, fmt.Errorf("count rows: %w", err)
	}
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM uploaded_files`).Scan(&s.TotalFiles); err != nil {
		return nil, fmt.Errorf("count files: %w", err)
	}
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(DISTINCT (origin_city, origin_state, destination_city, destination_state))
		 FROM main_historical`,
	).Scan(&s.UniqueRoutes)
	if err != nil {
		return nil, fmt.Errorf("count routes: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT equipment, COUNT(*) AS count
		 FROM main_historical
		 WHERE equipment IS NOT NULL
		 GROUP BY equipment
		 ORDER BY count DESC`)
	if err != nil {
		return nil, fmt.Errorf("equipment breakdown: %w", err)
	}
	for rows.Next() {
		var e domain.EquipmentCount
		if err := rows.Scan(&e.Equipment, &e.Count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan equipment: %w", err)
		}
		s.EquipmentBreakdown = append(s.EquipmentBreakdown, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("equipment breakdown: %w", err)
	}

	rows, err = r.db.Query(ctx,
		`SELECT origin_state, destination_state, COUNT(*) AS count
		 FROM main_historical
		 WHERE origin_state IS NOT NULL AND destination_state IS NOT NULL
		 GROUP BY origin_state, destination_state
		 ORDER BY count DESC
		 LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("top routes: %w", err)
	}
	for rows.Next() {
		var rc domain.RouteCount
		if err := rows.Scan(&rc.OriginState, &rc.DestinationState, &rc.Count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan route: %w", err)
		}
		s.TopRoutes = append(s.TopRoutes, rc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top routes: %w", err)
	}

	err = r.db.QueryRow(ctx,
		`SELECT MIN(file_date), MAX(file_date) FROM main_historical WHERE file_date IS NOT NULL`,
	).Scan(&s.DateRange.EarliestDate, &s.DateRange.LatestDate)
	if err != nil {
		return nil, fmt.Errorf("date range: %w", err)
	}
	return s, nil
}
