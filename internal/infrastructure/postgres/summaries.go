package postgres

import (
	"context"
	"fmt"
)

// SummaryRepo rebuilds route_summaries from main_historical.
type SummaryRepo struct {
	db DB
}

func NewSummaryRepo(db DB) *SummaryRepo {
	return &SummaryRepo{db: db}
}

const deleteRecentSummaries = `DELETE FROM route_summaries WHERE period_start >= CURRENT_DATE - INTERVAL '90 days'`

// Monthly aggregates for the last 12 months, one row per lane and equipment
// with at least three quotes.
const upsertMonthlySummaries = `
INSERT INTO route_summaries (
	origin_city, origin_state, destination_city, destination_state, equipment,
	period_start, period_end, total_quotes,
	avg_distance_mi, avg_target_sell_per_mile, min_target_sell_per_mile,
	max_target_sell_per_mile, avg_target_sell_per_trip
)
SELECT
	origin_city, origin_state, destination_city, destination_state, equipment,
	DATE_TRUNC('month', file_date)::date,
	(DATE_TRUNC('month', file_date) + INTERVAL '1 month - 1 day')::date,
	COUNT(*),
	AVG(distance_mi), AVG(target_sell_per_mile), MIN(target_sell_per_mile),
	MAX(target_sell_per_mile), AVG(target_sell_per_trip)
FROM main_historical
WHERE file_date IS NOT NULL
	AND file_date >= CURRENT_DATE - INTERVAL '12 months'
	AND origin_city IS NOT NULL
	AND destination_city IS NOT NULL
GROUP BY origin_city, origin_state, destination_city, destination_state, equipment,
	DATE_TRUNC('month', file_date)
HAVING COUNT(*) >= 3
ON CONFLICT (origin_city, origin_state, destination_city, destination_state, equipment, period_start, period_end)
DO UPDATE SET
	total_quotes = EXCLUDED.total_quotes,
	avg_distance_mi = EXCLUDED.avg_distance_mi,
	avg_target_sell_per_mile = EXCLUDED.avg_target_sell_per_mile,
	min_target_sell_per_mile = EXCLUDED.min_target_sell_per_mile,
	max_target_sell_per_mile = EXCLUDED.max_target_sell_per_mile,
	avg_target_sell_per_trip = EXCLUDED.avg_target_sell_per_trip,
	generated_at = CURRENT_TIMESTAMP`

// Regenerate replaces the recent summaries and returns the total number of
// summary rows afterwards.
func (r *SummaryRepo) Regenerate(ctx context.Context) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin summaries: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, deleteRecentSummaries); err != nil {
		return 0, fmt.Errorf("clear summaries: %w", err)
	}
	if _, err := tx.Exec(ctx, upsertMonthlySummaries); err != nil {
		return 0, fmt.Errorf("build summaries: %w", err)
	}
	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM route_summaries`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count summaries: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit summaries: %w", err)
	}
	return count, nil
}
