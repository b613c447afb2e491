package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dat-archive/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

var rateColumns = []string{
	"name", "origin_city", "origin_state", "origin_postal_code",
	"destination_city", "destination_state", "destination_postal_code",
	"distance_mi", "equipment", "volume_committed", "volume_total",
	"fuel", "target_buy_per_mile", "target_buy_per_trip",
	"target_sell_per_mile", "target_sell_per_trip", "status",
	"source_filename", "file_date",
}

// RateRepo writes imported rate exports into main_historical.
type RateRepo struct {
	db DB
}

func NewRateRepo(db DB) *RateRepo {
	return &RateRepo{db: db}
}

// ImportFile copies rows into main_historical and records f in uploaded_files
// in a single transaction. f is updated with the generated id and timestamps.
// A filename that was already imported returns domain.ErrConflict.
func (r *RateRepo) ImportFile(ctx context.Context, f *domain.UploadedFile, rows []domain.RateRow) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	src := pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
		row := rows[i]
		return []any{
			row.Name, row.OriginCity, row.OriginState, row.OriginPostalCode,
			row.DestinationCity, row.DestinationState, row.DestinationPostalCode,
			row.DistanceMi, row.Equipment, row.VolumeCommitted, row.VolumeTotal,
			row.Fuel, row.TargetBuyPerMile, row.TargetBuyPerTrip,
			row.TargetSellPerMile, row.TargetSellPerTrip, row.Status,
			f.Filename, f.FileDate,
		}, nil
	})
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"main_historical"}, rateColumns, src); err != nil {
		return fmt.Errorf("copy rate rows: %w", err)
	}

	var uploadedBy *string
	if f.UploadedBy != "" {
		uploadedBy = &f.UploadedBy
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO uploaded_files (filename, file_date, row_count, status, object_key, uploaded_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, upload_date, created_at`,
		f.Filename, f.FileDate, len(rows), domain.FileStatusCompleted, f.ObjectKey, uploadedBy,
	).Scan(&f.ID, &f.UploadDate, &f.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("file %q already uploaded: %w", f.Filename, domain.ErrConflict)
		}
		return fmt.Errorf("record uploaded file: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	f.RowCount = len(rows)
	f.Status = domain.FileStatusCompleted
	return nil
}
