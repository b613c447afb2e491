package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dat-archive/internal/domain"
	"github.com/jackc/pgx/v5"
)

// FileRepo reads the uploaded_files table.
type FileRepo struct {
	db DB
}

func NewFileRepo(db DB) *FileRepo {
	return &FileRepo{db: db}
}

const fileColumns = `id, filename, file_date, row_count, status, object_key, uploaded_by, upload_date, created_at`

func scanFile(row pgx.Row) (*domain.UploadedFile, error) {
	var f domain.UploadedFile
	var uploadedBy *string
	err := row.Scan(&f.ID, &f.Filename, &f.FileDate, &f.RowCount, &f.Status,
		&f.ObjectKey, &uploadedBy, &f.UploadDate, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	if uploadedBy != nil {
		f.UploadedBy = *uploadedBy
	}
	return &f, nil
}

func (r *FileRepo) ExistsByFilename(ctx context.Context, filename string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM uploaded_files WHERE filename = $1)`, filename,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check uploaded file: %w", err)
	}
	return exists, nil
}

func (r *FileRepo) Get(ctx context.Context, id int64) (*domain.UploadedFile, error) {
	f, err := scanFile(r.db.QueryRow(ctx,
		`SELECT `+fileColumns+` FROM uploaded_files WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("uploaded file not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get uploaded file: %w", err)
	}
	return f, nil
}

// ListRecent returns the latest uploads, newest first.
func (r *FileRepo) ListRecent(ctx context.Context, limit int) ([]domain.UploadedFile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+fileColumns+` FROM uploaded_files ORDER BY upload_date DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list uploaded files: %w", err)
	}
	defer rows.Close()

	files := make([]domain.UploadedFile, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan uploaded file: %w", err)
		}
		files = append(files, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list uploaded files: %w", err)
	}
	return files, nil
}
