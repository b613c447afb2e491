package file

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/dat-archive/internal/domain"
	"github.com/dat-archive/internal/metrics"
	"github.com/dat-archive/internal/pkg/id"
)

const (
	// ListLimit caps the number of uploads returned by List.
	ListLimit = 100
	// DownloadURLTTL is how long a presigned download link stays valid.
	DownloadURLTTL = 15 * time.Minute
)

var (
	ErrEmptyCSV   = fmt.Errorf("CSV file is empty: %w", domain.ErrBadRequest)
	ErrInvalidCSV = fmt.Errorf("invalid CSV file: %w", domain.ErrBadRequest)
)

type UploadInput struct {
	Reader     io.Reader
	Filename   string
	UploadedBy string
}

// FileStore reads upload records.
type FileStore interface {
	ExistsByFilename(ctx context.Context, filename string) (bool, error)
	Get(ctx context.Context, id int64) (*domain.UploadedFile, error)
	ListRecent(ctx context.Context, limit int) ([]domain.UploadedFile, error)
}

// RateImporter writes parsed rows and the upload record atomically.
type RateImporter interface {
	ImportFile(ctx context.Context, f *domain.UploadedFile, rows []domain.RateRow) error
}

// ObjectStore archives raw uploads.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// ImportListener is told about every completed import.
type ImportListener interface {
	FileImported(ctx context.Context, f *domain.UploadedFile)
}

type Service interface {
	Upload(ctx context.Context, input UploadInput) (*domain.UploadedFile, error)
	List(ctx context.Context) ([]domain.UploadedFile, error)
	DownloadURL(ctx context.Context, fileID int64) (string, error)
}

type service struct {
	files    FileStore
	rates    RateImporter
	objects  ObjectStore
	listener ImportListener
	recorder metrics.Recorder
}

// NewService builds the upload service. objects and listener may be nil,
// which disables archiving and import notifications.
func NewService(files FileStore, rates RateImporter, objects ObjectStore, listener ImportListener, recorder metrics.Recorder) Service {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &service{files: files, rates: rates, objects: objects, listener: listener, recorder: recorder}
}

func (s *service) Upload(ctx context.Context, input UploadInput) (*domain.UploadedFile, error) {
	filename := path.Base(strings.ReplaceAll(input.Filename, `\`, "/"))
	if input.Reader == nil || filename == "" || filename == "." || filename == "/" {
		return nil, fmt.Errorf("no file uploaded: %w", domain.ErrBadRequest)
	}

	exists, err := s.files.ExistsByFilename(ctx, filename)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("file already uploaded: %w", domain.ErrConflict)
	}

	data, err := io.ReadAll(input.Reader)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	rows, err := ParseRates(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCSV, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyCSV
	}

	f := &domain.UploadedFile{
		Filename:   filename,
		FileDate:   DateFromFilename(filename),
		UploadedBy: input.UploadedBy,
	}

	if s.objects != nil {
		key := fmt.Sprintf("uploads/%s/%s", id.New(), sanitizeFilename(filename))
		if err := s.objects.Upload(ctx, key, bytes.NewReader(data), "text/csv"); err != nil {
			return nil, err
		}
		f.ObjectKey = &key
	}

	if err := s.rates.ImportFile(ctx, f, rows); err != nil {
		if f.ObjectKey != nil {
			if derr := s.objects.Delete(ctx, *f.ObjectKey); derr != nil {
				slog.WarnContext(ctx, "failed to remove archived upload", "key", *f.ObjectKey, "err", derr)
			}
		}
		return nil, err
	}
	s.recorder.RecordRowsImported(len(rows))

	if s.listener != nil {
		s.listener.FileImported(ctx, f)
	}
	return f, nil
}

func (s *service) List(ctx context.Context) ([]domain.UploadedFile, error) {
	return s.files.ListRecent(ctx, ListLimit)
}

func (s *service) DownloadURL(ctx context.Context, fileID int64) (string, error) {
	f, err := s.files.Get(ctx, fileID)
	if err != nil {
		return "", err
	}
	if s.objects == nil || f.ObjectKey == nil {
		return "", fmt.Errorf("file %d has no archived copy: %w", fileID, domain.ErrNotFound)
	}
	return s.objects.PresignedURL(ctx, *f.ObjectKey, DownloadURLTTL)
}

// sanitizeFilename strips directory components and keeps only safe characters
// (alphanumeric, dot, dash, underscore) for use in object keys.
func sanitizeFilename(name string) string {
	name = path.Base(name)
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	switch result := b.String(); result {
	case "", ".", "..":
		return "_"
	default:
		return result
	}
}
