package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/dat-archive/internal/domain"
)

// EventFileImported is published after a CSV import commits.
const EventFileImported = "file.imported"

// Publisher sends an event to the notification topic.
type Publisher interface {
	Publish(ctx context.Context, eventType, subject string, payload any) error
}

// FileImportedEvent is the message body for EventFileImported.
type FileImportedEvent struct {
	FileID     int64      `json:"file_id"`
	Filename   string     `json:"filename"`
	FileDate   *time.Time `json:"file_date,omitempty"`
	RowCount   int        `json:"row_count"`
	ObjectKey  *string    `json:"object_key,omitempty"`
	UploadedBy string     `json:"uploaded_by,omitempty"`
}

type Service interface {
	FileImported(ctx context.Context, f *domain.UploadedFile)
}

type service struct {
	publisher Publisher
}

// NewService returns a Service that drops every event when publisher is nil.
func NewService(publisher Publisher) Service {
	return &service{publisher: publisher}
}

// FileImported publishes the import. Failures are logged and never reach the uploader.
func (s *service) FileImported(ctx context.Context, f *domain.UploadedFile) {
	if s.publisher == nil {
		return
	}
	ev := FileImportedEvent{
		FileID:     f.ID,
		Filename:   f.Filename,
		FileDate:   f.FileDate,
		RowCount:   f.RowCount,
		ObjectKey:  f.ObjectKey,
		UploadedBy: f.UploadedBy,
	}
	if err := s.publisher.Publish(ctx, EventFileImported, "File imported: "+f.Filename, ev); err != nil {
		slog.WarnContext(ctx, "failed to publish import notification", "filename", f.Filename, "err", err)
	}
}
