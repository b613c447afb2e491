package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dat-archive/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AuthEnvelope wraps verify-code and current-user responses.
type AuthEnvelope struct {
	Success bool             `json:"success,omitempty"`
	User    *domain.Identity `json:"user,omitempty"`
}

// UploadEnvelope wraps a completed CSV import.
type UploadEnvelope struct {
	Success  bool    `json:"success"`
	Filename string  `json:"filename"`
	RowCount int     `json:"rowCount"`
	FileDate *string `json:"fileDate"`
}

// DuplicateEnvelope reports a filename that was already imported.
type DuplicateEnvelope struct {
	Error    string `json:"error"`
	Filename string `json:"filename"`
}

// FilesEnvelope wraps the upload history.
type FilesEnvelope struct {
	Files []domain.UploadedFile `json:"files"`
	Count int                   `json:"count"`
}

// SummaryEnvelope wraps a summary regeneration run.
type SummaryEnvelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// statusFor maps domain sentinels to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeInternal logs err and answers 500 with msg only.
func writeInternal(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.ErrorContext(r.Context(), msg, "path", r.URL.Path, "err", err)
	writeError(w, http.StatusInternalServerError, msg)
}
