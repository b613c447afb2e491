package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dat-archive/internal/application/file"
	"github.com/dat-archive/internal/domain"
	"github.com/dat-archive/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// MaxUploadBytes bounds the whole upload request body.
const MaxUploadBytes = 32 << 20

// FileHandler handles CSV uploads and the upload history.
type FileHandler struct {
	files    file.Service
	maxBytes int64
}

func NewFileHandler(files file.Service) *FileHandler {
	return &FileHandler{files: files, maxBytes: MaxUploadBytes}
}

func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	src, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer src.Close()

	var uploadedBy string
	if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		uploadedBy = identity.Email
	}

	f, err := h.files.Upload(r.Context(), file.UploadInput{
		Reader:     src,
		Filename:   header.Filename,
		UploadedBy: uploadedBy,
	})
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, DuplicateEnvelope{Error: "File already uploaded", Filename: header.Filename})
		return
	case errors.Is(err, file.ErrEmptyCSV):
		writeError(w, http.StatusBadRequest, "CSV file is empty")
		return
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, "Invalid CSV file")
		return
	default:
		writeInternal(w, r, "Failed to process file", err)
		return
	}

	resp := UploadEnvelope{Success: true, Filename: f.Filename, RowCount: f.RowCount}
	if f.FileDate != nil {
		d := f.FileDate.Format("2006-01-02")
		resp.FileDate = &d
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	files, err := h.files.List(r.Context())
	if err != nil {
		writeInternal(w, r, "Failed to fetch files", err)
		return
	}
	if files == nil {
		files = []domain.UploadedFile{}
	}
	writeJSON(w, http.StatusOK, FilesEnvelope{Files: files, Count: len(files)})
}

// Download redirects to a short-lived link for the archived raw file.
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	fileID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || fileID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid file id")
		return
	}
	url, err := h.files.DownloadURL(r.Context(), fileID)
	if err != nil {
		if statusFor(err) == http.StatusNotFound {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}
		writeInternal(w, r, "Failed to create download link", err)
		return
	}
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}
