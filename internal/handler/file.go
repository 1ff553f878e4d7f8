package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"

	docstoreSvc "opsconsole/internal/domain/services/docstore"
	"opsconsole/internal/httputil"
)

// multipartOverhead leaves room for boundaries and form fields
const multipartOverhead = 1 << 20

// FileHandler handles uploads and downloads
type FileHandler struct {
	files          docstoreSvc.FileService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(files docstoreSvc.FileService, maxUploadBytes int64, logger *slog.Logger) *FileHandler {
	return &FileHandler{files: files, maxUploadBytes: maxUploadBytes, logger: logger}
}

// Upload stores a file in a folder
// POST /api/folders/{id}/files (multipart, field "file", optional field "name")
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	folderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUploadBytes + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds %s", humanize.Bytes(uint64(h.maxUploadBytes))))
			return
		}
		httputil.RespondError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	part, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Failed to read upload")
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}

	file, err := h.files.UploadFile(r.Context(), p, &docstoreSvc.UploadFileRequest{
		FolderID: folderID,
		Name:     name,
		Data:     data,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, file)
}

// SignedURL returns a time-limited download link
// GET /api/files/{id}/url
func (h *FileHandler) SignedURL(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	signed, err := h.files.SignedURL(r.Context(), p, id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, signed)
}

// Download streams the file bytes
// GET /api/files/{id}/content
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	file, data, err := h.files.Download(r.Context(), p, id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	contentType := file.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
