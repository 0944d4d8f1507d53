package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"connectly/internal/httputil"
	"connectly/internal/model"
)

type MediaHandler struct {
	uploader ImageUploader
	logger   *slog.Logger
}

// NewMediaHandler wires the image uploader. A nil uploader means object
// storage is not configured and uploads answer 503.
func NewMediaHandler(uploader ImageUploader, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{uploader: uploader, logger: logger}
}

// UploadImage handles POST /media/images
// Expects multipart/form-data with the file in the "image" field. The
// response carries the file_size and dimensions an image post needs.
func (h *MediaHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		httputil.WriteError(w, http.StatusServiceUnavailable, httputil.ErrCodeInternal, "Media storage is not configured")
		return
	}

	maxFormSize := int64(model.MaxImageSizeBytes) + 1024*1024 // allow form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, http.ErrNotMultipart):
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
		case errors.As(err, &tooLarge):
			h.writeTooLarge(w)
		default:
			httputil.WriteBadRequest(w, "Invalid form data")
		}
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httputil.WriteBadRequest(w, "Image file is required")
		return
	}
	defer file.Close()

	upload, err := h.uploader.UploadImage(r.Context(), file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		switch {
		case errors.Is(err, model.ErrFileTooLarge):
			h.writeTooLarge(w)
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequestWithCode(w, model.CodeInvalidImageType, "Unsupported image type. Allowed: jpeg, png, gif")
		default:
			h.logger.ErrorContext(r.Context(), "image upload failed", "err", err)
			httputil.WriteInternalError(w, "Failed to upload image")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, upload)
}

func (h *MediaHandler) writeTooLarge(w http.ResponseWriter) {
	httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, fmt.Sprintf("Image exceeds %dMB limit", model.MaxImageSizeBytes>>20))
}
