package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/vidshelf/backend/internal/logging"
	"github.com/vidshelf/backend/internal/service"
)

// MaxImageBytes caps the size of an uploaded image.
const MaxImageBytes = 5 << 20

// ImageHandler accepts thumbnail uploads for use as a video's imageUrl.
type ImageHandler struct {
	Store ImageStore
}

type imageResponse struct {
	Message  string `json:"message"`
	ImageURL string `json:"imageUrl"`
}

// Upload handles POST /images with a multipart "image" field.
func (h ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Store == nil {
		respondMessage(ctx, w, http.StatusServiceUnavailable, "Image uploads are not configured.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxImageBytes+(1<<20))
	if err := r.ParseMultipartForm(MaxImageBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(ctx, w, imageError("Image must be at most 5 MiB"))
			return
		}
		logger.Warn("invalid image upload", "error", err)
		respondMessage(ctx, w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(ctx, w, imageError("No image provided"))
		return
	}
	defer file.Close()

	if header.Size > MaxImageBytes {
		writeError(ctx, w, imageError("Image must be at most 5 MiB"))
		return
	}

	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		writeError(ctx, w, err)
		return
	}
	contentType := http.DetectContentType(sniff[:n])
	if !strings.HasPrefix(contentType, "image/") {
		writeError(ctx, w, imageError("File must be an image"))
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		writeError(ctx, w, err)
		return
	}

	name := "images/" + uuid.NewString() + imageExtension(header.Filename, contentType)
	location, err := h.Store.Save(ctx, name, file)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	logger.Info("image uploaded", "key", name, "content_type", contentType, "size", header.Size)
	respondJSON(ctx, w, http.StatusCreated, imageResponse{Message: "Image uploaded", ImageURL: location})
}

func imageError(message string) error {
	return &service.ValidationError{Fields: []service.FieldError{{Field: "image", Message: message}}}
}

func imageExtension(filename, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" && mime.TypeByExtension(ext) == contentType {
		return ext
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
