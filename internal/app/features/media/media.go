// Package media accepts image uploads for content fields such as the hero
// background and returns the public URL to store in the section.
package media

import (
	"bufio"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	errorsfeature "github.com/advocatechambers/lawsite/internal/app/features/errors"
	"github.com/advocatechambers/lawsite/internal/app/system/auditlog"
	"github.com/advocatechambers/lawsite/internal/app/system/auth"
	"github.com/advocatechambers/lawsite/internal/app/system/jsonutil"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxUploadSize bounds a single upload.
const MaxUploadSize = 10 << 20 // 10MB

// allowedTypes maps sniffed content types to the extension they are stored under.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Handler provides the media upload endpoint.
type Handler struct {
	fileStorage storage.Store
	errLog      *errorsfeature.ErrorLogger
	auditLogger *auditlog.Logger
	logger      *zap.Logger
}

// NewHandler creates a new media Handler.
func NewHandler(fileStorage storage.Store, errLog *errorsfeature.ErrorLogger, auditLogger *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		fileStorage: fileStorage,
		errLog:      errLog,
		auditLogger: auditLogger,
		logger:      logger,
	}
}

// MountRoutes adds the upload endpoint to r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/media", h.upload)
}

// Upload describes a stored file.
type Upload struct {
	Path        string `json:"path"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
	Name        string `json:"name"`
}

// upload stores the multipart "file" field. The content type is sniffed
// from the bytes rather than taken from the client.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+1<<20)

	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		jsonutil.BadRequest(w, fmt.Sprintf("upload too large (max %s)", FormatFileSize(MaxUploadSize)))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonutil.ValidationError(w, map[string]string{"file": "is required"})
		return
	}
	defer file.Close()

	if header.Size > MaxUploadSize {
		jsonutil.BadRequest(w, fmt.Sprintf("upload too large (max %s)", FormatFileSize(MaxUploadSize)))
		return
	}

	br := bufio.NewReaderSize(file, 512)
	head, _ := br.Peek(512)
	contentType := http.DetectContentType(head)
	ext, ok := allowedTypes[contentType]
	if !ok {
		jsonutil.ValidationError(w, map[string]string{"file": "must be a JPEG, PNG, GIF or WebP image"})
		return
	}

	// Generate storage path: media/YYYY/MM/uuid.ext
	now := time.Now().UTC()
	storagePath := fmt.Sprintf("media/%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.NewString(), ext)

	opts := &storage.PutOptions{
		ContentType: contentType,
	}
	if err := h.fileStorage.Put(ctx, storagePath, br, opts); err != nil {
		h.errLog.Log(r, "failed to upload file", err)
		jsonutil.InternalError(w, "failed to store upload")
		return
	}

	h.auditLogger.MediaUploaded(r, auth.Actor(r), storagePath, header.Size)
	h.logger.Info("media uploaded",
		zap.String("path", storagePath),
		zap.Int64("size", header.Size),
		zap.String("content_type", contentType))

	jsonutil.Created(w, Upload{
		Path:        storagePath,
		URL:         h.fileStorage.URL(storagePath),
		Size:        header.Size,
		ContentType: contentType,
		Name:        cleanName(header.Filename),
	})
}

// cleanName reduces a client file name to its base name.
func cleanName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	return path.Base(name)
}

// FormatFileSize formats a file size in bytes to a human-readable string.
func FormatFileSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
