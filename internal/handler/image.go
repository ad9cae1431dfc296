package handler

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/queue"
	queue_publisher "github.com/iliyamo/hotel-booking/internal/service"
)

// ImageHandler accepts multipart image uploads, stores them under the
// configured directory and hands them to the resize worker via the broker.
type ImageHandler struct {
	UploadDir string
}

func NewImageHandler(uploadDir string) *ImageHandler {
	return &ImageHandler{UploadDir: uploadDir}
}

// allowedImageExt guards against arbitrary file uploads.
var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Upload saves a multipart "file" part under a random name and publishes an
// image.uploaded event.  The response returns the stored path; renditions
// appear asynchronously next to it.
func (h *ImageHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file part required"})
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedImageExt[ext] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "only jpg/jpeg/png allowed"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read upload failed"})
	}
	defer src.Close()

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
	}
	// Random name so uploads never collide or overwrite.
	name := uuid.NewString() + ext
	path := filepath.Join(h.UploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(path)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
	}

	// Best-effort event; the file is already on disk.
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishImageUploaded(pubCtx, queue.ImageUploadedEvent{
			Path:       path,
			UploadedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}()

	return c.JSON(http.StatusCreated, echo.Map{"path": path, "name": name})
}
