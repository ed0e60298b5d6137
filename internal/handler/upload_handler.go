package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rpm-system/rpm-backend/internal/apperr"
	"github.com/rpm-system/rpm-backend/internal/dto"
)

// maxUploadSize caps cover and avatar images at 5 MB.
const maxUploadSize = 5 << 20

// UploadHandler stores uploaded images on local disk and serves them
// back through the /uploads static route.
type UploadHandler struct {
	dir string
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(dir string) *UploadHandler {
	return &UploadHandler{dir: dir}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		writeError(c, apperr.Validation("No file uploaded"))
		return
	}

	if file.Size > maxUploadSize {
		writeError(c, apperr.Validation("File too large"))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		writeError(c, apperr.Validation("Unsupported file type"))
		return
	}

	// never trust the client filename
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.New().String(), ext)

	if err := c.SaveUploadedFile(file, filepath.Join(h.dir, name)); err != nil {
		writeError(c, apperr.Internal("Failed to store file", err))
		return
	}

	c.JSON(http.StatusOK, dto.UploadResponse{URL: "/uploads/" + name})
}
