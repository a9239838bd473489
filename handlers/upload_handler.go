package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/conserv-tt/conserv-backend/errors"
	"github.com/conserv-tt/conserv-backend/logger"
	"github.com/conserv-tt/conserv-backend/types"
	"github.com/gin-gonic/gin"
)

// UploadOps is the slice of the upload service the handler needs.
type UploadOps interface {
	Save(ctx context.Context, filename string, data []byte) (*types.UploadedFile, error)
}

type UploadHandler struct {
	uploads UploadOps
}

func NewUploadHandler(uploads UploadOps) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Upload stores one or more files from the multipart "file" field. A single
// bad file fails the whole batch so callers never get a partial ID list.
func (h *UploadHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		_ = c.Error(errors.ValidationFailed("No file part", err.Error()))
		return
	}
	fileHeaders := form.File["file"]
	if len(fileHeaders) == 0 {
		_ = c.Error(errors.ValidationFailed("No files uploaded", "multipart field \"file\" is empty"))
		return
	}

	saved := make([]types.UploadedFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		if fh.Filename == "" {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			_ = c.Error(errors.ValidationFailed("Unreadable upload", fh.Filename))
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			_ = c.Error(errors.ValidationFailed("Unreadable upload", fh.Filename))
			return
		}

		uploaded, err := h.uploads.Save(c.Request.Context(), fh.Filename, data)
		if err != nil {
			_ = c.Error(err)
			return
		}
		saved = append(saved, *uploaded)
	}

	if len(saved) == 0 {
		_ = c.Error(errors.ValidationFailed("Nothing saved", "no usable files in request"))
		return
	}

	logger.GetLogger().Infow("Files uploaded", "count", len(saved))
	c.JSON(http.StatusOK, types.UploadResponse{OK: true, Files: saved})
}
