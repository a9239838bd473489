package services

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/conserv-tt/conserv-backend/config"
	"github.com/conserv-tt/conserv-backend/errors"
	"github.com/conserv-tt/conserv-backend/internal/ai"
	"github.com/conserv-tt/conserv-backend/internal/store"
	"github.com/conserv-tt/conserv-backend/logger"
	"github.com/conserv-tt/conserv-backend/types"
	"github.com/gabriel-vasile/mimetype"
)

// Extensions accepted for uploads: the image formats the vision extraction
// handles, plus PDF.
var allowedUploadExts = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "webp": true, "gif": true, "pdf": true,
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// UploadService stores uploaded documents and serves them back to the
// extraction flows.
type UploadService struct {
	files store.FileStore
	cfg   config.UploadConfig
	now   func() time.Time
}

func NewUploadService(files store.FileStore, cfg config.UploadConfig) *UploadService {
	return &UploadService{files: files, cfg: cfg, now: time.Now}
}

// sanitizeFilename flattens a client filename to a safe single-segment name.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	return strings.Trim(name, "._")
}

// Save validates and stores one uploaded file, returning its descriptor.
// The storage key doubles as the file ID that extraction endpoints accept.
func (s *UploadService) Save(ctx context.Context, filename string, data []byte) (*types.UploadedFile, error) {
	if int64(len(data)) > s.cfg.MaxSizeBytes {
		return nil, errors.ValidationFailed("File too large", filename)
	}

	clean := sanitizeFilename(filename)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(clean), "."))
	if clean == "" || !allowedUploadExts[ext] {
		return nil, errors.ValidationFailed("Unsupported file type", filename)
	}

	// The declared extension must agree with the detected content type.
	detected := mimetype.Detect(data)
	if !extensionMatchesType(ext, detected) {
		logger.GetLogger().Warnw("Upload extension does not match content",
			"filename", clean, "detected", detected.String())
		return nil, errors.ValidationFailed("File content does not match its extension", filename)
	}

	// Timestamp prefix disambiguates duplicate names.
	key := fmt.Sprintf("%d_%s", s.now().UnixMilli(), clean)
	url, err := s.files.Put(ctx, key, detected.String(), data)
	if err != nil {
		return nil, errors.ExternalServiceError("storage", err)
	}

	return &types.UploadedFile{
		ID:       key,
		Filename: key,
		Ext:      ext,
		URL:      url,
	}, nil
}

func extensionMatchesType(ext string, detected *mimetype.MIME) bool {
	switch ext {
	case "jpg", "jpeg":
		return detected.Is("image/jpeg")
	case "png":
		return detected.Is("image/png")
	case "webp":
		return detected.Is("image/webp")
	case "gif":
		return detected.Is("image/gif")
	case "pdf":
		return detected.Is("application/pdf")
	}
	return false
}

// Fetch loads stored files for a vision extraction. A missing file is a
// validation error naming the ID so staff can re-upload it.
func (s *UploadService) Fetch(ctx context.Context, fileIDs []string) ([]ai.File, error) {
	files := make([]ai.File, 0, len(fileIDs))
	for _, id := range fileIDs {
		key := sanitizeFilename(id)
		data, contentType, err := s.files.Get(ctx, key)
		if err != nil {
			return nil, errors.ValidationFailed("File not found", id)
		}
		if contentType == "" {
			contentType = mimetype.Detect(data).String()
		}
		files = append(files, ai.File{MIMEType: contentType, Data: data})
	}
	return files, nil
}
