package services

import (
	"context"
	"testing"
	"time"

	"github.com/conserv-tt/conserv-backend/config"
	"github.com/conserv-tt/conserv-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
	pdfBytes = []byte("%PDF-1.4\n%stub\n")
)

func newTestUploads() *UploadService {
	svc := NewUploadService(storage.NewMemoryFileStore(), config.UploadConfig{MaxSizeBytes: 1 << 20})
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc
}

func TestUploadService_Save(t *testing.T) {
	svc := newTestUploads()

	file, err := svc.Save(context.Background(), "site plan.png", pngBytes)
	require.NoError(t, err)

	// Timestamp prefix plus sanitized name.
	assert.Equal(t, "1700000000000_site_plan.png", file.ID)
	assert.Equal(t, "png", file.Ext)
	assert.NotEmpty(t, file.URL)
}

func TestUploadService_Save_RejectsBadUploads(t *testing.T) {
	svc := newTestUploads()
	ctx := context.Background()

	// Disallowed extension.
	_, err := svc.Save(ctx, "notes.txt", []byte("hello"))
	assert.Error(t, err)

	// Extension lying about content.
	_, err = svc.Save(ctx, "invoice.pdf", pngBytes)
	assert.Error(t, err)

	// Oversized file.
	svc.cfg.MaxSizeBytes = 4
	_, err = svc.Save(ctx, "plan.png", pngBytes)
	assert.Error(t, err)
}

func TestUploadService_Fetch(t *testing.T) {
	svc := newTestUploads()
	ctx := context.Background()

	saved, err := svc.Save(ctx, "invoice.pdf", pdfBytes)
	require.NoError(t, err)

	files, err := svc.Fetch(ctx, []string{saved.ID})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "application/pdf", files[0].MIMEType)
	assert.Equal(t, pdfBytes, files[0].Data)

	_, err = svc.Fetch(ctx, []string{"missing.png"})
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "site_plan.png", sanitizeFilename("site plan.png"))
	assert.Equal(t, "passwd", sanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "a.pdf", sanitizeFilename("..\\a.pdf"))
}
