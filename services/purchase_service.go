package services

import (
	"context"
	"strings"

	"github.com/conserv-tt/conserv-backend/errors"
	"github.com/conserv-tt/conserv-backend/internal/ai"
	"github.com/conserv-tt/conserv-backend/internal/store"
	"github.com/conserv-tt/conserv-backend/purchase"
	"github.com/conserv-tt/conserv-backend/types"
)

// PurchaseService backs the supplier invoice editor: AI extraction from
// documents or pasted text, and draft persistence.
type PurchaseService struct {
	purchases store.PurchaseStore
	adviser   ai.Adviser
	uploads   *UploadService
	currency  string
}

func NewPurchaseService(purchases store.PurchaseStore, adviser ai.Adviser, uploads *UploadService, currency string) *PurchaseService {
	return &PurchaseService{purchases: purchases, adviser: adviser, uploads: uploads, currency: currency}
}

// ExtractFromFiles runs invoice extraction over previously uploaded files.
func (s *PurchaseService) ExtractFromFiles(ctx context.Context, fileIDs []string) (*types.ExtractedInvoice, error) {
	if len(fileIDs) == 0 {
		return nil, errors.ValidationFailed("file_ids must be a non-empty list", "")
	}
	files, err := s.uploads.Fetch(ctx, fileIDs)
	if err != nil {
		return nil, err
	}
	return s.adviser.ExtractInvoiceFromFiles(ctx, files)
}

// ParseText runs invoice extraction over pasted free text.
func (s *PurchaseService) ParseText(ctx context.Context, text string) (*types.ExtractedInvoice, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.ValidationFailed("Text is required", "")
	}
	return s.adviser.ExtractInvoiceFromText(ctx, text)
}

// Save validates and persists an invoice as a draft. Totals are recomputed
// server-side; client-sent totals are never trusted.
func (s *PurchaseService) Save(ctx context.Context, inv *types.PurchaseInvoice, createdBy string) (*types.PurchaseInvoice, error) {
	if err := purchase.ValidateForSave(inv); err != nil {
		return nil, err
	}

	editor := purchase.NewEditor(s.currency)
	editor.Invoice = *inv
	if editor.Invoice.Currency == "" {
		editor.Invoice.Currency = s.currency
	}
	editor.Invoice.Status = types.PurchaseStatusDraft
	editor.Invoice.CreatedBy = createdBy
	if editor.Invoice.FileIDs == nil {
		editor.Invoice.FileIDs = []string{}
	}
	editor.Recompute()

	if err := s.purchases.SavePurchase(ctx, &editor.Invoice); err != nil {
		return nil, err
	}
	return &editor.Invoice, nil
}

// Get loads a saved invoice.
func (s *PurchaseService) Get(ctx context.Context, id int64) (*types.PurchaseInvoice, error) {
	return s.purchases.GetPurchase(ctx, id)
}

// List returns recent invoices.
func (s *PurchaseService) List(ctx context.Context, limit, offset int) ([]*types.PurchaseInvoice, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.purchases.ListPurchases(ctx, limit, offset)
}
