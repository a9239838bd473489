package services

import (
	"context"
	"strings"

	"github.com/conserv-tt/conserv-backend/cart"
	"github.com/conserv-tt/conserv-backend/errors"
	"github.com/conserv-tt/conserv-backend/internal/store"
	"github.com/conserv-tt/conserv-backend/logger"
	"github.com/conserv-tt/conserv-backend/types"
)

// ReceiptService creates receipts from the billing cart and notifies
// dispatch.
type ReceiptService struct {
	receipts   store.ReceiptStore
	carts      cart.Store
	dispatcher WADispatcher
}

func NewReceiptService(receipts store.ReceiptStore, carts cart.Store, dispatcher WADispatcher) *ReceiptService {
	return &ReceiptService{receipts: receipts, carts: carts, dispatcher: dispatcher}
}

// trimToNull trims a customer field; blank values become nil so they store
// as NULL.
func trimToNull(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// validateLines rejects payloads that cannot form a receipt: no lines at
// all, or any line with a non-positive quantity or negative price.
func validateLines(lines []types.ReceiptLine) error {
	if len(lines) == 0 {
		return errors.EmptyCart()
	}
	for _, l := range lines {
		if strings.TrimSpace(l.ItemName) == "" {
			return errors.ValidationFailed("Receipt line is missing an item name", "")
		}
		if l.Quantity <= 0 {
			return errors.ValidationFailed("Receipt line quantity must be positive", l.ItemName)
		}
		if l.UnitPrice < 0 {
			return errors.ValidationFailed("Receipt line price cannot be negative", l.ItemName)
		}
	}
	return nil
}

// Create persists a receipt from the submitted payload, dispatches the
// WhatsApp summary, and clears the session's cart. The cart is cleared only
// after the receipt is stored; a failed dispatch message does not undo the
// receipt.
func (s *ReceiptService) Create(ctx context.Context, sessionID string, payload *types.ReceiptPayload, createdBy string) (*types.Receipt, *types.WADispatchStatus, error) {
	if err := validateLines(payload.Lines); err != nil {
		return nil, nil, err
	}

	receipt := &types.Receipt{
		CustomerName:    trimToNull(payload.CustomerName),
		CustomerPhone:   trimToNull(payload.CustomerPhone),
		CustomerAddress: trimToNull(payload.CustomerAddress),
		Notes:           strings.TrimSpace(payload.Notes),
		Location:        payload.Location,
		Lines:           payload.Lines,
		CreatedBy:       createdBy,
	}

	if err := s.receipts.CreateReceipt(ctx, receipt); err != nil {
		return nil, nil, err
	}

	waStatus := s.dispatcher.DispatchReceipt(ctx, receipt)

	if sessionID != "" {
		if err := s.carts.Clear(ctx, sessionID); err != nil {
			// The receipt exists; a stale cart is recoverable by the client.
			logger.GetLogger().Warnw("Failed to clear cart after receipt",
				"sessionID", sessionID, "receiptID", receipt.ID, "error", err)
		}
	}

	return receipt, waStatus, nil
}

// Get loads a receipt for the print view.
func (s *ReceiptService) Get(ctx context.Context, id int64) (*types.Receipt, error) {
	return s.receipts.GetReceipt(ctx, id)
}

// List returns recent receipts.
func (s *ReceiptService) List(ctx context.Context, limit, offset int) ([]*types.Receipt, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.receipts.ListReceipts(ctx, limit, offset)
}
