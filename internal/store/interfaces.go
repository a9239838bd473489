// Package store defines the persistence interfaces the services depend on.
// The db package implements them against PostgreSQL; tests use mocks.
package store

import (
	"context"

	"github.com/conserv-tt/conserv-backend/types"
)

// ReceiptStore persists customer receipts.
type ReceiptStore interface {
	// CreateReceipt saves a receipt and its lines, filling ID, Subtotal and
	// CreatedAt on the passed receipt.
	CreateReceipt(ctx context.Context, receipt *types.Receipt) error
	GetReceipt(ctx context.Context, id int64) (*types.Receipt, error)
	ListReceipts(ctx context.Context, limit, offset int) ([]*types.Receipt, int, error)
}

// PurchaseStore persists supplier purchase invoices.
type PurchaseStore interface {
	SavePurchase(ctx context.Context, inv *types.PurchaseInvoice) error
	GetPurchase(ctx context.Context, id int64) (*types.PurchaseInvoice, error)
	ListPurchases(ctx context.Context, limit, offset int) ([]*types.PurchaseInvoice, int, error)
}

// ExpenseStore persists operating expenses.
type ExpenseStore interface {
	SaveExpenses(ctx context.Context, entries []types.ExpenseEntry) ([]types.ExpenseEntry, error)
	ListExpenses(ctx context.Context, limit, offset int) ([]types.ExpenseEntry, int, error)
}

// FileStore holds uploaded documents. Keys are the upload IDs handed back to
// clients and accepted by extraction endpoints.
type FileStore interface {
	// Put stores a file under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	// Get returns a stored file's bytes and content type.
	Get(ctx context.Context, key string) ([]byte, string, error)
}
