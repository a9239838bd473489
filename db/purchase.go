package db

import (
	"context"
	stderrors "errors"

	"github.com/conserv-tt/conserv-backend/errors"
	"github.com/conserv-tt/conserv-backend/types"
	"github.com/jackc/pgx/v5"
)

// PurchaseDB persists supplier purchase invoices.
type PurchaseDB struct {
	client *DatabaseClient
}

func NewPurchaseDB(client *DatabaseClient) *PurchaseDB {
	return &PurchaseDB{client: client}
}

// SavePurchase inserts the invoice and its lines in one transaction,
// filling ID and CreatedAt.
func (pdb *PurchaseDB) SavePurchase(ctx context.Context, inv *types.PurchaseInvoice) error {
	tx, err := pdb.client.GetPool().Begin(ctx)
	if err != nil {
		return errors.NewDatabaseError(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
        INSERT INTO purchases (supplier_name, invoice_number, invoice_date, currency, status, file_ids, tax, subtotal, total, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at`

	err = tx.QueryRow(
		ctx, query,
		inv.SupplierName,
		inv.InvoiceNumber,
		nullIfEmpty(inv.InvoiceDate),
		inv.Currency,
		inv.Status,
		inv.FileIDs,
		inv.Tax,
		inv.Subtotal,
		inv.Total,
		inv.CreatedBy,
	).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		return errors.NewDatabaseError(err)
	}

	lineQuery := `
        INSERT INTO purchase_lines (purchase_id, description, unit, qty, unit_price, line_total)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`
	for i := range inv.Lines {
		l := &inv.Lines[i]
		var lineID int64
		if err := tx.QueryRow(ctx, lineQuery, inv.ID, l.Description, l.Unit, l.Qty, l.UnitPrice, l.LineTotal).Scan(&lineID); err != nil {
			return errors.NewDatabaseError(err)
		}
		l.ID = &lineID
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.NewDatabaseError(err)
	}
	return nil
}

// GetPurchase loads an invoice with its lines.
func (pdb *PurchaseDB) GetPurchase(ctx context.Context, id int64) (*types.PurchaseInvoice, error) {
	query := `
        SELECT id, supplier_name, invoice_number, COALESCE(invoice_date::text, ''), currency, status, file_ids, tax, subtotal, total, created_by, created_at
        FROM purchases
        WHERE id = $1`

	var inv types.PurchaseInvoice
	err := pdb.client.GetPool().QueryRow(ctx, query, id).Scan(
		&inv.ID,
		&inv.SupplierName,
		&inv.InvoiceNumber,
		&inv.InvoiceDate,
		&inv.Currency,
		&inv.Status,
		&inv.FileIDs,
		&inv.Tax,
		&inv.Subtotal,
		&inv.Total,
		&inv.CreatedBy,
		&inv.CreatedAt,
	)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.NotFound("Purchase", id)
		}
		return nil, errors.NewDatabaseError(err)
	}

	lineQuery := `
        SELECT id, description, unit, qty, unit_price, line_total
        FROM purchase_lines
        WHERE purchase_id = $1
        ORDER BY id`
	rows, err := pdb.client.GetPool().Query(ctx, lineQuery, id)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var l types.PurchaseLine
		if err := rows.Scan(&l.ID, &l.Description, &l.Unit, &l.Qty, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, errors.NewDatabaseError(err)
		}
		inv.Lines = append(inv.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	return &inv, nil
}

// ListPurchases returns recent invoices without lines, newest first.
func (pdb *PurchaseDB) ListPurchases(ctx context.Context, limit, offset int) ([]*types.PurchaseInvoice, int, error) {
	var total int
	if err := pdb.client.GetPool().QueryRow(ctx, `SELECT COUNT(*) FROM purchases`).Scan(&total); err != nil {
		return nil, 0, errors.NewDatabaseError(err)
	}

	query := `
        SELECT id, supplier_name, invoice_number, COALESCE(invoice_date::text, ''), currency, status, file_ids, tax, subtotal, total, created_by, created_at
        FROM purchases
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2`
	rows, err := pdb.client.GetPool().Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, errors.NewDatabaseError(err)
	}
	defer rows.Close()

	var out []*types.PurchaseInvoice
	for rows.Next() {
		var inv types.PurchaseInvoice
		err := rows.Scan(
			&inv.ID, &inv.SupplierName, &inv.InvoiceNumber, &inv.InvoiceDate,
			&inv.Currency, &inv.Status, &inv.FileIDs, &inv.Tax, &inv.Subtotal,
			&inv.Total, &inv.CreatedBy, &inv.CreatedAt,
		)
		if err != nil {
			return nil, 0, errors.NewDatabaseError(err)
		}
		out = append(out, &inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewDatabaseError(err)
	}

	return out, total, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
