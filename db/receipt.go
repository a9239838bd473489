package db

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"

	"github.com/conserv-tt/conserv-backend/errors"
	"github.com/conserv-tt/conserv-backend/types"
	"github.com/jackc/pgx/v5"
)

// ReceiptDB persists customer receipts and their lines.
type ReceiptDB struct {
	client *DatabaseClient
}

func NewReceiptDB(client *DatabaseClient) *ReceiptDB {
	return &ReceiptDB{client: client}
}

// CreateReceipt inserts the receipt and its lines in one transaction,
// filling ID and CreatedAt on the passed receipt. The subtotal is computed
// here from the lines, never taken from the client.
func (rdb *ReceiptDB) CreateReceipt(ctx context.Context, receipt *types.Receipt) error {
	subtotal := 0.0
	for _, l := range receipt.Lines {
		subtotal += l.Quantity * l.UnitPrice
	}
	receipt.Subtotal = math.Round(subtotal*100) / 100

	tx, err := rdb.client.GetPool().Begin(ctx)
	if err != nil {
		return errors.NewDatabaseError(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var lat, lng *float64
	if receipt.Location != nil {
		lat, lng = &receipt.Location.Lat, &receipt.Location.Lng
	}

	query := `
        INSERT INTO receipts (customer_name, customer_phone, customer_address, notes, lat, lng, subtotal, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at`

	err = tx.QueryRow(
		ctx, query,
		receipt.CustomerName,
		receipt.CustomerPhone,
		receipt.CustomerAddress,
		receipt.Notes,
		lat,
		lng,
		receipt.Subtotal,
		receipt.CreatedBy,
	).Scan(&receipt.ID, &receipt.CreatedAt)
	if err != nil {
		return errors.NewDatabaseError(err)
	}

	lineQuery := `
        INSERT INTO receipt_lines (receipt_id, item_name, unit, quantity, unit_price, line_total)
        VALUES ($1, $2, $3, $4, $5, $6)`
	for _, l := range receipt.Lines {
		lineTotal := math.Round(l.Quantity*l.UnitPrice*100) / 100
		if _, err := tx.Exec(ctx, lineQuery, receipt.ID, l.ItemName, string(l.Unit), l.Quantity, l.UnitPrice, lineTotal); err != nil {
			return errors.NewDatabaseError(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.NewDatabaseError(err)
	}
	return nil
}

// GetReceipt loads a receipt with its lines.
func (rdb *ReceiptDB) GetReceipt(ctx context.Context, id int64) (*types.Receipt, error) {
	query := `
        SELECT id, customer_name, customer_phone, customer_address, notes, lat, lng, subtotal, created_by, created_at
        FROM receipts
        WHERE id = $1`

	var receipt types.Receipt
	var lat, lng *float64
	err := rdb.client.GetPool().QueryRow(ctx, query, id).Scan(
		&receipt.ID,
		&receipt.CustomerName,
		&receipt.CustomerPhone,
		&receipt.CustomerAddress,
		&receipt.Notes,
		&lat,
		&lng,
		&receipt.Subtotal,
		&receipt.CreatedBy,
		&receipt.CreatedAt,
	)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ReceiptNotFound(id)
		}
		return nil, errors.NewDatabaseError(err)
	}
	if lat != nil && lng != nil {
		receipt.Location = &types.GeoPoint{Lat: *lat, Lng: *lng}
	}

	lineQuery := `
        SELECT item_name, unit, quantity, unit_price
        FROM receipt_lines
        WHERE receipt_id = $1
        ORDER BY id`
	rows, err := rdb.client.GetPool().Query(ctx, lineQuery, id)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var l types.ReceiptLine
		var unit string
		if err := rows.Scan(&l.ItemName, &unit, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, errors.NewDatabaseError(err)
		}
		l.Unit = types.Unit(unit)
		receipt.Lines = append(receipt.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	return &receipt, nil
}

// ListReceipts returns recent receipts without their lines, newest first.
func (rdb *ReceiptDB) ListReceipts(ctx context.Context, limit, offset int) ([]*types.Receipt, int, error) {
	var total int
	if err := rdb.client.GetPool().QueryRow(ctx, `SELECT COUNT(*) FROM receipts`).Scan(&total); err != nil {
		return nil, 0, errors.NewDatabaseError(err)
	}

	query := `
        SELECT id, customer_name, customer_phone, customer_address, notes, lat, lng, subtotal, created_by, created_at
        FROM receipts
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2`
	rows, err := rdb.client.GetPool().Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, errors.NewDatabaseError(err)
	}
	defer rows.Close()

	var receipts []*types.Receipt
	for rows.Next() {
		var r types.Receipt
		var lat, lng *float64
		err := rows.Scan(
			&r.ID, &r.CustomerName, &r.CustomerPhone, &r.CustomerAddress,
			&r.Notes, &lat, &lng, &r.Subtotal, &r.CreatedBy, &r.CreatedAt,
		)
		if err != nil {
			return nil, 0, errors.NewDatabaseError(err)
		}
		if lat != nil && lng != nil {
			r.Location = &types.GeoPoint{Lat: *lat, Lng: *lng}
		}
		receipts = append(receipts, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewDatabaseError(fmt.Errorf("listing receipts: %w", err))
	}

	return receipts, total, nil
}
