package db

import (
	"context"

	"github.com/conserv-tt/conserv-backend/errors"
	"github.com/conserv-tt/conserv-backend/types"
)

// ExpenseDB persists operating-expense entries.
type ExpenseDB struct {
	client *DatabaseClient
}

func NewExpenseDB(client *DatabaseClient) *ExpenseDB {
	return &ExpenseDB{client: client}
}

// SaveExpenses inserts a batch of expense entries in one transaction,
// filling IDs and CreatedAt on each entry.
func (edb *ExpenseDB) SaveExpenses(ctx context.Context, entries []types.ExpenseEntry) ([]types.ExpenseEntry, error) {
	tx, err := edb.client.GetPool().Begin(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
        INSERT INTO expenses (category, description, amount, expense_date, created_by)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`

	out := make([]types.ExpenseEntry, 0, len(entries))
	for _, e := range entries {
		err := tx.QueryRow(ctx, query, e.Category, e.Description, e.Amount, nullIfEmpty(e.Date), e.CreatedBy).
			Scan(&e.ID, &e.CreatedAt)
		if err != nil {
			return nil, errors.NewDatabaseError(err)
		}
		out = append(out, e)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	return out, nil
}

// ListExpenses returns recent expenses, newest first.
func (edb *ExpenseDB) ListExpenses(ctx context.Context, limit, offset int) ([]types.ExpenseEntry, int, error) {
	var total int
	if err := edb.client.GetPool().QueryRow(ctx, `SELECT COUNT(*) FROM expenses`).Scan(&total); err != nil {
		return nil, 0, errors.NewDatabaseError(err)
	}

	query := `
        SELECT id, category, description, amount, COALESCE(expense_date::text, ''), created_by, created_at
        FROM expenses
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2`
	rows, err := edb.client.GetPool().Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, errors.NewDatabaseError(err)
	}
	defer rows.Close()

	var out []types.ExpenseEntry
	for rows.Next() {
		var e types.ExpenseEntry
		if err := rows.Scan(&e.ID, &e.Category, &e.Description, &e.Amount, &e.Date, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, 0, errors.NewDatabaseError(err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewDatabaseError(err)
	}

	return out, total, nil
}
