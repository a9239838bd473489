package db

import (
	"context"
	"testing"
	"time"

	"github.com/conserv-tt/conserv-backend/errors"
	"github.com/conserv-tt/conserv-backend/types"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestReceiptDB_CreateReceipt(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rdb := NewReceiptDB(NewDatabaseClient(mock))

	receipt := &types.Receipt{
		CustomerName: strptr("John"),
		Notes:        "leave at gate",
		Location:     &types.GeoPoint{Lat: 10.65, Lng: -61.4},
		Lines: []types.ReceiptLine{
			{ItemName: "Sand (yd)", Unit: types.UnitYard, Quantity: 2, UnitPrice: 180},
			{ItemName: "Sand (bag)", Unit: types.UnitBag, Quantity: 3, UnitPrice: 35},
		},
		CreatedBy: "staff-1",
	}

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO receipts").
		WithArgs(receipt.CustomerName, pgxmock.AnyArg(), pgxmock.AnyArg(), "leave at gate",
			pgxmock.AnyArg(), pgxmock.AnyArg(), 465.0, "staff-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))
	mock.ExpectExec("INSERT INTO receipt_lines").
		WithArgs(int64(7), "Sand (yd)", "yd3", 2.0, 180.0, 360.0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO receipt_lines").
		WithArgs(int64(7), "Sand (bag)", "bag", 3.0, 35.0, 105.0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, rdb.CreateReceipt(context.Background(), receipt))

	// Subtotal is computed server-side from the lines.
	assert.Equal(t, 465.0, receipt.Subtotal)
	assert.Equal(t, int64(7), receipt.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiptDB_GetReceipt(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rdb := NewReceiptDB(NewDatabaseClient(mock))
	now := time.Now()
	lat, lng := 10.65, -61.4

	mock.ExpectQuery("SELECT (.+) FROM receipts").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "customer_name", "customer_phone", "customer_address",
			"notes", "lat", "lng", "subtotal", "created_by", "created_at",
		}).AddRow(int64(7), strptr("John"), (*string)(nil), (*string)(nil), "", &lat, &lng, 465.0, "staff-1", now))
	mock.ExpectQuery("SELECT (.+) FROM receipt_lines").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"item_name", "unit", "quantity", "unit_price"}).
			AddRow("Sand (yd)", "yd3", 2.0, 180.0))

	receipt, err := rdb.GetReceipt(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, receipt.Location)
	assert.Equal(t, 10.65, receipt.Location.Lat)
	require.Len(t, receipt.Lines, 1)
	assert.Equal(t, types.UnitYard, receipt.Lines[0].Unit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiptDB_GetReceipt_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rdb := NewReceiptDB(NewDatabaseClient(mock))

	mock.ExpectQuery("SELECT (.+) FROM receipts").
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err = rdb.GetReceipt(context.Background(), 99)
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ReceiptNotFoundError, appErr.Type)
	assert.Contains(t, appErr.Detail, "99")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseDB_SaveExpenses(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	edb := NewExpenseDB(NewDatabaseClient(mock))
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO expenses").
		WithArgs("fuel", "diesel for loader", 250.0, pgxmock.AnyArg(), "staff-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))
	mock.ExpectCommit()

	saved, err := edb.SaveExpenses(context.Background(), []types.ExpenseEntry{
		{Category: "fuel", Description: "diesel for loader", Amount: 250, Date: "2026-08-27", CreatedBy: "staff-1"},
	})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, int64(1), saved[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
