package services

import (
	"context"
	"testing"

	"github.com/conserv-tt/conserv-backend/cart"
	"github.com/conserv-tt/conserv-backend/errors"
	"github.com/conserv-tt/conserv-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReceiptStore struct {
	mock.Mock
}

func (m *mockReceiptStore) CreateReceipt(ctx context.Context, receipt *types.Receipt) error {
	args := m.Called(ctx, receipt)
	if args.Error(0) == nil {
		receipt.ID = 42
		receipt.Subtotal = 465
	}
	return args.Error(0)
}

func (m *mockReceiptStore) GetReceipt(ctx context.Context, id int64) (*types.Receipt, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*types.Receipt), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReceiptStore) ListReceipts(ctx context.Context, limit, offset int) ([]*types.Receipt, int, error) {
	args := m.Called(ctx, limit, offset)
	return nil, 0, args.Error(2)
}

type stubDispatcher struct {
	status *types.WADispatchStatus
	called bool
}

func (d *stubDispatcher) DispatchReceipt(_ context.Context, _ *types.Receipt) *types.WADispatchStatus {
	d.called = true
	return d.status
}

func validPayload() *types.ReceiptPayload {
	name := "  John  "
	blank := "   "
	return &types.ReceiptPayload{
		CustomerName:  &name,
		CustomerPhone: &blank,
		Lines: []types.ReceiptLine{
			{ItemName: "Sand (yd)", Unit: types.UnitYard, Quantity: 2, UnitPrice: 180},
		},
	}
}

func TestReceiptService_Create(t *testing.T) {
	receipts := new(mockReceiptStore)
	carts := cart.NewMemoryStore()
	dispatcher := &stubDispatcher{status: &types.WADispatchStatus{SentText: true}}
	svc := NewReceiptService(receipts, carts, dispatcher)

	ctx := context.Background()
	_, err := carts.Add(ctx, "sess-1", types.CartEntry{ProductName: "Sand", Unit: types.UnitYard, Price: 180, Quantity: 2})
	require.NoError(t, err)

	receipts.On("CreateReceipt", mock.Anything, mock.AnythingOfType("*types.Receipt")).Return(nil)

	receipt, wa, err := svc.Create(ctx, "sess-1", validPayload(), "staff-1")
	require.NoError(t, err)

	assert.Equal(t, int64(42), receipt.ID)
	// Fields are trimmed; blank ones become NULL.
	require.NotNil(t, receipt.CustomerName)
	assert.Equal(t, "John", *receipt.CustomerName)
	assert.Nil(t, receipt.CustomerPhone)
	assert.True(t, dispatcher.called)
	assert.True(t, wa.SentText)

	// Cart is cleared on success.
	entries, err := carts.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, entries)
	receipts.AssertExpectations(t)
}

func TestReceiptService_Create_EmptyCartFailsBeforeStore(t *testing.T) {
	receipts := new(mockReceiptStore)
	svc := NewReceiptService(receipts, cart.NewMemoryStore(), &stubDispatcher{})

	_, _, err := svc.Create(context.Background(), "sess-1", &types.ReceiptPayload{}, "staff-1")
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.EmptyCartError, appErr.Type)
	receipts.AssertNotCalled(t, "CreateReceipt", mock.Anything, mock.Anything)
}

func TestReceiptService_Create_InvalidLine(t *testing.T) {
	receipts := new(mockReceiptStore)
	svc := NewReceiptService(receipts, cart.NewMemoryStore(), &stubDispatcher{})

	payload := validPayload()
	payload.Lines[0].Quantity = 0
	_, _, err := svc.Create(context.Background(), "s", payload, "staff-1")
	assert.Error(t, err)

	payload = validPayload()
	payload.Lines[0].UnitPrice = -1
	_, _, err = svc.Create(context.Background(), "s", payload, "staff-1")
	assert.Error(t, err)
}

func TestReceiptService_Create_StoreFailureKeepsCart(t *testing.T) {
	receipts := new(mockReceiptStore)
	carts := cart.NewMemoryStore()
	dispatcher := &stubDispatcher{status: &types.WADispatchStatus{}}
	svc := NewReceiptService(receipts, carts, dispatcher)

	ctx := context.Background()
	_, err := carts.Add(ctx, "sess-1", types.CartEntry{ProductName: "Sand", Unit: types.UnitYard, Price: 180, Quantity: 2})
	require.NoError(t, err)

	receipts.On("CreateReceipt", mock.Anything, mock.Anything).Return(errors.NewDatabaseError(assert.AnError))

	_, _, err = svc.Create(ctx, "sess-1", validPayload(), "staff-1")
	require.Error(t, err)
	assert.False(t, dispatcher.called)

	entries, err := carts.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
