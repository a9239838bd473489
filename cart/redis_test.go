package cart

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/conserv-tt/conserv-backend/types"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func TestRedisStore_Get_MissingKeyIsEmptyCart(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client)

	mock.ExpectGet("cart:sess-1").RedisNil()

	entries, err := store.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Get_CorruptStateResetsCart(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client)

	mock.ExpectGet("cart:sess-1").SetVal("{not json")
	mock.ExpectDel("cart:sess-1").SetVal(1)

	entries, err := store.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Add_MergesMatchingLine(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client)

	existing := []types.CartEntry{
		{ProductName: "Sand", Unit: types.UnitYard, Price: 180, Quantity: 1},
	}
	mock.ExpectGet("cart:sess-1").SetVal(string(mustJSON(t, existing)))

	merged := []types.CartEntry{
		{ProductName: "Sand", Unit: types.UnitYard, Price: 180, Quantity: 1.25},
	}
	mock.ExpectSet("cart:sess-1", mustJSON(t, merged), 12*time.Hour).SetVal("OK")

	entries, err := store.Add(context.Background(), "sess-1", types.CartEntry{
		ProductName: "Sand", Unit: types.UnitYard, Price: 180, Quantity: 0.25,
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.InDelta(t, 1.25, entries[0].Quantity, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Add_DifferentUnitAppendsLine(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client)

	existing := []types.CartEntry{
		{ProductName: "Sand", Unit: types.UnitYard, Price: 180, Quantity: 1},
	}
	mock.ExpectGet("cart:sess-1").SetVal(string(mustJSON(t, existing)))

	merged := []types.CartEntry{
		{ProductName: "Sand", Unit: types.UnitYard, Price: 180, Quantity: 1},
		{ProductName: "Sand", Unit: types.UnitBag, Price: 35, Quantity: 2},
	}
	mock.ExpectSet("cart:sess-1", mustJSON(t, merged), 12*time.Hour).SetVal("OK")

	entries, err := store.Add(context.Background(), "sess-1", types.CartEntry{
		ProductName: "Sand", Unit: types.UnitBag, Price: 35, Quantity: 2,
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, types.UnitBag, entries[1].Unit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Clear(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client)

	mock.ExpectDel("cart:sess-1").SetVal(1)

	require.NoError(t, store.Clear(context.Background(), "sess-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
