// Package cart implements the session-scoped billing cart used by the
// point-of-sale flow. Carts are keyed by session ID and survive page loads;
// the Redis-backed store is the production implementation and an in-memory
// store backs tests and local development.
package cart

import (
	"context"
	"time"

	"github.com/conserv-tt/conserv-backend/types"
)

// DefaultTTL is how long an untouched cart survives before Redis expires it.
// A working shift comfortably fits; abandoned carts do not accumulate.
const DefaultTTL = 12 * time.Hour

// Store is the session cart persistence interface. Implementations must
// treat missing or unreadable state as an empty cart rather than an error:
// a shopper with corrupt state starts fresh instead of being locked out.
type Store interface {
	// Get returns the cart entries for the session, oldest first.
	// A missing or corrupt cart yields an empty slice and no error.
	Get(ctx context.Context, sessionID string) ([]types.CartEntry, error)

	// Set replaces the session's cart wholesale.
	Set(ctx context.Context, sessionID string, entries []types.CartEntry) error

	// Add merges an entry into the session's cart and returns the updated
	// cart. An entry matching an existing line on (product, unit, price)
	// accumulates quantity onto that line; otherwise it appends.
	Add(ctx context.Context, sessionID string, entry types.CartEntry) ([]types.CartEntry, error)

	// Clear removes the session's cart entirely.
	Clear(ctx context.Context, sessionID string) error
}

// merge folds entry into entries, accumulating quantity onto the first line
// with the same product identity or appending a new line. Unusable entries
// (blank name, non-positive quantity, negative price) merge as a no-op.
// The input slice is not mutated.
func merge(entries []types.CartEntry, entry types.CartEntry) []types.CartEntry {
	out := make([]types.CartEntry, len(entries))
	copy(out, entries)
	if entry.ProductName == "" || entry.Quantity <= 0 || entry.Price < 0 {
		return out
	}
	for i := range out {
		if out[i].SameProduct(entry) {
			out[i].Quantity += entry.Quantity
			return out
		}
	}
	return append(out, entry)
}
