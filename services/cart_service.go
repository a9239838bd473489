package services

import (
	"context"

	"github.com/conserv-tt/conserv-backend/cart"
	"github.com/conserv-tt/conserv-backend/errors"
	"github.com/conserv-tt/conserv-backend/pos"
	"github.com/conserv-tt/conserv-backend/types"
)

// CartService applies the point-of-sale rules on top of the session cart
// store: unit selection, quantity stepping, and bill rendering.
type CartService struct {
	carts cart.Store
}

func NewCartService(carts cart.Store) *CartService {
	return &CartService{carts: carts}
}

// Bill renders the session's current cart.
func (s *CartService) Bill(ctx context.Context, sessionID string) (*types.Bill, error) {
	entries, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	bill := pos.RenderBill(entries)
	return &bill, nil
}

// Add puts a product selection into the cart: yard selections at the card
// price, bag selections at the bag table price when the product has one and
// the card price otherwise. The quantity is coerced to the unit's rules.
func (s *CartService) Add(ctx context.Context, sessionID, productName string, unit types.Unit, cardPrice, qty float64) (*types.Bill, error) {
	if productName == "" {
		return nil, errors.ValidationFailed("Product name is required", "")
	}
	if cardPrice < 0 {
		return nil, errors.ValidationFailed("Price cannot be negative", productName)
	}
	entry := pos.EntryForSelection(productName, unit, cardPrice, qty)

	entries, err := s.carts.Add(ctx, sessionID, entry)
	if err != nil {
		return nil, err
	}
	bill := pos.RenderBill(entries)
	return &bill, nil
}

// SetQuantity replaces one line's quantity, coercing it to the line's unit
// rules: quarter-yard steps for yards, whole bags for bags. A line is
// addressed by its product identity.
func (s *CartService) SetQuantity(ctx context.Context, sessionID string, target types.CartEntry, qty float64) (*types.Bill, error) {
	entries, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range entries {
		if entries[i].SameProduct(target) {
			if entries[i].Unit == types.UnitBag {
				entries[i].Quantity = pos.NormalizeBagQuantity(qty)
			} else {
				entries[i].Quantity = pos.NormalizeYardQuantity(qty)
			}
			found = true
			break
		}
	}
	if !found {
		return nil, errors.NotFound("Cart line", target.ProductName)
	}

	if err := s.carts.Set(ctx, sessionID, entries); err != nil {
		return nil, err
	}
	bill := pos.RenderBill(entries)
	return &bill, nil
}

// Remove deletes one line from the cart.
func (s *CartService) Remove(ctx context.Context, sessionID string, target types.CartEntry) (*types.Bill, error) {
	entries, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	kept := entries[:0]
	for _, e := range entries {
		if !e.SameProduct(target) {
			kept = append(kept, e)
		}
	}

	if err := s.carts.Set(ctx, sessionID, kept); err != nil {
		return nil, err
	}
	bill := pos.RenderBill(kept)
	return &bill, nil
}

// Clear empties the session's cart.
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	return s.carts.Clear(ctx, sessionID)
}
