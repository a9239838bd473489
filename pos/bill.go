package pos

import "github.com/conserv-tt/conserv-backend/types"

// RenderBill derives the displayable bill from cart entries. It is a pure
// function of its input: rendering never mutates the cart, and rendering the
// same cart twice yields the same bill.
//
// Entries with a non-positive quantity or a negative price are skipped; they
// represent half-edited state, not sellable lines.
func RenderBill(entries []types.CartEntry) types.Bill {
	bill := types.Bill{Lines: []types.BillLine{}}
	for _, e := range entries {
		if e.Quantity <= 0 || e.Price < 0 {
			continue
		}
		line := types.BillLine{
			ItemName:  e.WireName(),
			Unit:      e.Unit,
			Quantity:  e.Quantity,
			UnitPrice: e.Price,
			LineTotal: round2(e.Quantity * e.Price),
		}
		bill.Lines = append(bill.Lines, line)
		bill.Subtotal += line.LineTotal
	}
	bill.Subtotal = round2(bill.Subtotal)
	return bill
}

// EntryForSelection builds the cart entry a product card adds for the given
// unit selection. Yard selections take the card price and a quarter-yard
// stepped quantity; bag selections take the bag table price for the three
// aggregates that have one, falling back to the card price for everything
// else, with the quantity coerced to whole bags.
func EntryForSelection(productName string, unit types.Unit, cardPrice, qty float64) types.CartEntry {
	switch unit {
	case types.UnitBag:
		price, has := BagPrice(productName)
		if !has {
			price = cardPrice
		}
		return types.CartEntry{
			ProductName: productName,
			Unit:        types.UnitBag,
			Price:       price,
			Quantity:    NormalizeBagQuantity(qty),
		}
	default:
		return types.CartEntry{
			ProductName: productName,
			Unit:        types.UnitYard,
			Price:       cardPrice,
			Quantity:    NormalizeYardQuantity(qty),
		}
	}
}
