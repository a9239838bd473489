package types

import "strings"

// Unit is the pricing unit for a billing line. Aggregates are sold either by
// the cubic yard or by the bag.
type Unit string

const (
	UnitYard Unit = "yd3"
	UnitBag  Unit = "bag"
)

// CartEntry is one working line in a staff billing cart. Entries are merged by
// the (ProductName, Unit, Price) triple: re-adding the same product at the
// same price increments the quantity in place.
type CartEntry struct {
	ProductName string  `json:"productName"`
	Unit        Unit    `json:"unit"`
	Price       float64 `json:"price"`
	Quantity    float64 `json:"quantity"`
}

// SameProduct reports whether another entry would merge into this one.
func (e CartEntry) SameProduct(other CartEntry) bool {
	return e.ProductName == other.ProductName && e.Unit == other.Unit && e.Price == other.Price
}

// WireName returns the product name with the legacy unit suffix appended,
// as printed receipts and older clients expect ("Sand (yd)", "Sand (bag)").
func (e CartEntry) WireName() string {
	switch e.Unit {
	case UnitBag:
		return e.ProductName + " (bag)"
	default:
		return e.ProductName + " (yd)"
	}
}

// ParseWireName splits a legacy suffix-encoded product name into the display
// name and its unit. Names without a recognized suffix default to yards.
func ParseWireName(name string) (string, Unit) {
	switch {
	case strings.HasSuffix(name, " (bag)"):
		return strings.TrimSuffix(name, " (bag)"), UnitBag
	case strings.HasSuffix(name, " (yd)"):
		return strings.TrimSuffix(name, " (yd)"), UnitYard
	default:
		return name, UnitYard
	}
}

// BillLine is a priced, display-ready line derived from a CartEntry. It is
// never persisted client-side; the server recomputes totals on submission.
type BillLine struct {
	ItemName  string  `json:"item_name"`
	Unit      Unit    `json:"unit"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// Bill is the rendered view of a cart: the valid lines plus their subtotal.
type Bill struct {
	Lines    []BillLine `json:"lines"`
	Subtotal float64    `json:"subtotal"`
}

// IsEmpty reports whether the bill has no renderable lines.
func (b Bill) IsEmpty() bool {
	return len(b.Lines) == 0
}
