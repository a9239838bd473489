package pos

import "strings"

// Per-bag prices for the aggregates sold bagged at the yard counter. Only
// these three products have a fixed bag price; a bag add for anything else
// falls back to the card's listed price.
var bagPrices = map[string]float64{
	"sand":       35,
	"gravel":     45,
	"sharp sand": 50,
}

// BagPrice returns the per-bag price for a product, matching the product
// name case-insensitively. ok is false when the product has no table entry.
func BagPrice(productName string) (price float64, ok bool) {
	price, ok = bagPrices[strings.ToLower(strings.TrimSpace(productName))]
	return price, ok
}

// HasBagOption reports whether a product can be sold by the bag.
func HasBagOption(productName string) bool {
	_, ok := BagPrice(productName)
	return ok
}
