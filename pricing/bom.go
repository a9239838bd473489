package pricing

import (
	"math"
	"strings"

	"github.com/conserv-tt/conserv-backend/types"
)

// allowedKeys is the closed set of catalog keys the AI adviser may propose.
// Anything else is dropped rather than guessed at.
var allowedKeys = map[string]struct{}{
	"sand_m3": {}, "sharp_sand_m3": {}, "gravel_m3": {}, "red_sand_m3": {},
	"backfill_m3": {}, "soakaway_boulders_m3": {},
	"cement_bag": {}, "cement_bag_eco": {}, "cement_bag_premium": {}, "cement_loose_lb": {},
	"block_4in": {}, "block_6in": {}, "block_8in": {}, "block_clay_4in": {},
	"rebar_corr_3_8_m": {}, "rebar_corr_1_2_m": {}, "rebar_corr_5_8_m": {},
	"rebar_mild_3_8_m": {}, "rebar_mild_1_2_m": {}, "rebar_mild_5_8_m": {},
	"mesh_A142_sheet": {}, "tie_wire_kg": {}, "purlin_z_m": {}, "purlin_c_m": {},
	"paint_gal": {},
}

// AllowedKey reports whether the catalog key is one the adviser may use.
func AllowedKey(key string) bool {
	_, ok := allowedKeys[key]
	return ok
}

// AllowedKeys returns the permitted catalog keys, for building AI prompts.
func AllowedKeys() []string {
	keys := make([]string, 0, len(allowedKeys))
	for k := range allowedKeys {
		keys = append(keys, k)
	}
	return keys
}

// PrettyName turns a catalog key into a customer-readable name:
// "sand_m3" -> "sand (m³)", "cement_bag" -> "cement (bag)".
func PrettyName(key string) string {
	suffixes := []struct{ suffix, label string }{
		{"_m3", " (m³)"},
		{"_gal", " (gal)"},
		{"_bag", " (bag)"},
		{"_sheet", " (sheet)"},
		{"_kg", " (kg)"},
		{"_m", " (m)"},
	}
	for _, s := range suffixes {
		if strings.HasSuffix(key, s.suffix) {
			return strings.ReplaceAll(strings.TrimSuffix(key, s.suffix), "_", " ") + s.label
		}
	}
	return strings.ReplaceAll(key, "_", " ")
}

// lookup resolves a key's price. The plain cement_bag key falls back to the
// graded listings so an estimate never loses cement just because only one
// grade is stocked.
func (t PriceTable) lookup(key string) (float64, bool) {
	if key == "cement_bag" {
		for _, alt := range []string{"cement_bag", "cement_bag_eco", "cement_bag_premium"} {
			if v, ok := t[alt]; ok {
				return v, true
			}
		}
		return 0, false
	}
	v, ok := t[key]
	return v, ok
}

// PriceBOM prices an adviser-proposed bill of materials against the catalog.
// Unknown keys are dropped. Keys with no catalog price keep their line,
// marked UNPRICED at zero, so the customer sees the material was counted
// even though it could not be priced.
func PriceBOM(lines []types.BOMLine, prices PriceTable) types.Estimate {
	est := types.Estimate{Lines: []types.EstimateLine{}}
	for _, l := range lines {
		if !AllowedKey(l.Key) {
			continue
		}
		unitPrice, ok := prices.lookup(l.Key)
		if !ok {
			est.Lines = append(est.Lines, types.EstimateLine{
				Name: PrettyName(l.Key) + " — UNPRICED",
				Qty:  l.Qty,
				Unit: l.Unit,
			})
			continue
		}
		lineTotal := l.Qty * unitPrice
		est.Lines = append(est.Lines, types.EstimateLine{
			Name:      PrettyName(l.Key),
			Qty:       round2(l.Qty),
			Unit:      l.Unit,
			UnitPrice: round2(unitPrice),
			Total:     round2(lineTotal),
		})
		est.Total += lineTotal
	}
	est.Total = round2(est.Total)
	return est
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
