package ai

import (
	"math"
	"strings"

	"github.com/conserv-tt/conserv-backend/pricing"
	"github.com/conserv-tt/conserv-backend/types"
)

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }

// validateBOMLines keeps only lines with an allowed catalog key, a positive
// quantity and a canonical unit. The model is never trusted to stay inside
// the schema.
func validateBOMLines(raw []types.BOMLine) []types.BOMLine {
	out := make([]types.BOMLine, 0, len(raw))
	for _, l := range raw {
		unit := NormalizeUnit(l.Unit)
		if !pricing.AllowedKey(l.Key) || l.Qty <= 0 || !ValidUnit(unit) {
			continue
		}
		out = append(out, types.BOMLine{Key: l.Key, Qty: l.Qty, Unit: unit})
	}
	return out
}

// validatePurchaseLines cleans extracted invoice lines: description required,
// staff unit required, positive quantity. A missing line total is computed
// from the unit price when one was extracted.
func validatePurchaseLines(raw []types.PurchaseLine) []types.PurchaseLine {
	out := make([]types.PurchaseLine, 0, len(raw))
	for _, l := range raw {
		desc := strings.TrimSpace(l.Description)
		unit := NormalizeUnitStaff(l.Unit)
		if desc == "" || !ValidStaffUnit(unit) || l.Qty <= 0 {
			continue
		}
		line := types.PurchaseLine{
			Description: desc,
			Unit:        unit,
			Qty:         round4(l.Qty),
		}
		if l.UnitPrice != nil && *l.UnitPrice >= 0 {
			up := round4(*l.UnitPrice)
			line.UnitPrice = &up
		}
		switch {
		case l.LineTotal > 0:
			line.LineTotal = round4(l.LineTotal)
		case line.UnitPrice != nil:
			line.LineTotal = round4(*line.UnitPrice * line.Qty)
		}
		out = append(out, line)
	}
	return out
}

// validateExpenses keeps only entries with a category and a positive amount.
// Unknown categories are folded into "other" rather than dropped; the staff
// reviewer corrects them in the form.
func validateExpenses(raw []types.ExpenseEntry) []types.ExpenseEntry {
	out := make([]types.ExpenseEntry, 0, len(raw))
	for _, e := range raw {
		category := strings.ToLower(strings.TrimSpace(e.Category))
		if category == "" || e.Amount <= 0 {
			continue
		}
		if !types.ValidExpenseCategory(category) {
			category = types.ExpenseCategoryOther
		}
		out = append(out, types.ExpenseEntry{
			Category:    category,
			Description: strings.TrimSpace(e.Description),
			Amount:      round2(e.Amount),
		})
	}
	return out
}
