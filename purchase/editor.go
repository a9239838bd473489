// Package purchase implements the supplier invoice editor: a grid of lines
// that staff fill by hand, paste text into, or extract from scanned
// documents, with recomputed totals and draft persistence.
package purchase

import (
	"strings"

	"github.com/conserv-tt/conserv-backend/errors"
	"github.com/conserv-tt/conserv-backend/types"
	"github.com/shopspring/decimal"
)

// Editor is the working state of one invoice being entered. It is not
// persisted until Save-time validation passes.
type Editor struct {
	Invoice types.PurchaseInvoice
}

// NewEditor starts an empty invoice in the shop currency.
func NewEditor(currency string) *Editor {
	return &Editor{Invoice: types.PurchaseInvoice{
		Currency: currency,
		Status:   types.PurchaseStatusDraft,
		Lines:    []types.PurchaseLine{},
		FileIDs:  []string{},
	}}
}

// recomputeLine fills a line's total from qty and unit price. Lines without
// a unit price keep whatever total was entered or extracted.
func recomputeLine(l *types.PurchaseLine) {
	if l.UnitPrice == nil {
		return
	}
	qty := decimal.NewFromFloat(l.Qty)
	price := decimal.NewFromFloat(*l.UnitPrice)
	l.LineTotal, _ = qty.Mul(price).Round(2).Float64()
}

// Recompute refreshes every line total, the subtotal, and the grand total
// (subtotal plus tax). It is called after every grid edit.
func (e *Editor) Recompute() {
	subtotal := decimal.Zero
	for i := range e.Invoice.Lines {
		recomputeLine(&e.Invoice.Lines[i])
		subtotal = subtotal.Add(decimal.NewFromFloat(e.Invoice.Lines[i].LineTotal))
	}
	e.Invoice.Subtotal, _ = subtotal.Round(2).Float64()
	total := subtotal.Add(decimal.NewFromFloat(e.Invoice.Tax))
	e.Invoice.Total, _ = total.Round(2).Float64()
}

// AddLine appends a blank or prefilled line and recomputes.
func (e *Editor) AddLine(line types.PurchaseLine) {
	e.Invoice.Lines = append(e.Invoice.Lines, line)
	e.Recompute()
}

// DeleteLine removes the line at index, ignoring out-of-range indexes.
func (e *Editor) DeleteLine(index int) {
	if index < 0 || index >= len(e.Invoice.Lines) {
		return
	}
	e.Invoice.Lines = append(e.Invoice.Lines[:index], e.Invoice.Lines[index+1:]...)
	e.Recompute()
}

// SetTax sets the invoice tax amount and recomputes the grand total.
func (e *Editor) SetTax(tax float64) {
	e.Invoice.Tax = tax
	e.Recompute()
}

// MergeExtracted folds an AI extraction into the editor. Extracted metadata
// always overwrites what is on the form, extracted lines append to the grid,
// and extracted tax and total land on the invoice when present.
func (e *Editor) MergeExtracted(ext *types.ExtractedInvoice, fileIDs []string) {
	if ext == nil {
		return
	}
	if ext.SupplierName != "" {
		e.Invoice.SupplierName = ext.SupplierName
	}
	if ext.InvoiceNumber != "" {
		e.Invoice.InvoiceNumber = ext.InvoiceNumber
	}
	if ext.InvoiceDate != "" {
		e.Invoice.InvoiceDate = ext.InvoiceDate
	}
	if ext.Currency != "" {
		e.Invoice.Currency = ext.Currency
	}
	if ext.Tax != nil {
		e.Invoice.Tax = *ext.Tax
	}
	e.Invoice.Lines = append(e.Invoice.Lines, ext.Lines...)
	for _, id := range fileIDs {
		if !containsString(e.Invoice.FileIDs, id) {
			e.Invoice.FileIDs = append(e.Invoice.FileIDs, id)
		}
	}
	e.Recompute()
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ValidateForSave checks an invoice before persistence: at least one line,
// and every line with a description, a positive quantity, and a unit.
func ValidateForSave(inv *types.PurchaseInvoice) error {
	if len(inv.Lines) == 0 {
		return errors.ValidationFailed("Invoice has no lines", "Add at least one line before saving")
	}
	for _, l := range inv.Lines {
		if strings.TrimSpace(l.Description) == "" {
			return errors.ValidationFailed("Invoice line is missing a description", "")
		}
		if l.Qty <= 0 {
			return errors.ValidationFailed("Invoice line quantity must be positive", l.Description)
		}
		if strings.TrimSpace(l.Unit) == "" {
			return errors.ValidationFailed("Invoice line is missing a unit", l.Description)
		}
	}
	return nil
}
