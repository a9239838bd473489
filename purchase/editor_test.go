package purchase

import (
	"testing"

	"github.com/conserv-tt/conserv-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func TestEditor_RecomputeTotals(t *testing.T) {
	e := NewEditor("TTD")
	e.AddLine(types.PurchaseLine{Description: "Sand", Unit: "yd3", Qty: 2, UnitPrice: fptr(180)})
	e.AddLine(types.PurchaseLine{Description: "Cement", Unit: "bag", Qty: 10, UnitPrice: fptr(55.5)})
	e.SetTax(50)

	assert.Equal(t, 360.0, e.Invoice.Lines[0].LineTotal)
	assert.Equal(t, 555.0, e.Invoice.Lines[1].LineTotal)
	assert.Equal(t, 915.0, e.Invoice.Subtotal)
	assert.Equal(t, 965.0, e.Invoice.Total)
}

func TestEditor_LineWithoutUnitPriceKeepsTotal(t *testing.T) {
	e := NewEditor("TTD")
	e.AddLine(types.PurchaseLine{Description: "Delivery", Unit: "pcs", Qty: 1, LineTotal: 120})

	assert.Equal(t, 120.0, e.Invoice.Lines[0].LineTotal)
	assert.Equal(t, 120.0, e.Invoice.Subtotal)
}

func TestEditor_DeleteLine(t *testing.T) {
	e := NewEditor("TTD")
	e.AddLine(types.PurchaseLine{Description: "Sand", Unit: "yd3", Qty: 1, UnitPrice: fptr(180)})
	e.AddLine(types.PurchaseLine{Description: "Gravel", Unit: "yd3", Qty: 1, UnitPrice: fptr(220)})

	e.DeleteLine(0)
	require.Len(t, e.Invoice.Lines, 1)
	assert.Equal(t, "Gravel", e.Invoice.Lines[0].Description)
	assert.Equal(t, 220.0, e.Invoice.Subtotal)

	// Out-of-range indexes are ignored.
	e.DeleteLine(5)
	e.DeleteLine(-1)
	assert.Len(t, e.Invoice.Lines, 1)
}

func TestEditor_MergeExtractedOverwritesMetadata(t *testing.T) {
	e := NewEditor("TTD")
	e.Invoice.SupplierName = "Old Supplier"
	e.AddLine(types.PurchaseLine{Description: "Sand", Unit: "yd3", Qty: 1, UnitPrice: fptr(180)})

	e.MergeExtracted(&types.ExtractedInvoice{
		SupplierName:  "ABC Hardware",
		InvoiceNumber: "INV-100",
		InvoiceDate:   "2026-08-01",
		Tax:           fptr(25),
		Lines: []types.PurchaseLine{
			{Description: "Cement", Unit: "bag", Qty: 5, UnitPrice: fptr(60)},
		},
	}, []string{"file-1", "file-1", "file-2"})

	assert.Equal(t, "ABC Hardware", e.Invoice.SupplierName)
	assert.Equal(t, "INV-100", e.Invoice.InvoiceNumber)
	require.Len(t, e.Invoice.Lines, 2)
	assert.Equal(t, []string{"file-1", "file-2"}, e.Invoice.FileIDs)
	assert.Equal(t, 480.0, e.Invoice.Subtotal)
	assert.Equal(t, 505.0, e.Invoice.Total)
}

func TestValidateForSave(t *testing.T) {
	inv := &types.PurchaseInvoice{}
	assert.Error(t, ValidateForSave(inv))

	inv.Lines = []types.PurchaseLine{{Description: "Sand", Unit: "yd3", Qty: 1}}
	assert.NoError(t, ValidateForSave(inv))

	inv.Lines[0].Qty = 0
	assert.Error(t, ValidateForSave(inv))

	inv.Lines[0].Qty = 1
	inv.Lines[0].Unit = ""
	assert.Error(t, ValidateForSave(inv))
}
