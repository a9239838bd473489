package types

import "time"

// PurchaseLine is one row of a supplier purchase invoice. Rows come from
// manual entry, AI document extraction, or an existing persisted invoice.
type PurchaseLine struct {
	ID          *int64   `json:"id,omitempty"`
	Description string   `json:"description"`
	Unit        string   `json:"unit"`
	Qty         float64  `json:"qty"`
	UnitPrice   *float64 `json:"unit_price,omitempty"`
	LineTotal   float64  `json:"line_total"`
}

// PurchaseInvoice is the full invoice payload persisted by the save action.
type PurchaseInvoice struct {
	ID            int64          `json:"id,omitempty"`
	SupplierName  string         `json:"supplier_name"`
	InvoiceNumber string         `json:"invoice_number"`
	InvoiceDate   string         `json:"invoice_date"`
	Currency      string         `json:"currency"`
	Status        string         `json:"status"`
	FileIDs       []string       `json:"file_ids"`
	Tax           float64        `json:"tax"`
	Subtotal      float64        `json:"subtotal"`
	Total         float64        `json:"total"`
	Lines         []PurchaseLine `json:"lines"`
	CreatedBy     string         `json:"created_by,omitempty"`
	CreatedAt     time.Time      `json:"created_at,omitempty"`
}

// PurchaseStatusDraft is the status new invoices are saved with.
const PurchaseStatusDraft = "draft"

// ExtractedInvoice is the AI extraction result merged into the purchase
// editor: optional supplier metadata plus validated lines.
type ExtractedInvoice struct {
	SupplierName  string         `json:"supplier_name,omitempty"`
	InvoiceNumber string         `json:"invoice_number,omitempty"`
	InvoiceDate   string         `json:"invoice_date,omitempty"`
	Currency      string         `json:"currency,omitempty"`
	Lines         []PurchaseLine `json:"lines"`
	Tax           *float64       `json:"tax,omitempty"`
	Total         *float64       `json:"total,omitempty"`
}

// ExtractFilesRequest asks for extraction over previously uploaded files.
type ExtractFilesRequest struct {
	FileIDs []string `json:"file_ids" binding:"required"`
}

// ParseTextRequest asks for extraction over raw pasted text.
type ParseTextRequest struct {
	Text string `json:"text" binding:"required"`
}
