package types

import "time"

// ReceiptLine is one line of a submitted receipt. Line totals are intentionally
// absent from the request shape; the server recomputes them from qty and price.
type ReceiptLine struct {
	ItemName  string  `json:"item_name"`
	Unit      Unit    `json:"unit"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// GeoPoint is an optional customer location captured from the billing form.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ReceiptPayload is the request body for creating a receipt.
// Customer fields are trimmed; blank values are stored as NULL.
type ReceiptPayload struct {
	CustomerName    *string       `json:"customer_name"`
	CustomerPhone   *string       `json:"customer_phone"`
	CustomerAddress *string       `json:"customer_address"`
	Notes           string        `json:"notes"`
	Location        *GeoPoint     `json:"location,omitempty"`
	Lines           []ReceiptLine `json:"lines"`
}

// Receipt is a persisted receipt with server-computed totals.
type Receipt struct {
	ID              int64         `json:"id"`
	CustomerName    *string       `json:"customer_name"`
	CustomerPhone   *string       `json:"customer_phone"`
	CustomerAddress *string       `json:"customer_address"`
	Notes           string        `json:"notes"`
	Location        *GeoPoint     `json:"location,omitempty"`
	Lines           []ReceiptLine `json:"lines"`
	Subtotal        float64       `json:"subtotal"`
	CreatedBy       string        `json:"created_by"`
	CreatedAt       time.Time     `json:"created_at"`
}

// WADispatchStatus reports the outcome of the outbound WhatsApp dispatch
// message sent after a receipt is created. Exactly one of the three outcomes
// holds: text sent (optionally with a queued location share), or a failure
// with a reason.
type WADispatchStatus struct {
	SentText           bool   `json:"sent_text"`
	SentLocationQueued bool   `json:"sent_location_queued"`
	Error              string `json:"error,omitempty"`
}

// CreateReceiptResponse is returned by POST /api/staff/receipts.
type CreateReceiptResponse struct {
	OK bool              `json:"ok"`
	ID int64             `json:"id"`
	WA *WADispatchStatus `json:"wa,omitempty"`
}
