package types

// UploadedFile describes one stored upload. The ID doubles as the storage key
// and is what extraction endpoints accept in file_ids.
type UploadedFile struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Ext      string `json:"ext"`
	URL      string `json:"url"`
}

// UploadResponse is the body of POST /api/uploads.
type UploadResponse struct {
	OK    bool           `json:"ok"`
	Files []UploadedFile `json:"files"`
}

// DeliveryQuoteRequest is the body of POST /api/delivery-quote.
type DeliveryQuoteRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DeliveryQuote is a computed delivery distance and fee.
type DeliveryQuote struct {
	OK         bool    `json:"ok"`
	DistanceKm float64 `json:"distance_km"`
	Fee        float64 `json:"fee"`
}
