package types

import "encoding/json"

// EstimatorState is the opaque continuation token round-tripped between the
// chat client and the estimator endpoint. The client never inspects it; the
// server uses it to keep conversation and estimation continuity.
type EstimatorState = json.RawMessage

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string         `json:"message"`
	Spec    EstimatorState `json:"spec,omitempty"`
}

// EstimateLine is one priced bill-of-materials line in a chat reply.
type EstimateLine struct {
	Name      string  `json:"name"`
	Qty       float64 `json:"qty"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// Estimate is the priced materials summary attached to a chat reply.
type Estimate struct {
	Lines []EstimateLine `json:"lines"`
	Total float64        `json:"total"`
}

// ChatResponse is the body of a successful chat turn.
type ChatResponse struct {
	OK        bool           `json:"ok"`
	Assistant string         `json:"assistant"`
	Spec      EstimatorState `json:"spec,omitempty"`
	Estimate  *Estimate      `json:"estimate,omitempty"`
	AINotes   string         `json:"ai_notes,omitempty"`
}

// BOMLine is an unpriced bill-of-materials line proposed by the AI adviser,
// keyed into the priced catalog.
type BOMLine struct {
	Key  string  `json:"key"`
	Qty  float64 `json:"qty"`
	Unit string  `json:"unit"`
}

// BOMProposal is the adviser's raw proposal before pricing.
type BOMProposal struct {
	Lines []BOMLine `json:"lines"`
	Notes string    `json:"notes,omitempty"`
}

// BOMExtractRequest asks for a vision BOM extraction over uploaded files.
type BOMExtractRequest struct {
	FileIDs []string       `json:"file_ids" binding:"required"`
	Spec    EstimatorState `json:"spec,omitempty"`
}
