package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/conserv-tt/conserv-backend/config"
	apperrors "github.com/conserv-tt/conserv-backend/errors"
	"github.com/conserv-tt/conserv-backend/logger"
	"github.com/conserv-tt/conserv-backend/pricing"
	"github.com/conserv-tt/conserv-backend/types"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// File is one uploaded document handed to a vision extraction: its MIME type
// and raw bytes. Gemini accepts images and PDFs directly.
type File struct {
	MIMEType string
	Data     []byte
}

// Adviser is the AI surface the services depend on. The Gemini client
// implements it; tests substitute fakes.
type Adviser interface {
	// ProposeBOM asks for a bill of materials matching the allowed catalog
	// keys, from a free-text request plus the accumulated project spec.
	ProposeBOM(ctx context.Context, prompt string, spec types.EstimatorState) (*types.BOMProposal, error)

	// ProposeBOMFromFiles extracts a bill of materials from uploaded plans
	// or photos.
	ProposeBOMFromFiles(ctx context.Context, files []File, spec types.EstimatorState) (*types.BOMProposal, error)

	// Narrative writes the advisory text accompanying an estimate. It never
	// fails: on any error the fallback text is returned.
	Narrative(ctx context.Context, prompt string, spec types.EstimatorState, estimate *types.Estimate, fallback string) string

	// ExtractInvoiceFromText parses a pasted purchase description.
	ExtractInvoiceFromText(ctx context.Context, text string) (*types.ExtractedInvoice, error)

	// ExtractInvoiceFromFiles extracts supplier invoice data from documents.
	ExtractInvoiceFromFiles(ctx context.Context, files []File) (*types.ExtractedInvoice, error)

	// ExtractExpensesFromText parses a free-text expense description.
	ExtractExpensesFromText(ctx context.Context, text string) (*types.ExtractedExpenses, error)

	// ExtractExpensesFromFiles extracts expenses from receipt photos.
	ExtractExpensesFromFiles(ctx context.Context, files []File) (*types.ExtractedExpenses, error)
}

// GeminiAdviser implements Adviser on the Gemini API with model fallback:
// the configured model is tried first, then each fallback in order.
type GeminiAdviser struct {
	client   *genai.Client
	models   []string
	timeout  time.Duration
	currency string
}

var _ Adviser = (*GeminiAdviser)(nil)

// NewGeminiAdviser creates the Gemini-backed adviser.
func NewGeminiAdviser(ctx context.Context, cfg config.AIConfig, currency string) (*GeminiAdviser, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	models := make([]string, 0, 1+len(cfg.FallbackModels))
	seen := map[string]bool{}
	for _, m := range append([]string{cfg.Model}, cfg.FallbackModels...) {
		if m != "" && !seen[m] {
			models = append(models, m)
			seen[m] = true
		}
	}

	return &GeminiAdviser{
		client:   client,
		models:   models,
		timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
		currency: currency,
	}, nil
}

// Close closes the underlying Gemini client.
func (g *GeminiAdviser) Close() error {
	return g.client.Close()
}

// generate runs the parts through the model sequence until one succeeds.
// jsonMode pins the response MIME type to application/json.
func (g *GeminiAdviser) generate(ctx context.Context, jsonMode bool, parts ...genai.Part) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	log := logger.GetLogger()
	var lastErr error
	for _, name := range g.models {
		model := g.client.GenerativeModel(name)
		if jsonMode {
			model.ResponseMIMEType = "application/json"
		}
		resp, err := model.GenerateContent(ctx, parts...)
		if err != nil {
			log.Warnw("Model generation failed, trying next candidate", "model", name, "error", err)
			lastErr = err
			continue
		}
		text := responseText(resp)
		if text == "" {
			lastErr = fmt.Errorf("model %s returned no text", name)
			continue
		}
		return text, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no model candidates configured")
	}
	return "", lastErr
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return strings.TrimSpace(b.String())
}

// stripFences removes markdown code fences some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// decodeJSON parses a model response into out, tolerating code fences.
func decodeJSON(raw string, out interface{}) error {
	if err := json.Unmarshal([]byte(stripFences(raw)), out); err != nil {
		return fmt.Errorf("model returned invalid JSON: %w", err)
	}
	return nil
}

func specJSON(spec types.EstimatorState) string {
	if len(spec) == 0 {
		return "{}"
	}
	return string(spec)
}

func filesToParts(files []File) []genai.Part {
	parts := make([]genai.Part, 0, len(files))
	for _, f := range files {
		parts = append(parts, genai.Blob{MIMEType: f.MIMEType, Data: f.Data})
	}
	return parts
}

func (g *GeminiAdviser) ProposeBOM(ctx context.Context, prompt string, spec types.EstimatorState) (*types.BOMProposal, error) {
	user := fmt.Sprintf("User request: %s\n\nParsed spec (optional): %s\n\nAllowed keys ONLY: %v\n\n%s",
		prompt, specJSON(spec), pricing.AllowedKeys(), bomExampleShape)

	raw, err := g.generate(ctx, true, genai.Text(bomSystemPrompt), genai.Text(user))
	if err != nil {
		return nil, apperrors.ExtractionFailed(err)
	}
	var proposal types.BOMProposal
	if err := decodeJSON(raw, &proposal); err != nil {
		logger.GetLogger().Warnw("BOM proposal was not valid JSON", "error", err)
		return nil, apperrors.ExtractionFailed(err)
	}
	proposal.Lines = validateBOMLines(proposal.Lines)
	return &proposal, nil
}

func (g *GeminiAdviser) ProposeBOMFromFiles(ctx context.Context, files []File, spec types.EstimatorState) (*types.BOMProposal, error) {
	parts := []genai.Part{
		genai.Text(bomVisionPrompt),
		genai.Text(fmt.Sprintf("Parsed spec (optional): %s\n\nAllowed keys ONLY: %v\n\n%s",
			specJSON(spec), pricing.AllowedKeys(), bomExampleShape)),
	}
	parts = append(parts, filesToParts(files)...)

	raw, err := g.generate(ctx, true, parts...)
	if err != nil {
		return nil, apperrors.ExtractionFailed(err)
	}
	var proposal types.BOMProposal
	if err := decodeJSON(raw, &proposal); err != nil {
		logger.GetLogger().Warnw("Vision BOM proposal was not valid JSON", "error", err)
		return nil, apperrors.ExtractionFailed(err)
	}
	proposal.Lines = validateBOMLines(proposal.Lines)
	return &proposal, nil
}

func (g *GeminiAdviser) Narrative(ctx context.Context, prompt string, spec types.EstimatorState, estimate *types.Estimate, fallback string) string {
	linesJSON, _ := json.Marshal(estimate.Lines)
	user := fmt.Sprintf("Request: %s\n\nParsed spec (optional): %s\n\nEstimate lines: %s\nEstimated total: %.2f %s\n\nGive a brief step-by-step plan and a few tips.",
		prompt, specJSON(spec), linesJSON, estimate.Total, g.currency)

	raw, err := g.generate(ctx, false, genai.Text(narrativeSystemPrompt), genai.Text(user))
	if err != nil || raw == "" {
		return fallback
	}
	return raw
}

func (g *GeminiAdviser) ExtractInvoiceFromText(ctx context.Context, text string) (*types.ExtractedInvoice, error) {
	raw, err := g.generate(ctx, true, genai.Text(purchaseSchemaPrompt), genai.Text(strings.TrimSpace(text)))
	if err != nil {
		return nil, apperrors.ExtractionFailed(err)
	}
	return g.decodeInvoice(raw)
}

func (g *GeminiAdviser) ExtractInvoiceFromFiles(ctx context.Context, files []File) (*types.ExtractedInvoice, error) {
	parts := append([]genai.Part{genai.Text(invoiceVisionPrompt)}, filesToParts(files)...)
	raw, err := g.generate(ctx, true, parts...)
	if err != nil {
		return nil, apperrors.ExtractionFailed(err)
	}
	return g.decodeInvoice(raw)
}

func (g *GeminiAdviser) decodeInvoice(raw string) (*types.ExtractedInvoice, error) {
	var inv types.ExtractedInvoice
	if err := decodeJSON(raw, &inv); err != nil {
		logger.GetLogger().Warnw("Invoice extraction was not valid JSON", "error", err)
		return nil, apperrors.ExtractionFailed(err)
	}
	inv.SupplierName = strings.TrimSpace(inv.SupplierName)
	inv.InvoiceNumber = strings.TrimSpace(inv.InvoiceNumber)
	inv.InvoiceDate = strings.TrimSpace(inv.InvoiceDate)
	if strings.TrimSpace(inv.Currency) == "" {
		inv.Currency = g.currency
	}
	inv.Lines = validatePurchaseLines(inv.Lines)
	return &inv, nil
}

func (g *GeminiAdviser) ExtractExpensesFromText(ctx context.Context, text string) (*types.ExtractedExpenses, error) {
	raw, err := g.generate(ctx, true, genai.Text(expensesTextPrompt), genai.Text(strings.TrimSpace(text)))
	if err != nil {
		return nil, apperrors.ExtractionFailed(err)
	}
	return decodeExpenses(raw)
}

func (g *GeminiAdviser) ExtractExpensesFromFiles(ctx context.Context, files []File) (*types.ExtractedExpenses, error) {
	parts := append([]genai.Part{genai.Text(expensesVisionPrompt)}, filesToParts(files)...)
	raw, err := g.generate(ctx, true, parts...)
	if err != nil {
		return nil, apperrors.ExtractionFailed(err)
	}
	return decodeExpenses(raw)
}

func decodeExpenses(raw string) (*types.ExtractedExpenses, error) {
	var out types.ExtractedExpenses
	if err := decodeJSON(raw, &out); err != nil {
		logger.GetLogger().Warnw("Expense extraction was not valid JSON", "error", err)
		return nil, apperrors.ExtractionFailed(err)
	}
	out.Date = strings.TrimSpace(out.Date)
	out.Expenses = validateExpenses(out.Expenses)
	return &out, nil
}
