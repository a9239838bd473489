package services

import (
	"context"
	"strings"

	"github.com/conserv-tt/conserv-backend/errors"
	"github.com/conserv-tt/conserv-backend/internal/ai"
	"github.com/conserv-tt/conserv-backend/pricing"
	"github.com/conserv-tt/conserv-backend/types"
)

const defaultNarrative = "Here's the step-by-step plan and a materials summary."

// EstimatorService powers the customer chat estimator: it asks the adviser
// for a bill of materials, prices it against the catalog, and wraps the
// result with advisory text.
type EstimatorService struct {
	adviser ai.Adviser
	catalog *pricing.Catalog
	uploads *UploadService
}

func NewEstimatorService(adviser ai.Adviser, catalog *pricing.Catalog, uploads *UploadService) *EstimatorService {
	return &EstimatorService{adviser: adviser, catalog: catalog, uploads: uploads}
}

// Chat answers one estimator turn. The spec token is opaque continuation
// state: it is round-tripped back unchanged for the client to send with the
// next turn.
func (s *EstimatorService) Chat(ctx context.Context, req *types.ChatRequest) (*types.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, errors.ValidationFailed("Empty message", "")
	}
	if s.catalog.Err != nil {
		return nil, errors.InternalServerError(s.catalog.Err.Error())
	}

	proposal, err := s.adviser.ProposeBOM(ctx, message, req.Spec)
	if err != nil {
		return nil, err
	}

	estimate := pricing.PriceBOM(proposal.Lines, s.catalog.Prices)
	narrative := s.adviser.Narrative(ctx, message, req.Spec, &estimate, defaultNarrative)

	return &types.ChatResponse{
		OK:        true,
		Assistant: narrative,
		Spec:      req.Spec,
		Estimate:  &estimate,
		AINotes:   proposal.Notes,
	}, nil
}

// ExtractBOM prices a bill of materials extracted from uploaded documents.
func (s *EstimatorService) ExtractBOM(ctx context.Context, req *types.BOMExtractRequest) (*types.ChatResponse, error) {
	if len(req.FileIDs) == 0 {
		return nil, errors.ValidationFailed("file_ids must be a non-empty list", "")
	}
	if s.catalog.Err != nil {
		return nil, errors.InternalServerError(s.catalog.Err.Error())
	}

	files, err := s.uploads.Fetch(ctx, req.FileIDs)
	if err != nil {
		return nil, err
	}

	proposal, err := s.adviser.ProposeBOMFromFiles(ctx, files, req.Spec)
	if err != nil {
		return nil, err
	}

	estimate := pricing.PriceBOM(proposal.Lines, s.catalog.Prices)
	narrative := s.adviser.Narrative(ctx, "Document analysis", req.Spec, &estimate, defaultNarrative)

	return &types.ChatResponse{
		OK:        true,
		Assistant: narrative,
		Spec:      req.Spec,
		Estimate:  &estimate,
		AINotes:   proposal.Notes,
	}, nil
}
