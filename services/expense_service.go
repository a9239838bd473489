package services

import (
	"context"
	"math"
	"strings"

	"github.com/conserv-tt/conserv-backend/errors"
	"github.com/conserv-tt/conserv-backend/internal/ai"
	"github.com/conserv-tt/conserv-backend/internal/store"
	"github.com/conserv-tt/conserv-backend/types"
)

// ExpenseService backs the operating-expense intake flow.
type ExpenseService struct {
	expenses store.ExpenseStore
	adviser  ai.Adviser
	uploads  *UploadService
}

func NewExpenseService(expenses store.ExpenseStore, adviser ai.Adviser, uploads *UploadService) *ExpenseService {
	return &ExpenseService{expenses: expenses, adviser: adviser, uploads: uploads}
}

// ExtractFromFiles extracts expenses from receipt photos.
func (s *ExpenseService) ExtractFromFiles(ctx context.Context, fileIDs []string) (*types.ExtractedExpenses, error) {
	if len(fileIDs) == 0 {
		return nil, errors.ValidationFailed("file_ids must be a non-empty list", "")
	}
	files, err := s.uploads.Fetch(ctx, fileIDs)
	if err != nil {
		return nil, err
	}
	return s.adviser.ExtractExpensesFromFiles(ctx, files)
}

// ParseText extracts expenses from a free-text description.
func (s *ExpenseService) ParseText(ctx context.Context, text string) (*types.ExtractedExpenses, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.ValidationFailed("Text is required", "")
	}
	return s.adviser.ExtractExpensesFromText(ctx, text)
}

// SaveBatch validates and stores a reviewed batch of expenses. A batch-level
// date fills entries that carry none.
func (s *ExpenseService) SaveBatch(ctx context.Context, batch *types.ExpenseBatch, createdBy string) ([]types.ExpenseEntry, error) {
	if len(batch.Expenses) == 0 {
		return nil, errors.ValidationFailed("No expenses to save", "")
	}

	entries := make([]types.ExpenseEntry, 0, len(batch.Expenses))
	for _, e := range batch.Expenses {
		category := strings.ToLower(strings.TrimSpace(e.Category))
		if !types.ValidExpenseCategory(category) {
			return nil, errors.ValidationFailed("Invalid expense category", e.Category)
		}
		if e.Amount <= 0 {
			return nil, errors.ValidationFailed("Expense amount must be positive", e.Description)
		}
		date := strings.TrimSpace(e.Date)
		if date == "" {
			date = strings.TrimSpace(batch.Date)
		}
		entries = append(entries, types.ExpenseEntry{
			Category:    category,
			Description: strings.TrimSpace(e.Description),
			Amount:      math.Round(e.Amount*100) / 100,
			Date:        date,
			CreatedBy:   createdBy,
		})
	}

	return s.expenses.SaveExpenses(ctx, entries)
}

// List returns recent expenses.
func (s *ExpenseService) List(ctx context.Context, limit, offset int) ([]types.ExpenseEntry, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.expenses.ListExpenses(ctx, limit, offset)
}
