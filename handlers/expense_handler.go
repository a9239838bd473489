package handlers

import (
	"context"
	"net/http"

	"github.com/conserv-tt/conserv-backend/middleware"
	"github.com/conserv-tt/conserv-backend/types"
	"github.com/gin-gonic/gin"
)

// ExpenseOps is the slice of the expense service the handler needs.
type ExpenseOps interface {
	ExtractFromFiles(ctx context.Context, fileIDs []string) (*types.ExtractedExpenses, error)
	ParseText(ctx context.Context, text string) (*types.ExtractedExpenses, error)
	SaveBatch(ctx context.Context, batch *types.ExpenseBatch, createdBy string) ([]types.ExpenseEntry, error)
	List(ctx context.Context, limit, offset int) ([]types.ExpenseEntry, int, error)
}

type ExpenseHandler struct {
	expenses ExpenseOps
}

func NewExpenseHandler(expenses ExpenseOps) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// Extract runs expense extraction over previously uploaded documents.
func (h *ExpenseHandler) Extract(c *gin.Context) {
	var req types.ExtractFilesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	extracted, err := h.expenses.ExtractFromFiles(c.Request.Context(), req.FileIDs)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": extracted})
}

// ParseText runs expense extraction over pasted free text.
func (h *ExpenseHandler) ParseText(c *gin.Context) {
	var req types.ParseTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	extracted, err := h.expenses.ParseText(c.Request.Context(), req.Text)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": extracted})
}

// SaveBatch records a reviewed batch of expense entries.
func (h *ExpenseHandler) SaveBatch(c *gin.Context) {
	var batch types.ExpenseBatch
	if err := c.ShouldBindJSON(&batch); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	saved, err := h.expenses.SaveBatch(c.Request.Context(), &batch, middleware.StaffID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": saved})
}

// List returns a page of recorded expenses, newest first.
func (h *ExpenseHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	entries, total, err := h.expenses.List(c.Request.Context(), limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": entries, "total": total})
}
