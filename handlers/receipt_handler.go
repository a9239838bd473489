package handlers

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/conserv-tt/conserv-backend/logger"
	"github.com/conserv-tt/conserv-backend/middleware"
	"github.com/conserv-tt/conserv-backend/types"
	"github.com/gin-gonic/gin"
)

//go:embed templates/receipt_print.gohtml
var printTemplateFS embed.FS

var printTemplate = template.Must(template.New("receipt_print.gohtml").
	Funcs(template.FuncMap{
		"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"mul":   func(a, b float64) float64 { return a * b },
	}).
	ParseFS(printTemplateFS, "templates/receipt_print.gohtml"))

// ReceiptOps is the slice of the receipt service the handler needs.
type ReceiptOps interface {
	Create(ctx context.Context, sessionID string, payload *types.ReceiptPayload, createdBy string) (*types.Receipt, *types.WADispatchStatus, error)
	Get(ctx context.Context, id int64) (*types.Receipt, error)
	List(ctx context.Context, limit, offset int) ([]*types.Receipt, int, error)
}

type ReceiptHandler struct {
	receipts ReceiptOps
	currency string
}

func NewReceiptHandler(receipts ReceiptOps, currency string) *ReceiptHandler {
	return &ReceiptHandler{receipts: receipts, currency: currency}
}

// CreateReceipt persists the submitted bill as a receipt, dispatches the
// WhatsApp notification, and clears the session cart on success.
func (h *ReceiptHandler) CreateReceipt(c *gin.Context) {
	var payload types.ReceiptPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	createdBy := middleware.StaffID(c)
	receipt, wa, err := h.receipts.Create(c.Request.Context(), middleware.SessionID(c), &payload, createdBy)
	if err != nil {
		_ = c.Error(err)
		return
	}

	logger.GetLogger().Infow("Receipt created",
		"receipt_id", receipt.ID, "lines", len(receipt.Lines), "created_by", createdBy)
	c.JSON(http.StatusCreated, types.CreateReceiptResponse{OK: true, ID: receipt.ID, WA: wa})
}

// GetReceipt returns a stored receipt by ID.
func (h *ReceiptHandler) GetReceipt(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	receipt, err := h.receipts.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "receipt": receipt})
}

// ListReceipts returns a page of receipts, newest first.
func (h *ReceiptHandler) ListReceipts(c *gin.Context) {
	limit, offset := pagination(c)
	receipts, total, err := h.receipts.List(c.Request.Context(), limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "receipts": receipts, "total": total})
}

type printView struct {
	Receipt  *types.Receipt
	Currency string
}

// PrintReceipt renders the 80 mm thermal print view. The page carries its own
// @page rules: fixed width, content-driven height, zero margins.
func (h *ReceiptHandler) PrintReceipt(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	receipt, err := h.receipts.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := printTemplate.Execute(c.Writer, printView{Receipt: receipt, Currency: h.currency}); err != nil {
		logger.GetLogger().Errorw("Failed to render print view", "receipt_id", id, "error", err)
	}
}
