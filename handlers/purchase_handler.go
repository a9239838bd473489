package handlers

import (
	"context"
	"net/http"

	"github.com/conserv-tt/conserv-backend/middleware"
	"github.com/conserv-tt/conserv-backend/types"
	"github.com/gin-gonic/gin"
)

// PurchaseOps is the slice of the purchase service the handler needs.
type PurchaseOps interface {
	ExtractFromFiles(ctx context.Context, fileIDs []string) (*types.ExtractedInvoice, error)
	ParseText(ctx context.Context, text string) (*types.ExtractedInvoice, error)
	Save(ctx context.Context, inv *types.PurchaseInvoice, createdBy string) (*types.PurchaseInvoice, error)
	Get(ctx context.Context, id int64) (*types.PurchaseInvoice, error)
	List(ctx context.Context, limit, offset int) ([]*types.PurchaseInvoice, int, error)
}

type PurchaseHandler struct {
	purchases PurchaseOps
}

func NewPurchaseHandler(purchases PurchaseOps) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases}
}

// Extract runs invoice extraction over previously uploaded documents.
func (h *PurchaseHandler) Extract(c *gin.Context) {
	var req types.ExtractFilesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	extracted, err := h.purchases.ExtractFromFiles(c.Request.Context(), req.FileIDs)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": extracted})
}

// ParseText runs invoice extraction over pasted free text.
func (h *PurchaseHandler) ParseText(c *gin.Context) {
	var req types.ParseTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	extracted, err := h.purchases.ParseText(c.Request.Context(), req.Text)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": extracted})
}

// Save persists the assembled invoice as a draft.
func (h *PurchaseHandler) Save(c *gin.Context) {
	var inv types.PurchaseInvoice
	if err := c.ShouldBindJSON(&inv); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	saved, err := h.purchases.Save(c.Request.Context(), &inv, middleware.StaffID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": saved})
}

// Get returns a stored invoice for loading into the editor.
func (h *PurchaseHandler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	inv, err := h.purchases.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": inv})
}

// List returns a page of invoices, newest first.
func (h *PurchaseHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	invoices, total, err := h.purchases.List(c.Request.Context(), limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": invoices, "total": total})
}
