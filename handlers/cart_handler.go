package handlers

import (
	"context"
	"net/http"

	"github.com/conserv-tt/conserv-backend/middleware"
	"github.com/conserv-tt/conserv-backend/types"
	"github.com/gin-gonic/gin"
)

// CartOps is the slice of the cart service the handler needs.
type CartOps interface {
	Bill(ctx context.Context, sessionID string) (*types.Bill, error)
	Add(ctx context.Context, sessionID, productName string, unit types.Unit, cardPrice, qty float64) (*types.Bill, error)
	SetQuantity(ctx context.Context, sessionID string, target types.CartEntry, qty float64) (*types.Bill, error)
	Remove(ctx context.Context, sessionID string, target types.CartEntry) (*types.Bill, error)
	Clear(ctx context.Context, sessionID string) error
}

// BillResponse wraps the rendered bill for every cart endpoint.
type BillResponse struct {
	OK   bool        `json:"ok"`
	Bill *types.Bill `json:"bill"`
}

type CartHandler struct {
	carts CartOps
}

func NewCartHandler(carts CartOps) *CartHandler {
	return &CartHandler{carts: carts}
}

// GetBill returns the current session's rendered bill.
func (h *CartHandler) GetBill(c *gin.Context) {
	bill, err := h.carts.Bill(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, BillResponse{OK: true, Bill: bill})
}

type cartAddRequest struct {
	ProductName string     `json:"product_name" binding:"required"`
	Unit        types.Unit `json:"unit" binding:"required"`
	Price       float64    `json:"price"`
	Quantity    float64    `json:"quantity"`
}

// AddItem adds a product-card selection to the cart and returns the new bill.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req cartAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	bill, err := h.carts.Add(c.Request.Context(), middleware.SessionID(c), req.ProductName, req.Unit, req.Price, req.Quantity)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, BillResponse{OK: true, Bill: bill})
}

type cartQuantityRequest struct {
	ProductName string     `json:"product_name" binding:"required"`
	Unit        types.Unit `json:"unit" binding:"required"`
	Price       float64    `json:"price"`
	Quantity    float64    `json:"quantity"`
}

// SetQuantity replaces the quantity of an existing cart line.
func (h *CartHandler) SetQuantity(c *gin.Context) {
	var req cartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	target := types.CartEntry{ProductName: req.ProductName, Unit: req.Unit, Price: req.Price}
	bill, err := h.carts.SetQuantity(c.Request.Context(), middleware.SessionID(c), target, req.Quantity)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, BillResponse{OK: true, Bill: bill})
}

type cartRemoveRequest struct {
	ProductName string     `json:"product_name" binding:"required"`
	Unit        types.Unit `json:"unit" binding:"required"`
	Price       float64    `json:"price"`
}

// RemoveItem deletes a cart line and returns the new bill.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	var req cartRemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	target := types.CartEntry{ProductName: req.ProductName, Unit: req.Unit, Price: req.Price}
	bill, err := h.carts.Remove(c.Request.Context(), middleware.SessionID(c), target)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, BillResponse{OK: true, Bill: bill})
}

// ClearCart empties the session cart.
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), middleware.SessionID(c)); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, BillResponse{OK: true, Bill: &types.Bill{Lines: []types.BillLine{}}})
}
