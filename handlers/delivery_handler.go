package handlers

import (
	"net/http"

	"github.com/conserv-tt/conserv-backend/types"
	"github.com/gin-gonic/gin"
)

// DeliveryOps is the slice of the delivery service the handler needs.
type DeliveryOps interface {
	Quote(lat, lng float64) (*types.DeliveryQuote, error)
}

type DeliveryHandler struct {
	delivery DeliveryOps
}

func NewDeliveryHandler(delivery DeliveryOps) *DeliveryHandler {
	return &DeliveryHandler{delivery: delivery}
}

// Quote computes the delivery distance and fee for a drop-off point.
func (h *DeliveryHandler) Quote(c *gin.Context) {
	var req types.DeliveryQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	quote, err := h.delivery.Quote(req.Lat, req.Lng)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, quote)
}
