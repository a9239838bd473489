package handlers

import (
	"context"
	"net/http"

	"github.com/conserv-tt/conserv-backend/types"
	"github.com/gin-gonic/gin"
)

// EstimatorOps is the slice of the estimator service the handler needs.
type EstimatorOps interface {
	Chat(ctx context.Context, req *types.ChatRequest) (*types.ChatResponse, error)
	ExtractBOM(ctx context.Context, req *types.BOMExtractRequest) (*types.ChatResponse, error)
}

type EstimatorHandler struct {
	estimator EstimatorOps
}

func NewEstimatorHandler(estimator EstimatorOps) *EstimatorHandler {
	return &EstimatorHandler{estimator: estimator}
}

// Chat runs one estimator turn: message in, narrative plus priced
// materials summary out. The spec token is opaque to the client and is
// round-tripped unchanged between turns.
func (h *EstimatorHandler) Chat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	resp, err := h.estimator.Chat(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExtractBOM builds a priced materials summary from uploaded plan documents.
func (h *EstimatorHandler) ExtractBOM(c *gin.Context) {
	var req types.BOMExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	resp, err := h.estimator.ExtractBOM(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
