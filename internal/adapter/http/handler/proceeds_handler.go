package handler

import (
	"asset-marketplace/internal/adapter/http/dto"
	"asset-marketplace/internal/core/ports"
	"asset-marketplace/pkg/apperror"
	"asset-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
)

// ProceedsHandler handles proceeds-related endpoints.
type ProceedsHandler struct {
	marketplaceSvc ports.MarketplaceService
}

// NewProceedsHandler creates a new ProceedsHandler.
func NewProceedsHandler(marketplaceSvc ports.MarketplaceService) *ProceedsHandler {
	return &ProceedsHandler{marketplaceSvc: marketplaceSvc}
}

// GetProceeds handles GET /api/v1/proceeds.
func (h *ProceedsHandler) GetProceeds(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	balance, err := h.marketplaceSvc.GetProceeds(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ProceedsResponse{
		Seller:  caller.String(),
		Balance: balance,
	})
}

// Withdraw handles POST /api/v1/proceeds/withdraw.
func (h *ProceedsHandler) Withdraw(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	amount, err := h.marketplaceSvc.WithdrawProceeds(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.WithdrawResponse{
		Seller: caller.String(),
		Amount: amount,
	})
}
