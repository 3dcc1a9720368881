package handler

import (
	"asset-marketplace/internal/adapter/http/dto"
	"asset-marketplace/internal/adapter/http/middleware"
	"asset-marketplace/internal/core/domain"
	"asset-marketplace/internal/core/ports"
	"asset-marketplace/pkg/apperror"
	"asset-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
)

// ListingHandler handles listing-related endpoints.
type ListingHandler struct {
	marketplaceSvc ports.MarketplaceService
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(marketplaceSvc ports.MarketplaceService) *ListingHandler {
	return &ListingHandler{marketplaceSvc: marketplaceSvc}
}

// callerAddress pulls the authenticated caller off the request context.
func callerAddress(c *gin.Context) (domain.Address, bool) {
	v, ok := c.Get(middleware.CtxCallerAddress)
	if !ok {
		return "", false
	}
	addr, ok := v.(domain.Address)
	return addr, ok
}

// bindAssetURI binds and normalizes the asset key path parameters.
func bindAssetURI(c *gin.Context) (domain.AssetKey, bool) {
	var uri dto.AssetURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return domain.AssetKey{}, false
	}
	return uri.Key(), true
}

// ListItem handles POST /api/v1/listings.
func (h *ListingHandler) ListItem(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.ListItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	listing, err := h.marketplaceSvc.ListItem(c.Request.Context(), ports.ListItemRequest{
		AssetKey: domain.NewAssetKey(req.Registry, req.TokenID),
		Price:    req.Price,
		Caller:   caller,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToListingResponse(listing))
}

// GetListing handles GET /api/v1/listings/:registry/:token_id.
func (h *ListingHandler) GetListing(c *gin.Context) {
	key, ok := bindAssetURI(c)
	if !ok {
		return
	}

	listing, err := h.marketplaceSvc.GetListing(c.Request.Context(), key)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ToListingResponse(listing))
}

// ListListings handles GET /api/v1/listings with optional ?seller= filter.
func (h *ListingHandler) ListListings(c *gin.Context) {
	var seller *domain.Address
	if raw := c.Query("seller"); raw != "" {
		addr := domain.NormalizeAddress(raw)
		seller = &addr
	}

	listings, err := h.marketplaceSvc.ListListings(c.Request.Context(), seller)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.ListingResponse, 0, len(listings))
	for i := range listings {
		items = append(items, dto.ToListingResponse(&listings[i]))
	}

	response.OK(c, dto.ListingListResponse{Items: items, Total: len(items)})
}

// UpdateListing handles PUT /api/v1/listings/:registry/:token_id.
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	key, ok := bindAssetURI(c)
	if !ok {
		return
	}

	var req dto.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	listing, err := h.marketplaceSvc.UpdateListing(c.Request.Context(), ports.UpdateListingRequest{
		AssetKey: key,
		NewPrice: req.Price,
		Caller:   caller,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ToListingResponse(listing))
}

// CancelListing handles DELETE /api/v1/listings/:registry/:token_id.
func (h *ListingHandler) CancelListing(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	key, ok := bindAssetURI(c)
	if !ok {
		return
	}

	err := h.marketplaceSvc.CancelListing(c.Request.Context(), ports.CancelListingRequest{
		AssetKey: key,
		Caller:   caller,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"status": "canceled"})
}

// BuyItem handles POST /api/v1/listings/:registry/:token_id/buy.
func (h *ListingHandler) BuyItem(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	key, ok := bindAssetURI(c)
	if !ok {
		return
	}

	var req dto.BuyItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	listing, err := h.marketplaceSvc.BuyItem(c.Request.Context(), ports.BuyItemRequest{
		AssetKey: key,
		Payment:  req.Payment,
		Caller:   caller,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ToListingResponse(listing))
}
