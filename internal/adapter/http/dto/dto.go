package dto

import (
	"time"

	"asset-marketplace/internal/core/domain"
)

// ListItemRequest is the request body for creating a listing. Price carries
// no binding constraint on purpose: a zero price is a domain error, not a
// malformed request.
type ListItemRequest struct {
	Registry string `json:"registry" binding:"required,max=100"`
	TokenID  string `json:"token_id" binding:"required,max=100,safe_id"`
	Price    uint64 `json:"price"`
}

// BuyItemRequest is the request body for purchasing a listed asset.
type BuyItemRequest struct {
	Payment uint64 `json:"payment"`
}

// UpdateListingRequest is the request body for re-pricing a listing.
type UpdateListingRequest struct {
	Price uint64 `json:"price"`
}

// AssetURI binds the asset key path parameters.
type AssetURI struct {
	Registry string `uri:"registry" binding:"required,max=100"`
	TokenID  string `uri:"token_id" binding:"required,max=100,safe_id"`
}

// Key converts the bound path parameters into a normalized asset key.
func (u AssetURI) Key() domain.AssetKey {
	return domain.NewAssetKey(u.Registry, u.TokenID)
}

// ListingResponse is the response body for a single listing.
type ListingResponse struct {
	Registry  string `json:"registry"`
	TokenID   string `json:"token_id"`
	Seller    string `json:"seller"`
	Price     uint64 `json:"price"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ToListingResponse maps a domain listing to its API representation.
func ToListingResponse(l *domain.Listing) ListingResponse {
	return ListingResponse{
		Registry:  l.AssetKey.Registry.String(),
		TokenID:   l.AssetKey.TokenID,
		Seller:    l.Seller.String(),
		Price:     l.Price,
		CreatedAt: l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: l.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// ListingListResponse wraps a listing collection.
type ListingListResponse struct {
	Items []ListingResponse `json:"items"`
	Total int               `json:"total"`
}

// ProceedsResponse is the response for a proceeds balance query.
type ProceedsResponse struct {
	Seller  string `json:"seller"`
	Balance uint64 `json:"balance"`
}

// WithdrawResponse is the response for a successful withdrawal.
type WithdrawResponse struct {
	Seller string `json:"seller"`
	Amount uint64 `json:"amount"`
}
