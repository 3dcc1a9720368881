package domain

import "time"

// Listing is an active sale offer for one asset. A listing exists if and only
// if the asset is currently offered for sale; the whole record is replaced or
// removed on every mutation, never partially updated.
//
// Invariants: Price > 0 always; at most one listing per AssetKey; Seller was
// the verified owner of the asset at creation time.
type Listing struct {
	AssetKey  AssetKey  `json:"asset_key"`
	Seller    Address   `json:"seller"`
	Price     uint64    `json:"price"` // In smallest currency unit
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WithPrice returns a copy of the listing carrying a new price.
func (l Listing) WithPrice(price uint64, now time.Time) Listing {
	l.Price = price
	l.UpdatedAt = now
	return l
}
