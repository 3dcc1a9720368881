package domain

import "time"

// Proceeds is the withdrawable balance owed to a seller from completed sales.
// The balance only grows through successful purchases attributed to the
// seller and only shrinks through that seller's own withdrawal, which resets
// it to zero. A seller that was never credited has an implicit zero balance.
type Proceeds struct {
	Seller    Address   `json:"seller"`
	Balance   uint64    `json:"balance"` // In smallest currency unit
	UpdatedAt time.Time `json:"updated_at"`
}
