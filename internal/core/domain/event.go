package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType names a marketplace notification event.
type EventType string

const (
	EventItemListed   EventType = "ITEM_LISTED"
	EventItemBought   EventType = "ITEM_BOUGHT"
	EventItemCanceled EventType = "ITEM_CANCELED"
)

// MarketEvent is the notification emitted after each successful mutation.
// Exactly one event per mutation; none on failure. Listing updates emit
// ITEM_LISTED again, so consumers cannot distinguish an update from a fresh
// listing.
type MarketEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      EventType `json:"type"`
	AssetKey  AssetKey  `json:"asset_key"`
	Actor     Address   `json:"actor"` // Seller for listed/canceled, buyer for bought
	Price     *uint64   `json:"price,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewItemListed builds the event for a created or re-priced listing.
func NewItemListed(key AssetKey, seller Address, price uint64, now time.Time) MarketEvent {
	p := price
	return MarketEvent{
		ID:        uuid.New(),
		Type:      EventItemListed,
		AssetKey:  key,
		Actor:     seller,
		Price:     &p,
		CreatedAt: now,
	}
}

// NewItemBought builds the event for a completed purchase. Price carries the
// listing price, not the amount paid.
func NewItemBought(key AssetKey, buyer Address, price uint64, now time.Time) MarketEvent {
	p := price
	return MarketEvent{
		ID:        uuid.New(),
		Type:      EventItemBought,
		AssetKey:  key,
		Actor:     buyer,
		Price:     &p,
		CreatedAt: now,
	}
}

// NewItemCanceled builds the event for a canceled listing.
func NewItemCanceled(key AssetKey, seller Address, now time.Time) MarketEvent {
	return MarketEvent{
		ID:        uuid.New(),
		Type:      EventItemCanceled,
		AssetKey:  key,
		Actor:     seller,
		CreatedAt: now,
	}
}
