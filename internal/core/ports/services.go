package ports

import (
	"context"
	"time"

	"asset-marketplace/internal/core/domain"
)

//go:generate mockgen -source=services.go -destination=mocks/services.go -package=mocks

// AssetRegistry is the external collaborator holding ground-truth ownership
// and transfer approval for assets. The marketplace never caches its answers:
// ownership is re-validated at purchase time implicitly by TransferFrom
// itself. Any failure aborts the enclosing operation.
type AssetRegistry interface {
	OwnerOf(ctx context.Context, key domain.AssetKey) (domain.Address, error)
	IsApprovedForTransfer(ctx context.Context, key domain.AssetKey, operator domain.Address) (bool, error)
	TransferFrom(ctx context.Context, from, to domain.Address, key domain.AssetKey) error
}

// CurrencyTransfer is the external payout collaborator, used only by
// withdrawal and only after the ledger debit is already committed in the
// enclosing transaction.
type CurrencyTransfer interface {
	Pay(ctx context.Context, to domain.Address, amount uint64) error
}

// EventPublisher delivers market events to external subscribers. Delivery is
// best-effort and must never fail the mutation that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.MarketEvent)
}

// ListingCache is a best-effort read cache in front of the listing registry.
// Storage stays authoritative; the cache is invalidated on every mutation.
type ListingCache interface {
	// Get returns the cached listing, or nil, nil on a miss.
	Get(ctx context.Context, key domain.AssetKey) (*domain.Listing, error)
	Set(ctx context.Context, listing *domain.Listing, ttl time.Duration) error
	Invalidate(ctx context.Context, key domain.AssetKey) error
}

// SignatureService handles HMAC-SHA256 signing and verification of event
// payloads delivered to subscribers.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
}

// TokenService handles bearer tokens that carry caller identity. Token
// issuance for real accounts lives outside this system; Generate exists for
// operational tooling and tests.
type TokenService interface {
	Generate(caller domain.Address) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed token claims.
type TokenClaims struct {
	Caller domain.Address
}

// --- Service Ports (Business Logic) ---

// MarketplaceService is the operation dispatcher: the public marketplace
// operations, each independently invocable by any caller and each either
// fully applied or fully aborted.
type MarketplaceService interface {
	ListItem(ctx context.Context, req ListItemRequest) (*domain.Listing, error)
	BuyItem(ctx context.Context, req BuyItemRequest) (*domain.Listing, error)
	CancelListing(ctx context.Context, req CancelListingRequest) error
	UpdateListing(ctx context.Context, req UpdateListingRequest) (*domain.Listing, error)
	// WithdrawProceeds pays out and returns the caller's full balance.
	WithdrawProceeds(ctx context.Context, caller domain.Address) (uint64, error)
	// GetListing fails with NotListed when the asset is not offered for sale.
	GetListing(ctx context.Context, key domain.AssetKey) (*domain.Listing, error)
	// GetProceeds returns zero for sellers that were never credited.
	GetProceeds(ctx context.Context, seller domain.Address) (uint64, error)
	// ListListings returns active listings, optionally filtered by seller.
	ListListings(ctx context.Context, seller *domain.Address) ([]domain.Listing, error)
}

// ListItemRequest holds validated input for creating a listing.
type ListItemRequest struct {
	AssetKey domain.AssetKey
	Price    uint64
	Caller   domain.Address
}

// BuyItemRequest holds validated input for purchasing a listed asset.
type BuyItemRequest struct {
	AssetKey domain.AssetKey
	Payment  uint64
	Caller   domain.Address
}

// CancelListingRequest holds validated input for canceling a listing.
type CancelListingRequest struct {
	AssetKey domain.AssetKey
	Caller   domain.Address
}

// UpdateListingRequest holds validated input for re-pricing a listing.
type UpdateListingRequest struct {
	AssetKey domain.AssetKey
	NewPrice uint64
	Caller   domain.Address
}
