package ports

import (
	"context"
	"time"

	"asset-marketplace/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

//go:generate mockgen -source=repositories.go -destination=mocks/repositories.go -package=mocks

// ListingRepository defines persistence operations for the listing registry.
// A listing row exists if and only if the asset is currently offered for
// sale. Methods accepting pgx.Tx run inside transaction blocks and take a
// pessimistic lock where they read.
type ListingRepository interface {
	// Get returns the listing for key, or nil, nil when the asset is not listed.
	Get(ctx context.Context, key domain.AssetKey) (*domain.Listing, error)
	// GetForUpdate locks and returns the listing inside tx, or nil, nil.
	GetForUpdate(ctx context.Context, tx pgx.Tx, key domain.AssetKey) (*domain.Listing, error)
	// List returns active listings, optionally filtered by seller.
	List(ctx context.Context, seller *domain.Address) ([]domain.Listing, error)
	Create(ctx context.Context, tx pgx.Tx, listing *domain.Listing) error
	// Replace overwrites the whole listing record for its key.
	Replace(ctx context.Context, tx pgx.Tx, listing *domain.Listing) error
	Delete(ctx context.Context, tx pgx.Tx, key domain.AssetKey) error
}

// ProceedsRepository defines persistence operations for the proceeds ledger.
// Balances are implicitly created at zero on first credit and are never
// deleted; withdrawal resets them to zero.
type ProceedsRepository interface {
	// Get returns the seller's proceeds, or nil, nil when never credited.
	Get(ctx context.Context, seller domain.Address) (*domain.Proceeds, error)
	// GetForUpdate locks and returns the seller's proceeds inside tx, or nil, nil.
	GetForUpdate(ctx context.Context, tx pgx.Tx, seller domain.Address) (*domain.Proceeds, error)
	// Credit adds amount to the seller's balance, creating the row if needed.
	Credit(ctx context.Context, tx pgx.Tx, seller domain.Address, amount uint64, at time.Time) error
	// Reset zeroes the seller's balance.
	Reset(ctx context.Context, tx pgx.Tx, seller domain.Address, at time.Time) error
}

// EventRepository is the append-only market event log. Rows are written in
// the same transaction as the mutation they describe.
type EventRepository interface {
	Append(ctx context.Context, tx pgx.Tx, event *domain.MarketEvent) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
