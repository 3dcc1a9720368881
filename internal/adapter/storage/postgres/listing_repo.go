package postgres

import (
	"context"
	"errors"
	"fmt"

	"asset-marketplace/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ListingRepo implements ports.ListingRepository.
type ListingRepo struct {
	pool Pool
}

// NewListingRepo creates a new ListingRepo.
func NewListingRepo(pool Pool) *ListingRepo {
	return &ListingRepo{pool: pool}
}

// Get fetches a listing by asset key (without locking).
func (r *ListingRepo) Get(ctx context.Context, key domain.AssetKey) (*domain.Listing, error) {
	query := `SELECT registry, token_id, seller, price, created_at, updated_at
		FROM listings WHERE registry = $1 AND token_id = $2`

	l := &domain.Listing{}
	err := r.pool.QueryRow(ctx, query, key.Registry, key.TokenID).Scan(
		&l.AssetKey.Registry, &l.AssetKey.TokenID, &l.Seller,
		&l.Price, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get listing: %w", err)
	}
	return l, nil
}

// GetForUpdate fetches a listing by asset key with pessimistic locking.
// This MUST be called within a transaction.
func (r *ListingRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, key domain.AssetKey) (*domain.Listing, error) {
	query := `SELECT registry, token_id, seller, price, created_at, updated_at
		FROM listings WHERE registry = $1 AND token_id = $2 FOR UPDATE`

	l := &domain.Listing{}
	err := tx.QueryRow(ctx, query, key.Registry, key.TokenID).Scan(
		&l.AssetKey.Registry, &l.AssetKey.TokenID, &l.Seller,
		&l.Price, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get listing for update: %w", err)
	}
	return l, nil
}

// List fetches active listings, optionally filtered by seller.
func (r *ListingRepo) List(ctx context.Context, seller *domain.Address) ([]domain.Listing, error) {
	query := `SELECT registry, token_id, seller, price, created_at, updated_at
		FROM listings ORDER BY created_at DESC`
	args := []any{}
	if seller != nil {
		query = `SELECT registry, token_id, seller, price, created_at, updated_at
		FROM listings WHERE seller = $1 ORDER BY created_at DESC`
		args = append(args, *seller)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		if err := rows.Scan(
			&l.AssetKey.Registry, &l.AssetKey.TokenID, &l.Seller,
			&l.Price, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return listings, nil
}

// Create inserts a new listing within a transaction.
func (r *ListingRepo) Create(ctx context.Context, tx pgx.Tx, l *domain.Listing) error {
	query := `INSERT INTO listings (registry, token_id, seller, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		l.AssetKey.Registry, l.AssetKey.TokenID, l.Seller,
		l.Price, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

// Replace overwrites the listing record for its asset key within a transaction.
func (r *ListingRepo) Replace(ctx context.Context, tx pgx.Tx, l *domain.Listing) error {
	query := `UPDATE listings SET seller = $1, price = $2, updated_at = $3
		WHERE registry = $4 AND token_id = $5`

	tag, err := tx.Exec(ctx, query,
		l.Seller, l.Price, l.UpdatedAt,
		l.AssetKey.Registry, l.AssetKey.TokenID,
	)
	if err != nil {
		return fmt.Errorf("replace listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("listing not found: %s", l.AssetKey)
	}
	return nil
}

// Delete removes a listing within a transaction.
func (r *ListingRepo) Delete(ctx context.Context, tx pgx.Tx, key domain.AssetKey) error {
	query := `DELETE FROM listings WHERE registry = $1 AND token_id = $2`

	tag, err := tx.Exec(ctx, query, key.Registry, key.TokenID)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("listing not found: %s", key)
	}
	return nil
}
