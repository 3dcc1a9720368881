package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"asset-marketplace/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ProceedsRepo implements ports.ProceedsRepository.
type ProceedsRepo struct {
	pool Pool
}

// NewProceedsRepo creates a new ProceedsRepo.
func NewProceedsRepo(pool Pool) *ProceedsRepo {
	return &ProceedsRepo{pool: pool}
}

// Get fetches a seller's proceeds (without locking). Returns nil, nil when
// the seller was never credited.
func (r *ProceedsRepo) Get(ctx context.Context, seller domain.Address) (*domain.Proceeds, error) {
	query := `SELECT seller, balance, updated_at FROM proceeds WHERE seller = $1`

	p := &domain.Proceeds{}
	err := r.pool.QueryRow(ctx, query, seller).Scan(&p.Seller, &p.Balance, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get proceeds: %w", err)
	}
	return p, nil
}

// GetForUpdate fetches a seller's proceeds with pessimistic locking.
// This MUST be called within a transaction.
func (r *ProceedsRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, seller domain.Address) (*domain.Proceeds, error) {
	query := `SELECT seller, balance, updated_at FROM proceeds WHERE seller = $1 FOR UPDATE`

	p := &domain.Proceeds{}
	err := tx.QueryRow(ctx, query, seller).Scan(&p.Seller, &p.Balance, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get proceeds for update: %w", err)
	}
	return p, nil
}

// Credit adds amount to the seller's balance within a transaction, creating
// the row at zero first if the seller was never credited.
func (r *ProceedsRepo) Credit(ctx context.Context, tx pgx.Tx, seller domain.Address, amount uint64, at time.Time) error {
	query := `INSERT INTO proceeds (seller, balance, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (seller) DO UPDATE SET balance = proceeds.balance + $2, updated_at = $3`

	_, err := tx.Exec(ctx, query, seller, amount, at)
	if err != nil {
		return fmt.Errorf("credit proceeds: %w", err)
	}
	return nil
}

// Reset zeroes the seller's balance within a transaction.
func (r *ProceedsRepo) Reset(ctx context.Context, tx pgx.Tx, seller domain.Address, at time.Time) error {
	query := `UPDATE proceeds SET balance = 0, updated_at = $1 WHERE seller = $2`

	tag, err := tx.Exec(ctx, query, at, seller)
	if err != nil {
		return fmt.Errorf("reset proceeds: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("proceeds not found: %s", seller)
	}
	return nil
}
