package postgres

import (
	"context"
	"fmt"

	"asset-marketplace/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// EventRepo implements ports.EventRepository. The market_events table is
// append-only; rows are never updated or deleted.
type EventRepo struct {
	pool Pool
}

// NewEventRepo creates a new EventRepo.
func NewEventRepo(pool Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

// Append inserts a market event within the mutation's transaction.
func (r *EventRepo) Append(ctx context.Context, tx pgx.Tx, e *domain.MarketEvent) error {
	query := `INSERT INTO market_events (id, event_type, registry, token_id, actor, price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		e.ID, e.Type, e.AssetKey.Registry, e.AssetKey.TokenID,
		e.Actor, e.Price, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append market event: %w", err)
	}
	return nil
}
