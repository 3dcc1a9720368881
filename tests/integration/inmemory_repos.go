package integration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"asset-marketplace/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// The in-memory repositories apply mutations immediately instead of
// buffering them until commit. That keeps them simple and makes reentrant
// calls observe intermediate state, which is exactly what the withdrawal
// reentrancy test needs to see.

// --- In-Memory Listing Repo ---

type inMemoryListingRepo struct {
	mu       sync.RWMutex
	listings map[domain.AssetKey]domain.Listing
}

func newInMemoryListingRepo() *inMemoryListingRepo {
	return &inMemoryListingRepo{listings: make(map[domain.AssetKey]domain.Listing)}
}

func (r *inMemoryListingRepo) Get(ctx context.Context, key domain.AssetKey) (*domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.listings[key]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *inMemoryListingRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, key domain.AssetKey) (*domain.Listing, error) {
	return r.Get(ctx, key)
}

func (r *inMemoryListingRepo) List(ctx context.Context, seller *domain.Address) ([]domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Listing
	for _, l := range r.listings {
		if seller != nil && l.Seller != *seller {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *inMemoryListingRepo) Create(ctx context.Context, tx pgx.Tx, l *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[l.AssetKey]; ok {
		return fmt.Errorf("listing already exists: %s", l.AssetKey)
	}
	r.listings[l.AssetKey] = *l
	return nil
}

func (r *inMemoryListingRepo) Replace(ctx context.Context, tx pgx.Tx, l *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[l.AssetKey]; !ok {
		return fmt.Errorf("listing not found: %s", l.AssetKey)
	}
	r.listings[l.AssetKey] = *l
	return nil
}

func (r *inMemoryListingRepo) Delete(ctx context.Context, tx pgx.Tx, key domain.AssetKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[key]; !ok {
		return fmt.Errorf("listing not found: %s", key)
	}
	delete(r.listings, key)
	return nil
}

// --- In-Memory Proceeds Repo ---

type inMemoryProceedsRepo struct {
	mu       sync.RWMutex
	balances map[domain.Address]domain.Proceeds
}

func newInMemoryProceedsRepo() *inMemoryProceedsRepo {
	return &inMemoryProceedsRepo{balances: make(map[domain.Address]domain.Proceeds)}
}

func (r *inMemoryProceedsRepo) Get(ctx context.Context, seller domain.Address) (*domain.Proceeds, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.balances[seller]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *inMemoryProceedsRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, seller domain.Address) (*domain.Proceeds, error) {
	return r.Get(ctx, seller)
}

func (r *inMemoryProceedsRepo) Credit(ctx context.Context, tx pgx.Tx, seller domain.Address, amount uint64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.balances[seller]
	p.Seller = seller
	p.Balance += amount
	p.UpdatedAt = at
	r.balances[seller] = p
	return nil
}

func (r *inMemoryProceedsRepo) Reset(ctx context.Context, tx pgx.Tx, seller domain.Address, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.balances[seller]
	if !ok {
		return fmt.Errorf("proceeds not found: %s", seller)
	}
	p.Balance = 0
	p.UpdatedAt = at
	r.balances[seller] = p
	return nil
}

// --- In-Memory Event Repo ---

type inMemoryEventRepo struct {
	mu     sync.RWMutex
	events []domain.MarketEvent
}

func newInMemoryEventRepo() *inMemoryEventRepo {
	return &inMemoryEventRepo{}
}

func (r *inMemoryEventRepo) Append(ctx context.Context, tx pgx.Tx, e *domain.MarketEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	return nil
}

func (r *inMemoryEventRepo) all() []domain.MarketEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.MarketEvent, len(r.events))
	copy(out, r.events)
	return out
}

// --- Fake Asset Registry ---

type assetTransfer struct {
	From, To domain.Address
	Key      domain.AssetKey
}

type fakeRegistry struct {
	mu          sync.Mutex
	owners      map[domain.AssetKey]domain.Address
	approved    map[domain.AssetKey]bool
	transferErr error
	transfers   []assetTransfer
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		owners:   make(map[domain.AssetKey]domain.Address),
		approved: make(map[domain.AssetKey]bool),
	}
}

func (f *fakeRegistry) setAsset(key domain.AssetKey, owner domain.Address, approved bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.owners[key] = owner
	f.approved[key] = approved
}

func (f *fakeRegistry) OwnerOf(ctx context.Context, key domain.AssetKey) (domain.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	owner, ok := f.owners[key]
	if !ok {
		return "", fmt.Errorf("unknown asset: %s", key)
	}
	return owner, nil
}

func (f *fakeRegistry) IsApprovedForTransfer(ctx context.Context, key domain.AssetKey, operator domain.Address) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.approved[key], nil
}

func (f *fakeRegistry) TransferFrom(ctx context.Context, from, to domain.Address, key domain.AssetKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.transferErr != nil {
		return f.transferErr
	}
	f.owners[key] = to
	f.transfers = append(f.transfers, assetTransfer{From: from, To: to, Key: key})
	return nil
}

// --- Fake Settlement ---

type payout struct {
	To     domain.Address
	Amount uint64
}

type fakeSettlement struct {
	mu      sync.Mutex
	payErr  error
	onPay   func(to domain.Address, amount uint64) // invoked before recording
	payouts []payout
}

func newFakeSettlement() *fakeSettlement {
	return &fakeSettlement{}
}

func (f *fakeSettlement) Pay(ctx context.Context, to domain.Address, amount uint64) error {
	f.mu.Lock()
	hook := f.onPay
	err := f.payErr
	f.mu.Unlock()

	if hook != nil {
		hook(to, amount)
	}
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.payouts = append(f.payouts, payout{To: to, Amount: amount})
	f.mu.Unlock()
	return nil
}

// --- In-Memory Transactor ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
