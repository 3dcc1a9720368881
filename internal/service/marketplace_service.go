package service

import (
	"context"
	"fmt"
	"time"

	"asset-marketplace/internal/core/domain"
	"asset-marketplace/internal/core/ports"
	"asset-marketplace/pkg/apperror"

	"github.com/rs/zerolog"
)

const listingCacheTTL = 5 * time.Minute

// MarketplaceServiceImpl implements ports.MarketplaceService.
//
// Every mutating operation follows the same discipline: validate
// preconditions, apply state changes inside one database transaction, call
// external collaborators before commit so their failure rolls everything
// back, and only after a successful commit touch the cache and publish the
// event. The listing is gone and the proceeds are credited before the asset
// transfer runs, so a transfer hook that re-enters the marketplace finds no
// listing to buy and a withdrawal hook finds a zero balance.
type MarketplaceServiceImpl struct {
	listingRepo  ports.ListingRepository
	proceedsRepo ports.ProceedsRepository
	eventRepo    ports.EventRepository
	registry     ports.AssetRegistry
	settlement   ports.CurrencyTransfer
	publisher    ports.EventPublisher
	cache        ports.ListingCache
	transactor   ports.DBTransactor
	operator     domain.Address
	log          zerolog.Logger
}

// NewMarketplaceService creates a new MarketplaceServiceImpl. operator is the
// marketplace's own identity at the asset registry; sellers must have
// approved it for transfer before listing.
func NewMarketplaceService(
	listingRepo ports.ListingRepository,
	proceedsRepo ports.ProceedsRepository,
	eventRepo ports.EventRepository,
	registry ports.AssetRegistry,
	settlement ports.CurrencyTransfer,
	publisher ports.EventPublisher,
	cache ports.ListingCache,
	transactor ports.DBTransactor,
	operator domain.Address,
	log zerolog.Logger,
) *MarketplaceServiceImpl {
	return &MarketplaceServiceImpl{
		listingRepo:  listingRepo,
		proceedsRepo: proceedsRepo,
		eventRepo:    eventRepo,
		registry:     registry,
		settlement:   settlement,
		publisher:    publisher,
		cache:        cache,
		transactor:   transactor,
		operator:     operator,
		log:          log,
	}
}

// ListItem creates a listing for an asset the caller owns and has approved
// the marketplace to transfer.
func (s *MarketplaceServiceImpl) ListItem(ctx context.Context, req ports.ListItemRequest) (*domain.Listing, error) {
	if req.AssetKey.IsZero() || req.Caller.IsZero() {
		return nil, apperror.Validation("asset key and caller are required")
	}
	if req.Price == 0 {
		return nil, apperror.ErrPriceMustBeAboveZero()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	existing, err := s.listingRepo.GetForUpdate(ctx, dbTx, req.AssetKey)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check existing listing: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrAlreadyListed()
	}

	// Ownership and approval truth lives in the external registry; it is
	// checked here and never cached.
	owner, err := s.registry.OwnerOf(ctx, req.AssetKey)
	if err != nil {
		return nil, apperror.ErrExternalTransferFailed(fmt.Errorf("owner lookup: %w", err))
	}
	if owner != req.Caller {
		return nil, apperror.ErrNotOwner()
	}

	approved, err := s.registry.IsApprovedForTransfer(ctx, req.AssetKey, s.operator)
	if err != nil {
		return nil, apperror.ErrExternalTransferFailed(fmt.Errorf("approval lookup: %w", err))
	}
	if !approved {
		return nil, apperror.ErrNotApprovedForMarketplace()
	}

	now := time.Now().UTC()
	listing := &domain.Listing{
		AssetKey:  req.AssetKey,
		Seller:    req.Caller,
		Price:     req.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.listingRepo.Create(ctx, dbTx, listing); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create listing: %w", err))
	}

	event := domain.NewItemListed(req.AssetKey, req.Caller, req.Price, now)
	if err := s.eventRepo.Append(ctx, dbTx, &event); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append event: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.invalidateCache(ctx, req.AssetKey)
	s.publisher.Publish(ctx, event)

	s.log.Info().
		Str("asset", req.AssetKey.String()).
		Str("seller", req.Caller.String()).
		Uint64("price", req.Price).
		Msg("item listed")

	return listing, nil
}

// BuyItem purchases a listed asset. The full payment is credited to the
// seller (overpayment is retained) and the listing is deleted before the
// registry transfer runs; a transfer failure rolls both back.
func (s *MarketplaceServiceImpl) BuyItem(ctx context.Context, req ports.BuyItemRequest) (*domain.Listing, error) {
	if req.AssetKey.IsZero() || req.Caller.IsZero() {
		return nil, apperror.Validation("asset key and caller are required")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	listing, err := s.listingRepo.GetForUpdate(ctx, dbTx, req.AssetKey)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock listing: %w", err))
	}
	if listing == nil {
		return nil, apperror.ErrNotListed()
	}
	if req.Payment < listing.Price {
		return nil, apperror.ErrPriceNotMet()
	}

	now := time.Now().UTC()

	// Effects before interaction: credit and delist first, so the transfer
	// side effect cannot observe (or re-buy) a still-listed asset.
	if err := s.proceedsRepo.Credit(ctx, dbTx, listing.Seller, req.Payment, now); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("credit proceeds: %w", err))
	}
	if err := s.listingRepo.Delete(ctx, dbTx, req.AssetKey); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("delete listing: %w", err))
	}

	if err := s.registry.TransferFrom(ctx, listing.Seller, req.Caller, req.AssetKey); err != nil {
		return nil, apperror.ErrExternalTransferFailed(fmt.Errorf("asset transfer: %w", err))
	}

	event := domain.NewItemBought(req.AssetKey, req.Caller, listing.Price, now)
	if err := s.eventRepo.Append(ctx, dbTx, &event); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append event: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.invalidateCache(ctx, req.AssetKey)
	s.publisher.Publish(ctx, event)

	s.log.Info().
		Str("asset", req.AssetKey.String()).
		Str("seller", listing.Seller.String()).
		Str("buyer", req.Caller.String()).
		Uint64("price", listing.Price).
		Uint64("payment", req.Payment).
		Msg("item bought")

	return listing, nil
}

// CancelListing removes the caller's listing.
func (s *MarketplaceServiceImpl) CancelListing(ctx context.Context, req ports.CancelListingRequest) error {
	if req.AssetKey.IsZero() || req.Caller.IsZero() {
		return apperror.Validation("asset key and caller are required")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	listing, err := s.listingRepo.GetForUpdate(ctx, dbTx, req.AssetKey)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock listing: %w", err))
	}
	if listing == nil {
		return apperror.ErrNotListed()
	}
	if listing.Seller != req.Caller {
		return apperror.ErrNotOwner()
	}

	if err := s.listingRepo.Delete(ctx, dbTx, req.AssetKey); err != nil {
		return apperror.InternalError(fmt.Errorf("delete listing: %w", err))
	}

	now := time.Now().UTC()
	event := domain.NewItemCanceled(req.AssetKey, req.Caller, now)
	if err := s.eventRepo.Append(ctx, dbTx, &event); err != nil {
		return apperror.InternalError(fmt.Errorf("append event: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.invalidateCache(ctx, req.AssetKey)
	s.publisher.Publish(ctx, event)

	s.log.Info().
		Str("asset", req.AssetKey.String()).
		Str("seller", req.Caller.String()).
		Msg("listing canceled")

	return nil
}

// UpdateListing replaces the price of the caller's listing. The new price is
// validated above zero, same as at listing time, so a listing can never hold
// a zero price through any path. Emits ItemListed again: re-priced listings
// are indistinguishable from new ones to consumers.
func (s *MarketplaceServiceImpl) UpdateListing(ctx context.Context, req ports.UpdateListingRequest) (*domain.Listing, error) {
	if req.AssetKey.IsZero() || req.Caller.IsZero() {
		return nil, apperror.Validation("asset key and caller are required")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	listing, err := s.listingRepo.GetForUpdate(ctx, dbTx, req.AssetKey)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock listing: %w", err))
	}
	if listing == nil {
		return nil, apperror.ErrNotListed()
	}
	if listing.Seller != req.Caller {
		return nil, apperror.ErrNotOwner()
	}
	if req.NewPrice == 0 {
		return nil, apperror.ErrPriceMustBeAboveZero()
	}

	now := time.Now().UTC()
	updated := listing.WithPrice(req.NewPrice, now)
	if err := s.listingRepo.Replace(ctx, dbTx, &updated); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("replace listing: %w", err))
	}

	event := domain.NewItemListed(req.AssetKey, req.Caller, req.NewPrice, now)
	if err := s.eventRepo.Append(ctx, dbTx, &event); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append event: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.invalidateCache(ctx, req.AssetKey)
	s.publisher.Publish(ctx, event)

	s.log.Info().
		Str("asset", req.AssetKey.String()).
		Str("seller", req.Caller.String()).
		Uint64("price", req.NewPrice).
		Msg("listing updated")

	return &updated, nil
}

// WithdrawProceeds pays out the caller's full balance. The balance is zeroed
// BEFORE the payout call runs: a reentrant withdrawal issued from inside the
// payout observes zero and fails with NoProceeds. A payout failure rolls the
// zeroing back.
func (s *MarketplaceServiceImpl) WithdrawProceeds(ctx context.Context, caller domain.Address) (uint64, error) {
	if caller.IsZero() {
		return 0, apperror.Validation("caller is required")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	proceeds, err := s.proceedsRepo.GetForUpdate(ctx, dbTx, caller)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("lock proceeds: %w", err))
	}
	if proceeds == nil || proceeds.Balance == 0 {
		return 0, apperror.ErrNoProceeds()
	}
	amount := proceeds.Balance

	now := time.Now().UTC()
	if err := s.proceedsRepo.Reset(ctx, dbTx, caller, now); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("reset proceeds: %w", err))
	}

	if err := s.settlement.Pay(ctx, caller, amount); err != nil {
		return 0, apperror.ErrExternalTransferFailed(fmt.Errorf("payout: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("seller", caller.String()).
		Uint64("amount", amount).
		Msg("proceeds withdrawn")

	return amount, nil
}

// GetListing returns the listing for key, trying the cache first. Fails with
// NotListed when the asset is not offered for sale, which callers must
// distinguish from any priced listing.
func (s *MarketplaceServiceImpl) GetListing(ctx context.Context, key domain.AssetKey) (*domain.Listing, error) {
	if key.IsZero() {
		return nil, apperror.Validation("asset key is required")
	}

	if cached, err := s.cache.Get(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("asset", key.String()).Msg("listing cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	listing, err := s.listingRepo.Get(ctx, key)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get listing: %w", err))
	}
	if listing == nil {
		return nil, apperror.ErrNotListed()
	}

	if err := s.cache.Set(ctx, listing, listingCacheTTL); err != nil {
		s.log.Warn().Err(err).Str("asset", key.String()).Msg("listing cache write failed")
	}

	return listing, nil
}

// GetProceeds returns the seller's withdrawable balance, zero if never credited.
func (s *MarketplaceServiceImpl) GetProceeds(ctx context.Context, seller domain.Address) (uint64, error) {
	if seller.IsZero() {
		return 0, apperror.Validation("seller is required")
	}

	proceeds, err := s.proceedsRepo.Get(ctx, seller)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("get proceeds: %w", err))
	}
	if proceeds == nil {
		return 0, nil
	}
	return proceeds.Balance, nil
}

// ListListings returns active listings, optionally filtered by seller.
func (s *MarketplaceServiceImpl) ListListings(ctx context.Context, seller *domain.Address) ([]domain.Listing, error) {
	listings, err := s.listingRepo.List(ctx, seller)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list listings: %w", err))
	}
	return listings, nil
}

// invalidateCache drops the cached listing for key, best-effort.
func (s *MarketplaceServiceImpl) invalidateCache(ctx context.Context, key domain.AssetKey) {
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("asset", key.String()).Msg("listing cache invalidation failed")
	}
}
