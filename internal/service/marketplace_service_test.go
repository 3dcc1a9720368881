package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"asset-marketplace/internal/core/domain"
	"asset-marketplace/internal/core/ports"
	"asset-marketplace/internal/core/ports/mocks"
	"asset-marketplace/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testOperator = domain.Address("0xmarketplace")

type marketplaceTestDeps struct {
	svc          *MarketplaceServiceImpl
	listingRepo  *mocks.MockListingRepository
	proceedsRepo *mocks.MockProceedsRepository
	eventRepo    *mocks.MockEventRepository
	registry     *mocks.MockAssetRegistry
	settlement   *mocks.MockCurrencyTransfer
	publisher    *mocks.MockEventPublisher
	cache        *mocks.MockListingCache
	transactor   *mocks.MockDBTransactor
	ctrl         *gomock.Controller
}

func setupMarketplaceService(t *testing.T) *marketplaceTestDeps {
	ctrl := gomock.NewController(t)
	d := &marketplaceTestDeps{
		listingRepo:  mocks.NewMockListingRepository(ctrl),
		proceedsRepo: mocks.NewMockProceedsRepository(ctrl),
		eventRepo:    mocks.NewMockEventRepository(ctrl),
		registry:     mocks.NewMockAssetRegistry(ctrl),
		settlement:   mocks.NewMockCurrencyTransfer(ctrl),
		publisher:    mocks.NewMockEventPublisher(ctrl),
		cache:        mocks.NewMockListingCache(ctrl),
		transactor:   mocks.NewMockDBTransactor(ctrl),
		ctrl:         ctrl,
	}
	d.svc = NewMarketplaceService(
		d.listingRepo, d.proceedsRepo, d.eventRepo,
		d.registry, d.settlement, d.publisher, d.cache,
		d.transactor, testOperator, zerolog.Nop(),
	)
	return d
}

// mockTx implements pgx.Tx for testing and records commit state.
type mockTx struct {
	pgx.Tx
	committed bool
}

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { m.committed = true; return nil }

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

var (
	testKey    = domain.NewAssetKey("0xregistry", "42")
	testSeller = domain.Address("0xseller")
	testBuyer  = domain.Address("0xbuyer")
)

func activeListing(price uint64) *domain.Listing {
	now := time.Now().UTC()
	return &domain.Listing{
		AssetKey:  testKey,
		Seller:    testSeller,
		Price:     price,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ==================== ListItem Tests ====================

func TestMarketplaceService_ListItem_Success(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetForUpdate(ctx, tx, testKey).Return(nil, nil)
	d.registry.EXPECT().OwnerOf(ctx, testKey).Return(testSeller, nil)
	d.registry.EXPECT().IsApprovedForTransfer(ctx, testKey, testOperator).Return(true, nil)
	d.listingRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.eventRepo.EXPECT().Append(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, ev *domain.MarketEvent) error {
			assert.Equal(t, domain.EventItemListed, ev.Type)
			assert.Equal(t, testSeller, ev.Actor)
			require.NotNil(t, ev.Price)
			assert.Equal(t, uint64(10), *ev.Price)
			return nil
		})
	d.cache.EXPECT().Invalidate(ctx, testKey).Return(nil)
	d.publisher.EXPECT().Publish(ctx, gomock.Any())

	listing, err := d.svc.ListItem(ctx, ports.ListItemRequest{
		AssetKey: testKey, Price: 10, Caller: testSeller,
	})
	require.NoError(t, err)
	require.NotNil(t, listing)
	assert.Equal(t, testSeller, listing.Seller)
	assert.Equal(t, uint64(10), listing.Price)
	assert.True(t, tx.committed)
}

func TestMarketplaceService_ListItem_ZeroPrice(t *testing.T) {
	d := setupMarketplaceService(t)

	listing, err := d.svc.ListItem(context.Background(), ports.ListItemRequest{
		AssetKey: testKey, Price: 0, Caller: testSeller,
	})
	assert.Nil(t, listing)
	assertAppError(t, err, "MKT_004")
}

func TestMarketplaceService_ListItem_AlreadyListed(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetForUpdate(ctx, tx, testKey).Return(activeListing(10), nil)

	listing, err := d.svc.ListItem(ctx, ports.ListItemRequest{
		AssetKey: testKey, Price: 10, Caller: testSeller,
	})
	assert.Nil(t, listing)
	assertAppError(t, err, "MKT_002")
	assert.False(t, tx.committed)
}

func TestMarketplaceService_ListItem_NotOwner(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetForUpdate(ctx, tx, testKey).Return(nil, nil)
	d.registry.EXPECT().OwnerOf(ctx, testKey).Return(domain.Address("0xsomeoneelse"), nil)

	listing, err := d.svc.ListItem(ctx, ports.ListItemRequest{
		AssetKey: testKey, Price: 10, Caller: testSeller,
	})
	assert.Nil(t, listing)
	assertAppError(t, err, "MKT_003")
	assert.False(t, tx.committed)
}

func TestMarketplaceService_ListItem_NotApproved(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetForUpdate(ctx, tx, testKey).Return(nil, nil)
	d.registry.EXPECT().OwnerOf(ctx, testKey).Return(testSeller, nil)
	d.registry.EXPECT().IsApprovedForTransfer(ctx, testKey, testOperator).Return(false, nil)

	listing, err := d.svc.ListItem(ctx, ports.ListItemRequest{
		AssetKey: testKey, Price: 10, Caller: testSeller,
	})
	assert.Nil(t, listing)
	assertAppError(t, err, "MKT_005")
	assert.False(t, tx.committed)
}

func TestMarketplaceService_ListItem_RegistryDown(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetForUpdate(ctx, tx, testKey).Return(nil, nil)
	d.registry.EXPECT().OwnerOf(ctx, testKey).Return(domain.Address(""), fmt.Errorf("connection refused"))

	_, err := d.svc.ListItem(ctx, ports.ListItemRequest{
		AssetKey: testKey, Price: 10, Caller: testSeller,
	})
	assertAppError(t, err, "MKT_008")
	assert.False(t, tx.committed)
}

// ==================== BuyItem Tests ====================

func TestMarketplaceService_BuyItem_Success(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetForUpdate(ctx, tx, testKey).Return(activeListing(10), nil)
	// Credit the full payment before delisting, delist before transferring.
	gomock.InOrder(
		d.proceedsRepo.EXPECT().Credit(ctx, tx, testSeller, uint64(10), gomock.Any()).Return(nil),
		d.listingRepo.EXPECT().Delete(ctx, tx, testKey).Return(nil),
		d.registry.EXPECT().TransferFrom(ctx, testSeller, testBuyer, testKey).Return(nil),
	)
	d.eventRepo.EXPECT().Append(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, ev *domain.MarketEvent) error {
			assert.Equal(t, domain.EventItemBought, ev.Type)
			assert.Equal(t, testBuyer, ev.Actor)
			return nil
		})
	d.cache.EXPECT().Invalidate(ctx, testKey).Return(nil)
	d.publisher.EXPECT().Publish(ctx, gomock.Any())

	listing, err := d.svc.BuyItem(ctx, ports.BuyItemRequest{
		AssetKey: testKey, Payment: 10, Caller: testBuyer,
	})
	require.NoError(t, err)
	require.NotNil(t, listing)
	assert.Equal(t, testSeller, listing.Seller)
	assert.True(t, tx.committed)
}

func TestMarketplaceService_BuyItem_OverpaymentCreditedInFull(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetForUpdate(ctx, tx, testKey).Return(activeListing(10), nil)
	d.proceedsRepo.EXPECT().Credit(ctx, tx, testSeller, uint64(25), gomock.Any()).Return(nil)
	d.listingRepo.EXPECT().Delete(ctx, tx, testKey).Return(nil)
	d.registry.EXPECT().TransferFrom(ctx, testSeller, testBuyer, testKey).Return(nil)
	d.eventRepo.EXPECT().Append(ctx, tx, gomock.Any()).Return(nil)
	d.cache.EXPECT().Invalidate(ctx, testKey).Return(nil)
	d.publisher.EXPECT().Publish(ctx, gomock.Any())

	_, err := d.svc.BuyItem(ctx, ports.BuyItemRequest{
		AssetKey: testKey, Payment: 25, Caller: testBuyer,
	})
	require.NoError(t, err)
	assert.True(t, tx.committed)
}

func TestMarketplaceService_BuyItem_NotListed(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetForUpdate(ctx, tx, testKey).Return(nil, nil)

	listing, err := d.svc.BuyItem(ctx, ports.BuyItemRequest{
		AssetKey: testKey, Payment: 10, Caller: testBuyer,
	})
	assert.Nil(t, listing)
	assertAppError(t, err, "MKT_001")
}

func TestMarketplaceService_BuyItem_PriceNotMet(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetForUpdate(ctx, tx, testKey).Return(activeListing(10), nil)

	listing, err := d.svc.BuyItem(ctx, ports.BuyItemRequest{
		AssetKey: testKey, Payment: 9, Caller: testBuyer,
	})
	assert.Nil(t, listing)
	assertAppError(t, err, "MKT_006")
	assert.False(t, tx.committed)
}

func TestMarketplaceService_BuyItem_TransferFailureRollsBack(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetForUpdate(ctx, tx, testKey).Return(activeListing(10), nil)
	d.proceedsRepo.EXPECT().Credit(ctx, tx, testSeller, uint64(10), gomock.Any()).Return(nil)
	d.listingRepo.EXPECT().Delete(ctx, tx, testKey).Return(nil)
	d.registry.EXPECT().TransferFrom(ctx, testSeller, testBuyer, testKey).
		Return(fmt.Errorf("asset no longer transferable"))

	listing, err := d.svc.BuyItem(ctx, ports.BuyItemRequest{
		AssetKey: testKey, Payment: 10, Caller: testBuyer,
	})
	assert.Nil(t, listing)
	assertAppError(t, err, "MKT_008")
	assert.False(t, tx.committed, "credit and delist must not be committed when the transfer fails")
}

// ==================== CancelListing Tests ====================

func TestMarketplaceService_CancelListing_Success(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetForUpdate(ctx, tx, testKey).Return(activeListing(10), nil)
	d.listingRepo.EXPECT().Delete(ctx, tx, testKey).Return(nil)
	d.eventRepo.EXPECT().Append(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, ev *domain.MarketEvent) error {
			assert.Equal(t, domain.EventItemCanceled, ev.Type)
			assert.Nil(t, ev.Price)
			return nil
		})
	d.cache.EXPECT().Invalidate(ctx, testKey).Return(nil)
	d.publisher.EXPECT().Publish(ctx, gomock.Any())

	err := d.svc.CancelListing(ctx, ports.CancelListingRequest{AssetKey: testKey, Caller: testSeller})
	require.NoError(t, err)
	assert.True(t, tx.committed)
}

func TestMarketplaceService_CancelListing_NotListed(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetForUpdate(ctx, tx, testKey).Return(nil, nil)

	err := d.svc.CancelListing(ctx, ports.CancelListingRequest{AssetKey: testKey, Caller: testSeller})
	assertAppError(t, err, "MKT_001")
}

func TestMarketplaceService_CancelListing_NotOwner(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetForUpdate(ctx, tx, testKey).Return(activeListing(10), nil)

	err := d.svc.CancelListing(ctx, ports.CancelListingRequest{AssetKey: testKey, Caller: testBuyer})
	assertAppError(t, err, "MKT_003")
}

// NotListed takes precedence over NotOwner: a missing listing reports
// MKT_001 even for a caller who never owned anything.
func TestMarketplaceService_CancelListing_MissingListingBeatsOwnership(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetForUpdate(ctx, tx, testKey).Return(nil, nil)

	err := d.svc.CancelListing(ctx, ports.CancelListingRequest{AssetKey: testKey, Caller: testBuyer})
	assertAppError(t, err, "MKT_001")
}

// ==================== UpdateListing Tests ====================

func TestMarketplaceService_UpdateListing_Success(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetForUpdate(ctx, tx, testKey).Return(activeListing(10), nil)
	d.listingRepo.EXPECT().Replace(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, l *domain.Listing) error {
			assert.Equal(t, uint64(20), l.Price)
			assert.Equal(t, testSeller, l.Seller)
			return nil
		})
	d.eventRepo.EXPECT().Append(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, ev *domain.MarketEvent) error {
			// Re-pricing emits ItemListed again.
			assert.Equal(t, domain.EventItemListed, ev.Type)
			require.NotNil(t, ev.Price)
			assert.Equal(t, uint64(20), *ev.Price)
			return nil
		})
	d.cache.EXPECT().Invalidate(ctx, testKey).Return(nil)
	d.publisher.EXPECT().Publish(ctx, gomock.Any())

	updated, err := d.svc.UpdateListing(ctx, ports.UpdateListingRequest{
		AssetKey: testKey, NewPrice: 20, Caller: testSeller,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(20), updated.Price)
	assert.True(t, tx.committed)
}

func TestMarketplaceService_UpdateListing_NotListed(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetForUpdate(ctx, tx, testKey).Return(nil, nil)

	_, err := d.svc.UpdateListing(ctx, ports.UpdateListingRequest{
		AssetKey: testKey, NewPrice: 20, Caller: testSeller,
	})
	assertAppError(t, err, "MKT_001")
}

func TestMarketplaceService_UpdateListing_NotOwner(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetForUpdate(ctx, tx, testKey).Return(activeListing(10), nil)

	_, err := d.svc.UpdateListing(ctx, ports.UpdateListingRequest{
		AssetKey: testKey, NewPrice: 20, Caller: testBuyer,
	})
	assertAppError(t, err, "MKT_003")
}

func TestMarketplaceService_UpdateListing_ZeroPrice(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetForUpdate(ctx, tx, testKey).Return(activeListing(10), nil)

	_, err := d.svc.UpdateListing(ctx, ports.UpdateListingRequest{
		AssetKey: testKey, NewPrice: 0, Caller: testSeller,
	})
	assertAppError(t, err, "MKT_004")
	assert.False(t, tx.committed)
}

// ==================== WithdrawProceeds Tests ====================

func TestMarketplaceService_WithdrawProceeds_Success(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.proceedsRepo.EXPECT().GetForUpdate(ctx, tx, testSeller).
		Return(&domain.Proceeds{Seller: testSeller, Balance: 100}, nil)
	// The balance is zeroed before the payout call.
	gomock.InOrder(
		d.proceedsRepo.EXPECT().Reset(ctx, tx, testSeller, gomock.Any()).Return(nil),
		d.settlement.EXPECT().Pay(ctx, testSeller, uint64(100)).Return(nil),
	)

	amount, err := d.svc.WithdrawProceeds(ctx, testSeller)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), amount)
	assert.True(t, tx.committed)
}

func TestMarketplaceService_WithdrawProceeds_NoProceeds(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.proceedsRepo.EXPECT().GetForUpdate(ctx, tx, testSeller).Return(nil, nil)

	amount, err := d.svc.WithdrawProceeds(ctx, testSeller)
	assert.Zero(t, amount)
	assertAppError(t, err, "MKT_007")
}

func TestMarketplaceService_WithdrawProceeds_ZeroBalance(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.proceedsRepo.EXPECT().GetForUpdate(ctx, tx, testSeller).
		Return(&domain.Proceeds{Seller: testSeller, Balance: 0}, nil)

	amount, err := d.svc.WithdrawProceeds(ctx, testSeller)
	assert.Zero(t, amount)
	assertAppError(t, err, "MKT_007")
}

func TestMarketplaceService_WithdrawProceeds_PayoutFailureRollsBack(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.proceedsRepo.EXPECT().GetForUpdate(ctx, tx, testSeller).
		Return(&domain.Proceeds{Seller: testSeller, Balance: 100}, nil)
	d.proceedsRepo.EXPECT().Reset(ctx, tx, testSeller, gomock.Any()).Return(nil)
	d.settlement.EXPECT().Pay(ctx, testSeller, uint64(100)).Return(fmt.Errorf("bank unavailable"))

	amount, err := d.svc.WithdrawProceeds(ctx, testSeller)
	assert.Zero(t, amount)
	assertAppError(t, err, "MKT_008")
	assert.False(t, tx.committed, "ledger debit must not be committed when the payout fails")
}

// ==================== Read Accessor Tests ====================

func TestMarketplaceService_GetListing_CacheMissThenStore(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	listing := activeListing(10)

	d.cache.EXPECT().Get(ctx, testKey).Return(nil, nil)
	d.listingRepo.EXPECT().Get(ctx, testKey).Return(listing, nil)
	d.cache.EXPECT().Set(ctx, listing, listingCacheTTL).Return(nil)

	got, err := d.svc.GetListing(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, listing, got)
}

func TestMarketplaceService_GetListing_CacheHit(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	listing := activeListing(10)

	d.cache.EXPECT().Get(ctx, testKey).Return(listing, nil)

	got, err := d.svc.GetListing(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, listing, got)
}

func TestMarketplaceService_GetListing_NotFound(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()

	d.cache.EXPECT().Get(ctx, testKey).Return(nil, nil)
	d.listingRepo.EXPECT().Get(ctx, testKey).Return(nil, nil)

	got, err := d.svc.GetListing(ctx, testKey)
	assert.Nil(t, got)
	assertAppError(t, err, "MKT_001")
}

func TestMarketplaceService_GetProceeds_DefaultsToZero(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	d.proceedsRepo.EXPECT().Get(ctx, testSeller).Return(nil, nil)

	balance, err := d.svc.GetProceeds(ctx, testSeller)
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestMarketplaceService_GetProceeds_Credited(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	d.proceedsRepo.EXPECT().Get(ctx, testSeller).
		Return(&domain.Proceeds{Seller: testSeller, Balance: 42}, nil)

	balance, err := d.svc.GetProceeds(ctx, testSeller)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), balance)
}

func TestMarketplaceService_ListListings(t *testing.T) {
	d := setupMarketplaceService(t)

	ctx := context.Background()
	seller := testSeller
	d.listingRepo.EXPECT().List(ctx, &seller).Return([]domain.Listing{*activeListing(10)}, nil)

	listings, err := d.svc.ListListings(ctx, &seller)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, testSeller, listings[0].Seller)
}
