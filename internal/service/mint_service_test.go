package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"collectible-sale-gateway/config"
	"collectible-sale-gateway/internal/core/domain"
	"collectible-sale-gateway/internal/core/ports"
	"collectible-sale-gateway/internal/core/ports/mocks"
	"collectible-sale-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type mintTestDeps struct {
	svc           *MintServiceImpl
	saleRepo      *mocks.MockSaleRepository
	allowanceRepo *mocks.MockAllowanceRepository
	itemRepo      *mocks.MockItemRepository
	pendingRepo   *mocks.MockPendingOpRepository
	eventRepo     *mocks.MockEventRepository
	vaults        *mocks.MockVaultService
	gateway       *mocks.MockAssetGateway
	listings      *mocks.MockListingRegistry
	receipts      *mocks.MockReceiptCache
	transactor    *mocks.MockDBTransactor
	ctrl          *gomock.Controller
}

func setupMintService(t *testing.T) *mintTestDeps {
	ctrl := gomock.NewController(t)
	d := &mintTestDeps{
		saleRepo:      mocks.NewMockSaleRepository(ctrl),
		allowanceRepo: mocks.NewMockAllowanceRepository(ctrl),
		itemRepo:      mocks.NewMockItemRepository(ctrl),
		pendingRepo:   mocks.NewMockPendingOpRepository(ctrl),
		eventRepo:     mocks.NewMockEventRepository(ctrl),
		vaults:        mocks.NewMockVaultService(ctrl),
		gateway:       mocks.NewMockAssetGateway(ctrl),
		listings:      mocks.NewMockListingRegistry(ctrl),
		receipts:      mocks.NewMockReceiptCache(ctrl),
		transactor:    mocks.NewMockDBTransactor(ctrl),
		ctrl:          ctrl,
	}
	d.svc = NewMintService(
		d.saleRepo, d.allowanceRepo, d.itemRepo, d.pendingRepo, d.eventRepo,
		d.vaults, d.gateway, d.listings, d.receipts, d.transactor,
		config.OwnerConfig{Account: "owner.test", BackupAccount: "backup.test"},
		config.VaultConfig{FeeBps: 100, ProvisionDeposit: 2, FeeRecipient: "fees.test"},
		zerolog.Nop(),
	)
	return d
}

// mockTx implements pgx.Tx for testing
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

func timePtr(t time.Time) *time.Time { return &t }
func intPtr(i int) *int              { return &i }
func int64Ptr(i int64) *int64        { return &i }

func openSale(price int64) *domain.Sale {
	return &domain.Sale{
		PublicStart: timePtr(time.Now().Add(-time.Hour)),
		Price:       price,
	}
}

func presaleSale(price, presalePrice int64) *domain.Sale {
	return &domain.Sale{
		PresaleStart: timePtr(time.Now().Add(-time.Hour)),
		PublicStart:  timePtr(time.Now().Add(time.Hour)),
		Price:        price,
		PresalePrice: &presalePrice,
	}
}

// waitN blocks until ch delivered n signals or the deadline passed.
func waitN(t *testing.T, ch <-chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatal("async vault provisioning timed out")
		}
	}
}

// ==================== Mint Tests ====================

func TestMintService_Mint_OpenPhase_Success(t *testing.T) {
	d := setupMintService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	asyncTx := &mockTx{}

	req := ports.MintRequest{
		Buyer:         "alice.test",
		Signer:        "alice.test",
		Quantity:      2,
		AttachedValue: 24, // 2 * (price 10 + provision deposit 2)
		BaseEscrow:    100,
	}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.saleRepo.EXPECT().GetForUpdate(ctx, tx).Return(openSale(10), nil)
	d.itemRepo.EXPECT().Count(ctx).Return(int64(0), nil)
	d.itemRepo.EXPECT().NextID(ctx, tx).Return(int64(1), nil)
	d.itemRepo.EXPECT().NextID(ctx, tx).Return(int64(2), nil)
	d.itemRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil).Times(2)
	d.pendingRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil).Times(2)
	d.eventRepo.EXPECT().Append(ctx, gomock.Any()).Return(nil)

	done := make(chan struct{}, 2)
	d.vaults.EXPECT().Provision(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	d.transactor.EXPECT().Begin(gomock.Any()).Return(asyncTx, nil).Times(2)
	d.pendingRepo.EXPECT().Take(gomock.Any(), asyncTx, gomock.Any()).
		DoAndReturn(func(context.Context, pgx.Tx, uuid.UUID) (*domain.PendingOp, error) {
			done <- struct{}{}
			return nil, nil
		}).Times(2)

	result, err := d.svc.Mint(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 2, result.Quantity)
	require.Len(t, result.Items, 2)
	assert.Equal(t, int64(1), result.Items[0].ID)
	assert.Equal(t, int64(2), result.Items[1].ID)
	assert.Equal(t, "alice.test", result.Items[0].Owner)

	waitN(t, done, 2)
}

func TestMintService_Mint_PresaleClampsToAllowance(t *testing.T) {
	d := setupMintService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	asyncTx := &mockTx{}

	req := ports.MintRequest{
		Buyer:         "bob.test",
		Signer:        "bob.test",
		Quantity:      5,
		AttachedValue: 20, // covers 2 * (presale price 5 + provision deposit 2)
		ReferenceID:   "MINT-42",
	}

	d.receipts.EXPECT().Get(ctx, "bob.test:MINT-42").Return(nil, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.saleRepo.EXPECT().GetForUpdate(ctx, tx).Return(presaleSale(10, 5), nil)
	d.itemRepo.EXPECT().Count(ctx).Return(int64(3), nil)
	// Left = 2, so the request is clamped to 2.
	d.allowanceRepo.EXPECT().GetForUpdate(ctx, tx, "bob.test").
		Return(&domain.Allowance{Account: "bob.test", Claimed: 1, Max: 3}, nil)
	d.itemRepo.EXPECT().NextID(ctx, tx).Return(int64(7), nil)
	d.itemRepo.EXPECT().NextID(ctx, tx).Return(int64(8), nil)
	d.itemRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil).Times(2)
	d.pendingRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil).Times(2)
	d.allowanceRepo.EXPECT().Upsert(ctx, tx, domain.Allowance{Account: "bob.test", Claimed: 3, Max: 3}).Return(nil)
	d.receipts.EXPECT().Set(ctx, "bob.test:MINT-42", gomock.Any(), receiptTTL).Return(nil)
	d.eventRepo.EXPECT().Append(ctx, gomock.Any()).Return(nil)

	done := make(chan struct{}, 2)
	d.vaults.EXPECT().Provision(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	d.transactor.EXPECT().Begin(gomock.Any()).Return(asyncTx, nil).Times(2)
	d.pendingRepo.EXPECT().Take(gomock.Any(), asyncTx, gomock.Any()).
		DoAndReturn(func(context.Context, pgx.Tx, uuid.UUID) (*domain.PendingOp, error) {
			done <- struct{}{}
			return nil, nil
		}).Times(2)

	result, err := d.svc.Mint(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Quantity)
	assert.Len(t, result.Items, 2)

	waitN(t, done, 2)
}

func TestMintService_Mint_Presale_NoAllowance(t *testing.T) {
	d := setupMintService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.saleRepo.EXPECT().GetForUpdate(ctx, tx).Return(presaleSale(10, 5), nil)
	d.itemRepo.EXPECT().Count(ctx).Return(int64(0), nil)
	d.allowanceRepo.EXPECT().GetForUpdate(ctx, tx, "mallory.test").Return(nil, nil)

	result, err := d.svc.Mint(ctx, ports.MintRequest{
		Buyer: "mallory.test", Signer: "mallory.test", Quantity: 1, AttachedValue: 100,
	})
	assert.Nil(t, result)
	assertAppError(t, err, "SALE_003")
}

func TestMintService_Mint_ClosedPhase(t *testing.T) {
	d := setupMintService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.saleRepo.EXPECT().GetForUpdate(ctx, tx).Return(&domain.Sale{Price: 10}, nil)
	d.itemRepo.EXPECT().Count(ctx).Return(int64(0), nil)

	result, err := d.svc.Mint(ctx, ports.MintRequest{
		Buyer: "alice.test", Signer: "alice.test", Quantity: 1, AttachedValue: 100,
	})
	assert.Nil(t, result)
	assertAppError(t, err, "SALE_002")
}

func TestMintService_Mint_SoldOut(t *testing.T) {
	d := setupMintService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	sale := openSale(10)
	sale.MaxSupply = int64Ptr(5)

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.saleRepo.EXPECT().GetForUpdate(ctx, tx).Return(sale, nil)
	d.itemRepo.EXPECT().Count(ctx).Return(int64(5), nil)

	result, err := d.svc.Mint(ctx, ports.MintRequest{
		Buyer: "alice.test", Signer: "alice.test", Quantity: 1, AttachedValue: 100,
	})
	assert.Nil(t, result)
	assertAppError(t, err, "SALE_002")
}

func TestMintService_Mint_ExceedsRemainingSupply(t *testing.T) {
	d := setupMintService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	sale := openSale(10)
	sale.MaxSupply = int64Ptr(5)

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.saleRepo.EXPECT().GetForUpdate(ctx, tx).Return(sale, nil)
	d.itemRepo.EXPECT().Count(ctx).Return(int64(4), nil)

	result, err := d.svc.Mint(ctx, ports.MintRequest{
		Buyer: "alice.test", Signer: "alice.test", Quantity: 2, AttachedValue: 100,
	})
	assert.Nil(t, result)
	assertAppError(t, err, "SALE_002")
}

func TestMintService_Mint_RateLimitExceeded(t *testing.T) {
	d := setupMintService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	sale := openSale(10)
	sale.MintRateLimit = intPtr(2)

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.saleRepo.EXPECT().GetForUpdate(ctx, tx).Return(sale, nil)

	result, err := d.svc.Mint(ctx, ports.MintRequest{
		Buyer: "alice.test", Signer: "alice.test", Quantity: 3, AttachedValue: 100,
	})
	assert.Nil(t, result)
	assertAppError(t, err, "SALE_001")
}

func TestMintService_Mint_InsufficientDeposit(t *testing.T) {
	d := setupMintService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.saleRepo.EXPECT().GetForUpdate(ctx, tx).Return(openSale(10), nil)
	d.itemRepo.EXPECT().Count(ctx).Return(int64(0), nil)

	// Required: 1 * (price 10 + provision deposit 2) = 12.
	result, err := d.svc.Mint(ctx, ports.MintRequest{
		Buyer: "alice.test", Signer: "alice.test", Quantity: 1, AttachedValue: 5,
	})
	assert.Nil(t, result)
	assertAppError(t, err, "SALE_004")
}

func TestMintService_Mint_InvalidQuantity(t *testing.T) {
	d := setupMintService(t)
	defer d.ctrl.Finish()

	result, err := d.svc.Mint(context.Background(), ports.MintRequest{
		Buyer: "alice.test", Quantity: 0,
	})
	assert.Nil(t, result)
	require.Error(t, err)
}

func TestMintService_Mint_OwnerMintsFreeInClosedPhase(t *testing.T) {
	d := setupMintService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	asyncTx := &mockTx{}

	// Owner bypasses admission: free of charge, no quota, even before the
	// sale starts. The vault provision deposit is still charged.
	req := ports.MintRequest{
		Buyer:         "owner.test",
		Signer:        "owner.test",
		Quantity:      3,
		AttachedValue: 6, // 3 * provision deposit 2
	}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.saleRepo.EXPECT().GetForUpdate(ctx, tx).Return(&domain.Sale{Price: 10}, nil)
	d.itemRepo.EXPECT().Count(ctx).Return(int64(0), nil)
	d.itemRepo.EXPECT().NextID(ctx, tx).Return(int64(1), nil)
	d.itemRepo.EXPECT().NextID(ctx, tx).Return(int64(2), nil)
	d.itemRepo.EXPECT().NextID(ctx, tx).Return(int64(3), nil)
	d.itemRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil).Times(3)
	d.pendingRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil).Times(3)
	d.eventRepo.EXPECT().Append(ctx, gomock.Any()).Return(nil)

	done := make(chan struct{}, 3)
	d.vaults.EXPECT().Provision(gomock.Any(), gomock.Any()).Return(nil).Times(3)
	d.transactor.EXPECT().Begin(gomock.Any()).Return(asyncTx, nil).Times(3)
	d.pendingRepo.EXPECT().Take(gomock.Any(), asyncTx, gomock.Any()).
		DoAndReturn(func(context.Context, pgx.Tx, uuid.UUID) (*domain.PendingOp, error) {
			done <- struct{}{}
			return nil, nil
		}).Times(3)

	result, err := d.svc.Mint(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Quantity)

	waitN(t, done, 3)
}

func TestMintService_Mint_ReceiptReplay(t *testing.T) {
	d := setupMintService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	cached := &ports.MintResult{
		Items:    []domain.Item{{ID: 9, Owner: "alice.test"}},
		Quantity: 1,
	}
	cachedJSON, _ := json.Marshal(cached)

	d.receipts.EXPECT().Get(ctx, "alice.test:MINT-9").Return(cachedJSON, nil)

	result, err := d.svc.Mint(ctx, ports.MintRequest{
		Buyer: "alice.test", Signer: "alice.test", Quantity: 1,
		AttachedValue: 12, ReferenceID: "MINT-9",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Quantity)
	require.Len(t, result.Items, 1)
	assert.Equal(t, int64(9), result.Items[0].ID)
}

func TestMintService_Mint_CompensatesFailedProvisioning(t *testing.T) {
	d := setupMintService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	asyncTx := &mockTx{}

	req := ports.MintRequest{
		Buyer:         "bob.test",
		Signer:        "signer.test",
		Quantity:      1,
		AttachedValue: 7, // presale price 5 + provision deposit 2
	}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.saleRepo.EXPECT().GetForUpdate(ctx, tx).Return(presaleSale(10, 5), nil)
	d.itemRepo.EXPECT().Count(ctx).Return(int64(0), nil)
	d.allowanceRepo.EXPECT().GetForUpdate(ctx, tx, "bob.test").
		Return(&domain.Allowance{Account: "bob.test", Claimed: 0, Max: 1}, nil)
	d.itemRepo.EXPECT().NextID(ctx, tx).Return(int64(7), nil)
	d.itemRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.pendingRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.allowanceRepo.EXPECT().Upsert(ctx, tx, domain.Allowance{Account: "bob.test", Claimed: 1, Max: 1}).Return(nil)
	d.eventRepo.EXPECT().Append(ctx, gomock.Any()).Return(nil)

	// Provisioning fails: the pending op is consumed, the quota rolled back,
	// the item removed, and the unit slice refunded to the signer.
	done := make(chan struct{}, 1)
	d.vaults.EXPECT().Provision(gomock.Any(), gomock.Any()).
		Return(apperror.ErrInvalidDeclaration("invalid asset contract id"))
	d.transactor.EXPECT().Begin(gomock.Any()).Return(asyncTx, nil)
	d.pendingRepo.EXPECT().Take(gomock.Any(), asyncTx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, id uuid.UUID) (*domain.PendingOp, error) {
			return &domain.PendingOp{
				ID: id, ItemID: 7, Buyer: "bob.test", Signer: "signer.test",
				RefundAmount: 7, QuotaClaimed: true,
			}, nil
		})
	d.allowanceRepo.EXPECT().GetForUpdate(gomock.Any(), asyncTx, "bob.test").
		Return(&domain.Allowance{Account: "bob.test", Claimed: 1, Max: 1}, nil)
	d.allowanceRepo.EXPECT().Upsert(gomock.Any(), asyncTx, domain.Allowance{Account: "bob.test", Claimed: 0, Max: 1}).Return(nil)
	d.itemRepo.EXPECT().Delete(gomock.Any(), asyncTx, int64(7)).Return(nil)
	d.gateway.EXPECT().TransferBase(gomock.Any(), "signer.test", int64(7), "mint refund for item 7").Return(nil)
	d.eventRepo.EXPECT().Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *domain.SaleEvent) error {
			done <- struct{}{}
			return nil
		})

	result, err := d.svc.Mint(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Quantity)

	waitN(t, done, 1)
}

func TestMintService_Mint_UncappedOpenCompensationLeavesQuotaUntouched(t *testing.T) {
	d := setupMintService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	asyncTx := &mockTx{}

	// Uncapped open phase: the mint claims no quota, so a failed provisioning
	// must not credit the buyer's leftover presale allowance. No allowance
	// expectations are set; any repo call here fails the test.
	req := ports.MintRequest{
		Buyer:         "bob.test",
		Signer:        "bob.test",
		Quantity:      1,
		AttachedValue: 12, // price 10 + provision deposit 2
	}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.saleRepo.EXPECT().GetForUpdate(ctx, tx).Return(openSale(10), nil)
	d.itemRepo.EXPECT().Count(ctx).Return(int64(0), nil)
	d.itemRepo.EXPECT().NextID(ctx, tx).Return(int64(11), nil)
	d.itemRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.pendingRepo.EXPECT().Create(ctx, tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, op *domain.PendingOp) error {
			assert.False(t, op.QuotaClaimed)
			return nil
		})
	d.eventRepo.EXPECT().Append(ctx, gomock.Any()).Return(nil)

	done := make(chan struct{}, 1)
	d.vaults.EXPECT().Provision(gomock.Any(), gomock.Any()).
		Return(apperror.ErrInvalidDeclaration("invalid asset contract id"))
	d.transactor.EXPECT().Begin(gomock.Any()).Return(asyncTx, nil)
	d.pendingRepo.EXPECT().Take(gomock.Any(), asyncTx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, id uuid.UUID) (*domain.PendingOp, error) {
			return &domain.PendingOp{
				ID: id, ItemID: 11, Buyer: "bob.test", Signer: "bob.test",
				RefundAmount: 12, QuotaClaimed: false,
			}, nil
		})
	d.itemRepo.EXPECT().Delete(gomock.Any(), asyncTx, int64(11)).Return(nil)
	d.gateway.EXPECT().TransferBase(gomock.Any(), "bob.test", int64(12), "mint refund for item 11").Return(nil)
	d.eventRepo.EXPECT().Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *domain.SaleEvent) error {
			done <- struct{}{}
			return nil
		})

	result, err := d.svc.Mint(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Quantity)

	waitN(t, done, 1)
}

// ==================== Burn Tests ====================

func TestMintService_Burn_Success(t *testing.T) {
	d := setupMintService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.itemRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(7)).
		Return(&domain.Item{ID: 7, Owner: "alice.test"}, nil)
	d.itemRepo.EXPECT().Delete(ctx, tx, int64(7)).Return(nil)
	d.eventRepo.EXPECT().Append(ctx, gomock.Any()).Return(nil)

	done := make(chan struct{}, 1)
	d.vaults.EXPECT().Release(gomock.Any(), ports.ReleaseRequest{
		Caller: "alice.test", ItemID: 7, Claimant: "alice.test",
	}).DoAndReturn(func(context.Context, ports.ReleaseRequest) (*ports.ReleaseResult, error) {
		done <- struct{}{}
		return &ports.ReleaseResult{BaseReleased: 100}, nil
	})

	err := d.svc.Burn(ctx, ports.BurnRequest{Caller: "alice.test", ItemID: 7})
	require.NoError(t, err)

	waitN(t, done, 1)
}

func TestMintService_Burn_NotOwner(t *testing.T) {
	d := setupMintService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.itemRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(7)).
		Return(&domain.Item{ID: 7, Owner: "alice.test"}, nil)

	err := d.svc.Burn(ctx, ports.BurnRequest{Caller: "mallory.test", ItemID: 7})
	assertAppError(t, err, "AUTH_004")
}

func TestMintService_Burn_ItemNotFound(t *testing.T) {
	d := setupMintService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.itemRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(99)).Return(nil, nil)

	err := d.svc.Burn(ctx, ports.BurnRequest{Caller: "alice.test", ItemID: 99})
	assertAppError(t, err, "ITEM_001")
}

func TestMintService_Burn_NoVaultToUnwind(t *testing.T) {
	d := setupMintService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.itemRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(7)).
		Return(&domain.Item{ID: 7, Owner: "alice.test"}, nil)
	d.itemRepo.EXPECT().Delete(ctx, tx, int64(7)).Return(nil)
	d.eventRepo.EXPECT().Append(ctx, gomock.Any()).Return(nil)

	done := make(chan struct{}, 1)
	d.vaults.EXPECT().Release(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, ports.ReleaseRequest) (*ports.ReleaseResult, error) {
			done <- struct{}{}
			return nil, apperror.ErrVaultNotFound()
		})

	err := d.svc.Burn(ctx, ports.BurnRequest{Caller: "alice.test", ItemID: 7})
	require.NoError(t, err)

	waitN(t, done, 1)
}

// ==================== ApproveListing Tests ====================

func TestMintService_ApproveListing_Success(t *testing.T) {
	d := setupMintService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.itemRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(7)).
		Return(&domain.Item{ID: 7, Owner: "alice.test", ApprovalID: 2}, nil)
	d.itemRepo.EXPECT().BumpApproval(ctx, tx, int64(7)).Return(int64(3), nil)
	d.listings.EXPECT().NotifyApproval(ctx, ports.ListingApproval{
		ItemID: 7, Owner: "alice.test", ApprovalID: 3, SaleTerms: `{"price":500}`,
	}).Return(nil)
	d.eventRepo.EXPECT().Append(ctx, gomock.Any()).Return(nil)

	item, err := d.svc.ApproveListing(ctx, ports.ApproveRequest{
		Caller: "alice.test", ItemID: 7, SaleTerms: `{"price":500}`,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), item.ApprovalID)
}

func TestMintService_ApproveListing_NotOwner(t *testing.T) {
	d := setupMintService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.itemRepo.EXPECT().GetByIDForUpdate(ctx, tx, int64(7)).
		Return(&domain.Item{ID: 7, Owner: "alice.test"}, nil)

	item, err := d.svc.ApproveListing(ctx, ports.ApproveRequest{
		Caller: "mallory.test", ItemID: 7,
	})
	assert.Nil(t, item)
	assertAppError(t, err, "AUTH_004")
}

// ==================== Helper ====================

func assertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, expectedCode, appErr.Code)
}
