package service

import (
	"context"
	"testing"

	"collectible-sale-gateway/config"
	"collectible-sale-gateway/internal/core/domain"
	"collectible-sale-gateway/internal/core/ports/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type viewTestDeps struct {
	svc           *ViewServiceImpl
	saleRepo      *mocks.MockSaleRepository
	allowanceRepo *mocks.MockAllowanceRepository
	itemRepo      *mocks.MockItemRepository
	ctrl          *gomock.Controller
}

func setupViewService(t *testing.T) *viewTestDeps {
	ctrl := gomock.NewController(t)
	d := &viewTestDeps{
		saleRepo:      mocks.NewMockSaleRepository(ctrl),
		allowanceRepo: mocks.NewMockAllowanceRepository(ctrl),
		itemRepo:      mocks.NewMockItemRepository(ctrl),
		ctrl:          ctrl,
	}
	d.svc = NewViewService(
		d.saleRepo, d.allowanceRepo, d.itemRepo,
		config.OwnerConfig{Account: "owner.test", BackupAccount: "backup.test"},
	)
	return d
}

func TestViewService_Status_Open(t *testing.T) {
	d := setupViewService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.saleRepo.EXPECT().Get(ctx).Return(openSale(10), nil)
	d.itemRepo.EXPECT().Count(ctx).Return(int64(3), nil)

	phase, err := d.svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseOpen, phase)
}

func TestViewService_Status_SoldOutOverlay(t *testing.T) {
	d := setupViewService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	sale := openSale(10)
	sale.MaxSupply = int64Ptr(3)

	d.saleRepo.EXPECT().Get(ctx).Return(sale, nil)
	d.itemRepo.EXPECT().Count(ctx).Return(int64(3), nil)

	phase, err := d.svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseSoldOut, phase)
}

func TestViewService_Status_NotConfigured(t *testing.T) {
	d := setupViewService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.saleRepo.EXPECT().Get(ctx).Return(nil, nil)

	_, err := d.svc.Status(ctx)
	assertAppError(t, err, "SALE_002")
}

func TestViewService_CostPerUnit_PresaleDiscount(t *testing.T) {
	d := setupViewService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.saleRepo.EXPECT().Get(ctx).Return(presaleSale(10, 5), nil)

	cost, err := d.svc.CostPerUnit(ctx, "alice.test")
	require.NoError(t, err)
	assert.Equal(t, int64(5), cost)
}

func TestViewService_CostPerUnit_OwnerIsFree(t *testing.T) {
	d := setupViewService(t)
	defer d.ctrl.Finish()

	cost, err := d.svc.CostPerUnit(context.Background(), "owner.test")
	require.NoError(t, err)
	assert.Equal(t, int64(0), cost)
}

func TestViewService_TotalCost(t *testing.T) {
	d := setupViewService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.saleRepo.EXPECT().Get(ctx).Return(openSale(10), nil)

	total, err := d.svc.TotalCost(ctx, 4, "alice.test")
	require.NoError(t, err)
	assert.Equal(t, int64(40), total)
}

func TestViewService_RemainingAllowance_PresaleUnlisted(t *testing.T) {
	d := setupViewService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.saleRepo.EXPECT().Get(ctx).Return(presaleSale(10, 5), nil)
	d.allowanceRepo.EXPECT().Get(ctx, "mallory.test").Return(nil, nil)

	left, err := d.svc.RemainingAllowance(ctx, "mallory.test")
	require.NoError(t, err)
	require.NotNil(t, left)
	assert.Equal(t, 0, *left)
}

func TestViewService_RemainingAllowance_PresaleListed(t *testing.T) {
	d := setupViewService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.saleRepo.EXPECT().Get(ctx).Return(presaleSale(10, 5), nil)
	d.allowanceRepo.EXPECT().Get(ctx, "bob.test").
		Return(&domain.Allowance{Account: "bob.test", Claimed: 1, Max: 3}, nil)

	left, err := d.svc.RemainingAllowance(ctx, "bob.test")
	require.NoError(t, err)
	require.NotNil(t, left)
	assert.Equal(t, 2, *left)
}

func TestViewService_RemainingAllowance_OpenUncapped(t *testing.T) {
	d := setupViewService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.saleRepo.EXPECT().Get(ctx).Return(openSale(10), nil)
	d.allowanceRepo.EXPECT().Get(ctx, "alice.test").Return(nil, nil)

	left, err := d.svc.RemainingAllowance(ctx, "alice.test")
	require.NoError(t, err)
	assert.Nil(t, left)
}

func TestViewService_RemainingAllowance_OpenCapWidensPresaleQuota(t *testing.T) {
	d := setupViewService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	sale := openSale(10)
	sale.Allowance = intPtr(5)

	// Presale quota 2 of 2 used; the public cap widens Max to 5, leaving 3.
	d.saleRepo.EXPECT().Get(ctx).Return(sale, nil)
	d.allowanceRepo.EXPECT().Get(ctx, "bob.test").
		Return(&domain.Allowance{Account: "bob.test", Claimed: 2, Max: 2}, nil)

	left, err := d.svc.RemainingAllowance(ctx, "bob.test")
	require.NoError(t, err)
	require.NotNil(t, left)
	assert.Equal(t, 3, *left)
}

func TestViewService_RemainingAllowance_OwnerUnlimited(t *testing.T) {
	d := setupViewService(t)
	defer d.ctrl.Finish()

	left, err := d.svc.RemainingAllowance(context.Background(), "backup.test")
	require.NoError(t, err)
	assert.Nil(t, left)
}

func TestViewService_Supply(t *testing.T) {
	d := setupViewService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	sale := openSale(10)
	sale.MaxSupply = int64Ptr(100)

	d.saleRepo.EXPECT().Get(ctx).Return(sale, nil)
	d.itemRepo.EXPECT().Count(ctx).Return(int64(42), nil)

	minted, max, err := d.svc.Supply(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), minted)
	require.NotNil(t, max)
	assert.Equal(t, int64(100), *max)
}

func TestViewService_MintRateLimit(t *testing.T) {
	d := setupViewService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	sale := openSale(10)
	sale.MintRateLimit = intPtr(6)

	d.saleRepo.EXPECT().Get(ctx).Return(sale, nil)

	limit, err := d.svc.MintRateLimit(ctx)
	require.NoError(t, err)
	require.NotNil(t, limit)
	assert.Equal(t, 6, *limit)
}
