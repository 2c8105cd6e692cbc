package service

import (
	"context"
	"testing"
	"time"

	"collectible-sale-gateway/config"
	"collectible-sale-gateway/internal/core/domain"
	"collectible-sale-gateway/internal/core/ports/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type adminTestDeps struct {
	svc           *AdminServiceImpl
	saleRepo      *mocks.MockSaleRepository
	allowanceRepo *mocks.MockAllowanceRepository
	adminRepo     *mocks.MockAdminRepository
	transactor    *mocks.MockDBTransactor
	ctrl          *gomock.Controller
}

func setupAdminService(t *testing.T) *adminTestDeps {
	ctrl := gomock.NewController(t)
	d := &adminTestDeps{
		saleRepo:      mocks.NewMockSaleRepository(ctrl),
		allowanceRepo: mocks.NewMockAllowanceRepository(ctrl),
		adminRepo:     mocks.NewMockAdminRepository(ctrl),
		transactor:    mocks.NewMockDBTransactor(ctrl),
		ctrl:          ctrl,
	}
	d.svc = NewAdminService(
		d.saleRepo, d.allowanceRepo, d.adminRepo, d.transactor,
		config.OwnerConfig{Account: "owner.test", BackupAccount: "backup.test"},
		zerolog.Nop(),
	)
	return d
}

func TestAdminService_UpdateSale_ByOwner(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	sale := domain.Sale{Price: 10, UpdatedAt: time.Now().UTC()}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.saleRepo.EXPECT().Save(ctx, tx, gomock.Any()).Return(nil)

	saved, err := d.svc.UpdateSale(ctx, "owner.test", sale)
	require.NoError(t, err)
	assert.Equal(t, int64(10), saved.Price)
}

func TestAdminService_UpdateSale_ByAdmin(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.adminRepo.EXPECT().Exists(ctx, "carol.test").Return(true, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.saleRepo.EXPECT().Save(ctx, tx, gomock.Any()).Return(nil)

	_, err := d.svc.UpdateSale(ctx, "carol.test", domain.Sale{Price: 20})
	require.NoError(t, err)
}

func TestAdminService_UpdateSale_Unauthorized(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.adminRepo.EXPECT().Exists(ctx, "mallory.test").Return(false, nil)

	saved, err := d.svc.UpdateSale(ctx, "mallory.test", domain.Sale{Price: 10})
	assert.Nil(t, saved)
	assertAppError(t, err, "AUTH_004")
}

func TestAdminService_UpdateSale_InvalidConfig(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	saved, err := d.svc.UpdateSale(context.Background(), "owner.test", domain.Sale{Price: -1})
	assert.Nil(t, saved)
	assertAppError(t, err, "SALE_006")
}

func TestAdminService_AddWhitelist_RaiseOnly(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	// New account gets a fresh quota.
	d.allowanceRepo.EXPECT().GetForUpdate(ctx, tx, "new.test").Return(nil, nil)
	d.allowanceRepo.EXPECT().Upsert(ctx, tx, domain.Allowance{Account: "new.test", Claimed: 0, Max: 3}).Return(nil)
	// An account with a wider quota keeps it.
	d.allowanceRepo.EXPECT().GetForUpdate(ctx, tx, "whale.test").
		Return(&domain.Allowance{Account: "whale.test", Claimed: 2, Max: 10}, nil)
	d.allowanceRepo.EXPECT().Upsert(ctx, tx, domain.Allowance{Account: "whale.test", Claimed: 2, Max: 10}).Return(nil)

	err := d.svc.AddWhitelist(ctx, "owner.test", []string{"new.test", "whale.test"}, 3)
	require.NoError(t, err)
}

func TestAdminService_AddWhitelist_InvalidAllowance(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	err := d.svc.AddWhitelist(context.Background(), "owner.test", []string{"a.test"}, 0)
	require.Error(t, err)
}

func TestAdminService_AddAdmin_And_List(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.adminRepo.EXPECT().Add(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, a domain.Admin) error {
			assert.Equal(t, "carol.test", a.Account)
			assert.Equal(t, "owner.test", a.AddedBy)
			return nil
		})

	err := d.svc.AddAdmin(ctx, "owner.test", "carol.test")
	require.NoError(t, err)

	d.adminRepo.EXPECT().Exists(ctx, "carol.test").Return(true, nil)
	d.adminRepo.EXPECT().List(ctx).Return([]domain.Admin{{Account: "carol.test"}}, nil)

	admins, err := d.svc.ListAdmins(ctx, "carol.test")
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "carol.test", admins[0].Account)
}

func TestAdminService_RemoveAdmin(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.adminRepo.EXPECT().Remove(ctx, "carol.test").Return(nil)

	err := d.svc.RemoveAdmin(ctx, "backup.test", "carol.test")
	require.NoError(t, err)
}

func TestAdminService_AddAdmin_Unauthorized(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.adminRepo.EXPECT().Exists(ctx, "mallory.test").Return(false, nil)

	err := d.svc.AddAdmin(ctx, "mallory.test", "accomplice.test")
	assertAppError(t, err, "AUTH_004")
}
