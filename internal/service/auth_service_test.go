package service

import (
	"context"
	"testing"
	"time"

	"collectible-sale-gateway/internal/core/domain"
	"collectible-sale-gateway/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupAuthService(t *testing.T) (
	*AuthServiceImpl,
	*mocks.MockAccountRepository,
	*mocks.MockHashService,
	*mocks.MockTokenService,
	*gomock.Controller,
) {
	ctrl := gomock.NewController(t)
	accountRepo := mocks.NewMockAccountRepository(ctrl)
	hashSvc := mocks.NewMockHashService(ctrl)
	tokenSvc := mocks.NewMockTokenService(ctrl)

	svc := NewAuthService(accountRepo, hashSvc, tokenSvc)
	return svc, accountRepo, hashSvc, tokenSvc, ctrl
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, accountRepo, hashSvc, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()

	accountRepo.EXPECT().GetByUsername(ctx, "alice.test").Return(nil, nil)
	hashSvc.EXPECT().Hash("StrongP@ss123").Return("$argon2id$hashed", nil)
	accountRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	account, err := svc.Register(ctx, "alice.test", "StrongP@ss123")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "alice.test", account.Username)
	assert.Equal(t, "$argon2id$hashed", account.PasswordHash)
	assert.NotEqual(t, uuid.Nil, account.ID)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	svc, accountRepo, _, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	existing := &domain.Account{Username: "alice.test"}
	accountRepo.EXPECT().GetByUsername(ctx, "alice.test").Return(existing, nil)

	account, err := svc.Register(ctx, "alice.test", "password")
	assert.Nil(t, account)
	assertAppError(t, err, "AUTH_002")
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, accountRepo, hashSvc, tokenSvc, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	accountID := uuid.New()

	account := &domain.Account{
		ID:           accountID,
		Username:     "alice.test",
		PasswordHash: "$argon2id$hashed",
	}

	accountRepo.EXPECT().GetByUsername(ctx, "alice.test").Return(account, nil)
	hashSvc.EXPECT().Verify("correct_password", "$argon2id$hashed").Return(true, nil)
	tokenSvc.EXPECT().Generate(accountID, "alice.test").
		Return("jwt_token_here", time.Now().Add(24*time.Hour), nil)

	token, _, err := svc.Login(ctx, "alice.test", "correct_password")
	require.NoError(t, err)
	assert.Equal(t, "jwt_token_here", token)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc, accountRepo, _, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	accountRepo.EXPECT().GetByUsername(ctx, "nonexistent").Return(nil, nil)

	_, _, err := svc.Login(ctx, "nonexistent", "password")
	assertAppError(t, err, "AUTH_001")
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, accountRepo, hashSvc, _, ctrl := setupAuthService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	account := &domain.Account{
		ID:           uuid.New(),
		Username:     "alice.test",
		PasswordHash: "$argon2id$hashed",
	}

	accountRepo.EXPECT().GetByUsername(ctx, "alice.test").Return(account, nil)
	hashSvc.EXPECT().Verify("wrong_password", "$argon2id$hashed").Return(false, nil)

	_, _, err := svc.Login(ctx, "alice.test", "wrong_password")
	assertAppError(t, err, "AUTH_001")
}
