package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"skin-marketplace/internal/core/domain"
	"skin-marketplace/internal/core/ports"
	"skin-marketplace/internal/core/ports/mocks"
	"skin-marketplace/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type authTestDeps struct {
	svc         *AuthServiceImpl
	accounts    *mocks.MockAccountService
	accountRepo *mocks.MockAccountRepository
	hashSvc     *mocks.MockHashService
	tokenSvc    *mocks.MockTokenService
	ctrl        *gomock.Controller
}

func setupAuthService(t *testing.T) *authTestDeps {
	ctrl := gomock.NewController(t)
	d := &authTestDeps{
		accounts:    mocks.NewMockAccountService(ctrl),
		accountRepo: mocks.NewMockAccountRepository(ctrl),
		hashSvc:     mocks.NewMockHashService(ctrl),
		tokenSvc:    mocks.NewMockTokenService(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewAuthService(d.accounts, d.accountRepo, d.hashSvc, d.tokenSvc)
	return d
}

func TestAuthService_Register_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	accountID := uuid.New()

	d.hashSvc.EXPECT().Hash("StrongP@ss123").Return("$argon2id$hashed", nil)
	d.accounts.EXPECT().Register(ctx, "alice", "alice@example.com", "$argon2id$hashed").Return(accountID, nil)

	id, err := d.svc.Register(ctx, ports.RegisterRequest{
		Name:     "  alice ",
		Email:    " Alice@Example.COM ",
		Password: "StrongP@ss123",
	})
	require.NoError(t, err)
	assert.Equal(t, accountID, id)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.hashSvc.EXPECT().Hash(gomock.Any()).Return("$argon2id$hashed", nil)
	d.accounts.EXPECT().Register(ctx, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(uuid.Nil, apperror.ErrDuplicateEmail())

	_, err := d.svc.Register(ctx, ports.RegisterRequest{Name: "bob", Email: "bob@example.com", Password: "password1"})
	require.Error(t, err)
	assertAppError(t, err, "DUPLICATE_EMAIL")
}

func TestAuthService_Register_HashFailure(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	d.hashSvc.EXPECT().Hash(gomock.Any()).Return("", errors.New("entropy exhausted"))

	_, err := d.svc.Register(context.Background(), ports.RegisterRequest{Name: "bob", Email: "bob@example.com", Password: "password1"})
	assertAppError(t, err, "INTERNAL")
}

func TestAuthService_Login_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	accountID := uuid.New()
	expiry := time.Now().Add(24 * time.Hour)

	account := &domain.Account{
		ID:           accountID,
		Email:        "admin@example.com",
		PasswordHash: "$argon2id$hashed",
		Role:         domain.RoleAdmin,
	}

	d.accountRepo.EXPECT().GetByEmail(ctx, "admin@example.com").Return(account, nil)
	d.hashSvc.EXPECT().Verify("correct_password", "$argon2id$hashed").Return(true, nil)
	d.tokenSvc.EXPECT().Generate(accountID, domain.RoleAdmin).Return("jwt_token_here", expiry, nil)

	token, exp, err := d.svc.Login(ctx, "Admin@Example.com", "correct_password")
	require.NoError(t, err)
	assert.Equal(t, "jwt_token_here", token)
	assert.Equal(t, expiry, exp)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.accountRepo.EXPECT().GetByEmail(ctx, "nobody@example.com").Return(nil, nil)

	_, _, err := d.svc.Login(ctx, "nobody@example.com", "password")
	assertAppError(t, err, "INVALID_CREDENTIALS")
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	account := &domain.Account{ID: uuid.New(), PasswordHash: "$argon2id$hashed", Role: domain.RolePlayer}

	d.accountRepo.EXPECT().GetByEmail(ctx, "alice@example.com").Return(account, nil)
	d.hashSvc.EXPECT().Verify("wrong_password", "$argon2id$hashed").Return(false, nil)

	_, _, err := d.svc.Login(ctx, "alice@example.com", "wrong_password")
	assertAppError(t, err, "INVALID_CREDENTIALS")
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	d.accountRepo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))

	_, _, err := d.svc.Login(context.Background(), "alice@example.com", "pw")
	assertAppError(t, err, "INTERNAL")
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  ALICE@example.com\t"))
}
