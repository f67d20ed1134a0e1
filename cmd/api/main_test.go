package main

import (
	"errors"
	"testing"

	"skin-marketplace/config"
	"skin-marketplace/internal/core/domain"
	"skin-marketplace/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestBootstrapAdmin_SkippedWithoutEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountService(ctrl)
	hashSvc := mocks.NewMockHashService(ctrl)

	err := bootstrapAdmin(t.Context(), config.AdminConfig{}, accounts, hashSvc, zerolog.Nop())
	assert.NoError(t, err)
}

func TestBootstrapAdmin_RequiresPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountService(ctrl)
	hashSvc := mocks.NewMockHashService(ctrl)

	err := bootstrapAdmin(t.Context(), config.AdminConfig{Email: "root@example.com"}, accounts, hashSvc, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin.password")
}

func TestBootstrapAdmin_EnsuresNormalizedAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountService(ctrl)
	hashSvc := mocks.NewMockHashService(ctrl)

	hashSvc.EXPECT().Hash("Sup3r$ecret").Return("$argon2id$hash", nil)
	accounts.EXPECT().EnsureAdmin(gomock.Any(), "root", "root@example.com", "$argon2id$hash").
		Return(&domain.Account{ID: uuid.New(), Role: domain.RoleAdmin}, nil)

	err := bootstrapAdmin(t.Context(), config.AdminConfig{
		Name:     "root",
		Email:    "  Root@Example.com ",
		Password: "Sup3r$ecret",
	}, accounts, hashSvc, zerolog.Nop())
	assert.NoError(t, err)
}

func TestBootstrapAdmin_PropagatesFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountService(ctrl)
	hashSvc := mocks.NewMockHashService(ctrl)

	hashSvc.EXPECT().Hash(gomock.Any()).Return("h", nil)
	accounts.EXPECT().EnsureAdmin(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	err := bootstrapAdmin(t.Context(), config.AdminConfig{Email: "root@example.com", Password: "x"}, accounts, hashSvc, zerolog.Nop())
	assert.EqualError(t, err, "db down")
}
