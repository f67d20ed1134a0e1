package service

import (
	"context"
	"testing"

	"skin-marketplace/internal/core/domain"
	"skin-marketplace/internal/core/ports"
	"skin-marketplace/internal/core/ports/mocks"
	"skin-marketplace/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// mockTx implements pgx.Tx for testing
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

// runsInTx makes the transactor mock run fn with tx, as the real one does.
func runsInTx(transactor *mocks.MockTransactor, tx pgx.Tx) *gomock.Call {
	return transactor.EXPECT().WithinTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn ports.TxFunc) error {
			return fn(ctx, tx)
		},
	)
}

// decimalEq matches a decimal argument by value.
type decimalEq struct{ want decimal.Decimal }

func (m decimalEq) Matches(x any) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(m.want)
}

func (m decimalEq) String() string { return "decimal equal to " + m.want.String() }

func eqDec(s string) gomock.Matcher { return decimalEq{want: dec(s)} }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func player(id uuid.UUID) domain.Caller { return domain.Caller{AccountID: id, Role: domain.RolePlayer} }

func admin(id uuid.UUID) domain.Caller { return domain.Caller{AccountID: id, Role: domain.RoleAdmin} }

func assertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, expectedCode, appErr.Code)
}
