package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_DeclaresConstraintsUsedByTranslate(t *testing.T) {
	for _, name := range []string{constraintAccountEmail, constraintAccountBalance, constraintListingItem} {
		assert.Contains(t, schemaSQL, "CONSTRAINT "+name, name)
	}
	assert.Contains(t, schemaSQL, "ON DELETE CASCADE")
	assert.Contains(t, schemaSQL, "CHECK (balance >= 0)")
}

func TestApplySchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS accounts")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	err = ApplySchema(context.Background(), mock, zerolog.Nop())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplySchema_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE").WillReturnError(assert.AnError)

	err = ApplySchema(context.Background(), mock, zerolog.Nop())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestHealthCheck(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectPing()

	hc := NewHealthCheck(mock)
	assert.Equal(t, "postgresql", hc.Name())
	assert.NoError(t, hc.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
