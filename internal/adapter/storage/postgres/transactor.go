package postgres

import (
	"context"
	"errors"
	"fmt"

	"skin-marketplace/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Transactor implements ports.Transactor on top of the connection pool.
type Transactor struct {
	pool Pool
	log  zerolog.Logger
}

// NewTransactor creates a new Transactor wrapping the connection pool.
func NewTransactor(pool Pool, log zerolog.Logger) *Transactor {
	return &Transactor{pool: pool, log: log}
}

// WithinTransaction runs fn in a read-committed transaction and commits once if fn succeeds.
// Rollback is deferred on every path, so errors, panics and cancelled contexts release the tx.
// Errors returned by fn are passed through unchanged.
func (t *Transactor) WithinTransaction(ctx context.Context, fn ports.TxFunc) error {
	tx, err := t.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			t.log.Warn().Err(err).Msg("rollback failed")
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", wrapErr(err))
	}
	return nil
}
