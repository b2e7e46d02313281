package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// ErrStore marks any transactional storage failure. Callers match it with
// errors.Is; the wrapped error keeps the driver detail.
var ErrStore = errors.New("store error")

// Querier is the subset of pgx that repositories need. Both *pgxpool.Pool
// and pgx.Tx satisfy it, so the same repository code runs standalone or
// inside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RunInTx runs fn inside a single transaction: commit on nil error,
// rollback on error or panic. All multi-entity units (quote approval,
// rejection, direct orders) go through here so commit/rollback calls are
// never scattered across call sites.
func RunInTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) (err error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrStore, err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Msg("store: rollback after panic failed")
			}
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Msg("store: rollback failed")
			}
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				err = fmt.Errorf("%w: commit: %v", ErrStore, commitErr)
			}
		}
	}()

	return fn(tx)
}
