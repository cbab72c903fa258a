package db

import (
	"context"
	"errors"
	"fmt"

	"mealdesk/internal/xpkg/logger"
	"mealdesk/internal/order/app/core"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so repository
// methods run against the transaction carried in the context when there is
// one and against the pool otherwise.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

func conn(ctx context.Context, pool *pgxpool.Pool) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}

// TxManager opens one pgx transaction per unit of work and threads it through
// the context to every repository call inside fn.
type TxManager struct {
	pool  *pgxpool.Pool
	mylog logger.Logger
}

func NewTxManager(pool *pgxpool.Pool, mylog logger.Logger) *TxManager {
	return &TxManager{
		pool:  pool,
		mylog: mylog,
	}
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		m.mylog.Action("tx_begin_failed").Error("Failed to begin transaction", err)
		return core.ErrDBConn
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			m.mylog.Action("tx_rollback_failed").Error("Failed to roll back transaction", rbErr)
		}
		if isRetryableTxFailure(err) {
			m.mylog.Action("tx_aborted").Warn("Transaction aborted by lock conflict", "reason", err.Error())
			return core.ErrTxConflict
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		if isRetryableTxFailure(err) {
			m.mylog.Action("tx_aborted").Warn("Transaction aborted by lock conflict", "reason", err.Error())
			return core.ErrTxConflict
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// isRetryableTxFailure reports whether err is a Postgres serialization or
// deadlock abort (40001, 40P01). The transaction is gone but the request is
// safe to retry.
func isRetryableTxFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// isUniqueViolation reports whether err is a Postgres 23505 on the given
// constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == constraint
	}
	return false
}
