package pgsql

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/campus_coin_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/campus_coin_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	_ portsrepo.TransactionManager = (*BaseRepository)(nil)
	_ PgxPool                      = (*pgxpool.Pool)(nil)
)

// PgxPool is the part of *pgxpool.Pool the repositories use.
type PgxPool interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// BaseRepository holds the pool shared by the pgsql repositories.
type BaseRepository struct {
	Pool PgxPool
}

// InTx runs fn in a READ COMMITTED transaction. Row locks taken by fn are held
// until the commit or rollback.
func (r *BaseRepository) InTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	committed := false
	defer func() {
		if !committed {
			r.rollback(ctx, tx)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	committed = true
	return nil
}

// rollback discards tx. It runs on a detached context so a cancelled request
// still releases its locks.
func (r *BaseRepository) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		slog.ErrorContext(ctx, "Failed to rollback transaction", slog.String("error", err.Error()))
	}
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
