package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/campus_coin_ledger/internal/apperrors"
	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/campus_coin_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/campus_coin_ledger/internal/models"
	"github.com/SscSPs/campus_coin_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxHolderRepository struct {
	BaseRepository
}

func newPgxHolderRepository(pool PgxPool) portsrepo.HolderReader {
	return &PgxHolderRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.HolderReader = (*PgxHolderRepository)(nil)

// FindHolder reads a holder without locking it.
func (r *PgxHolderRepository) FindHolder(ctx context.Context, kind domain.HolderKind, holderID string) (*domain.BalanceHolder, error) {
	table, err := holderTable(kind)
	if err != nil {
		return nil, err
	}
	var m models.Holder
	err = r.Pool.QueryRow(ctx, `SELECT id, balance FROM `+table+` WHERE id = $1;`, holderID).Scan(&m.ID, &m.Balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find "+table+" row "+holderID, err)
	}
	holder := mapping.ToDomainHolder(m, kind)
	return &holder, nil
}

// ResolveHolder looks the id up among professors first, then students.
func (r *PgxHolderRepository) ResolveHolder(ctx context.Context, holderID string) (*domain.BalanceHolder, error) {
	for _, kind := range []domain.HolderKind{domain.HolderProfessor, domain.HolderStudent} {
		holder, err := r.FindHolder(ctx, kind, holderID)
		if err == nil {
			return holder, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *PgxHolderRepository) ListProfessorIDs(ctx context.Context) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT id FROM professors ORDER BY id;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list professors", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan professor ids", err)
	}
	return ids, nil
}
