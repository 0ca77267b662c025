package pgsql

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/campus_coin_ledger/internal/apperrors"
	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/campus_coin_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/campus_coin_ledger/internal/models"
	"github.com/SscSPs/campus_coin_ledger/internal/utils/mapping"
	"github.com/SscSPs/campus_coin_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const ledgerColumns = `id, kind, amount, memo, sender_id, recipient_id, perk_id, coupon_code, created_at`

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

const uniqueViolation = "23505"

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger entries.
func newPgxLedgerRepository(pool PgxPool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// WithinTx runs fn as one ledger unit of work. Balance updates and the appended
// entry become visible together or not at all.
func (r *PgxLedgerRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	return r.InTx(ctx, func(tx pgx.Tx) error {
		return fn(ctx, &pgxLedgerTx{tx: tx})
	})
}

// pgxLedgerTx implements LedgerTx on top of an open pgx transaction.
type pgxLedgerTx struct {
	tx pgx.Tx
}

var _ portsrepo.LedgerTx = (*pgxLedgerTx)(nil)

func holderTable(kind domain.HolderKind) (string, error) {
	switch kind {
	case domain.HolderProfessor:
		return "professors", nil
	case domain.HolderStudent:
		return "students", nil
	}
	return "", apperrors.NewAppError(500, "unknown holder kind "+string(kind), nil)
}

// LockHolder selects the holder row FOR UPDATE.
func (t *pgxLedgerTx) LockHolder(ctx context.Context, kind domain.HolderKind, holderID string) (*domain.BalanceHolder, error) {
	table, err := holderTable(kind)
	if err != nil {
		return nil, err
	}
	query := `SELECT id, balance FROM ` + table + ` WHERE id = $1 FOR UPDATE;`

	var m models.Holder
	if err := t.tx.QueryRow(ctx, query, holderID).Scan(&m.ID, &m.Balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock "+table+" row "+holderID, err)
	}
	holder := mapping.ToDomainHolder(m, kind)
	return &holder, nil
}

// LockPerk selects the perk row FOR SHARE; concurrent updates of the perk wait
// for this transaction to finish.
func (t *pgxLedgerTx) LockPerk(ctx context.Context, perkID string) (*domain.Perk, error) {
	query := `SELECT ` + perkColumns + ` FROM perks p JOIN companies c ON c.id = p.company_id
		WHERE p.id = $1 FOR SHARE OF p;`
	m, err := scanPerk(t.tx.QueryRow(ctx, query, perkID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock perk "+perkID, err)
	}
	perk := mapping.ToDomainPerk(m)
	return &perk, nil
}

func (t *pgxLedgerTx) UpdateHolderBalance(ctx context.Context, holder domain.BalanceHolder) error {
	table, err := holderTable(holder.Kind)
	if err != nil {
		return err
	}
	tag, err := t.tx.Exec(ctx, `UPDATE `+table+` SET balance = $2 WHERE id = $1;`, holder.ID, holder.Balance)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update balance of "+holder.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (t *pgxLedgerTx) FindLatestByCouponCode(ctx context.Context, code string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries
		WHERE coupon_code = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1;`
	return scanOne(t.tx.QueryRow(ctx, query, code), "coupon "+code)
}

// AppendEntry inserts the entry; id and created_at are assigned by the database.
func (t *pgxLedgerTx) AppendEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	m := mapping.ToModelLedgerEntry(entry)
	query := `
		INSERT INTO ledger_entries (kind, amount, memo, sender_id, recipient_id, perk_id, coupon_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at;
	`
	err := t.tx.QueryRow(ctx, query, m.Kind, m.Amount, m.Memo, m.SenderID, m.RecipientID, m.PerkID, m.CouponCode).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperrors.NewAppError(500, "coupon code collision", err)
		}
		return nil, apperrors.NewAppError(500, "failed to insert ledger entry", err)
	}
	saved := mapping.ToDomainLedgerEntry(m)
	return &saved, nil
}

func scanEntry(row rowScanner, m *models.LedgerEntry) error {
	return row.Scan(&m.ID, &m.Kind, &m.Amount, &m.Memo, &m.SenderID, &m.RecipientID, &m.PerkID, &m.CouponCode, &m.CreatedAt)
}

func scanOne(row pgx.Row, what string) (*domain.LedgerEntry, error) {
	var m models.LedgerEntry
	if err := scanEntry(row, &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find ledger entry for "+what, err)
	}
	e := mapping.ToDomainLedgerEntry(m)
	return &e, nil
}

func (r *PgxLedgerRepository) queryEntries(ctx context.Context, what, query string, args ...any) ([]domain.LedgerEntry, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger entries for "+what, err)
	}
	defer rows.Close()

	entries := []models.LedgerEntry{}
	for rows.Next() {
		var m models.LedgerEntry
		if err := scanEntry(rows, &m); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger entry for "+what, err)
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger entries for "+what, err)
	}
	return mapping.ToDomainLedgerEntrySlice(entries), nil
}

// FindEntryByID retrieves a ledger entry by its ID.
func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, entryID int64) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE id = $1;`
	return scanOne(r.Pool.QueryRow(ctx, query, entryID), "id "+strconv.FormatInt(entryID, 10))
}

func (r *PgxLedgerRepository) FindIssuanceByCouponCode(ctx context.Context, code string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries
		WHERE coupon_code = $1 AND kind = $2
		ORDER BY created_at, id
		LIMIT 1;`
	return scanOne(r.Pool.QueryRow(ctx, query, code, string(domain.KindPerkRedemption)), "coupon "+code)
}

func (r *PgxLedgerRepository) ListEntriesByCouponCode(ctx context.Context, code string) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries
		WHERE coupon_code = $1
		ORDER BY created_at, id;`
	return r.queryEntries(ctx, "coupon "+code, query, code)
}

// ListStatement lists every entry a holder took part in, newest first.
func (r *PgxLedgerRepository) ListStatement(ctx context.Context, holderID string, from, to *time.Time) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries
		WHERE (sender_id = $1 OR recipient_id = $1)
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY created_at DESC, id DESC;`
	return r.queryEntries(ctx, "holder "+holderID, query, holderID, from, to)
}

func (r *PgxLedgerRepository) ListByKind(ctx context.Context, kind domain.EntryKind) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries
		WHERE kind = $1
		ORDER BY created_at DESC, id DESC;`
	return r.queryEntries(ctx, "kind "+string(kind), query, string(kind))
}

func (r *PgxLedgerRepository) ListByRange(ctx context.Context, from, to time.Time) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at DESC, id DESC;`
	return r.queryEntries(ctx, "range", query, from, to)
}

func (r *PgxLedgerRepository) ListRecent(ctx context.Context, n int) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries
		ORDER BY created_at DESC, id DESC
		LIMIT $1;`
	return r.queryEntries(ctx, "recent", query, n)
}

// ListPage retrieves a page of entries using keyset pagination on (created_at, id).
func (r *PgxLedgerRepository) ListPage(ctx context.Context, filter portsrepo.LedgerFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	var conditions []string
	var args []any
	addArg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Kind != nil {
		conditions = append(conditions, "kind = "+addArg(string(*filter.Kind)))
	}
	if filter.From != nil {
		conditions = append(conditions, "created_at >= "+addArg(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, "created_at <= "+addArg(*filter.To))
	}
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, &tokenError{err: err}
		}
		// Tuple comparison is concise and efficient in Postgres
		conditions = append(conditions, "(created_at, id) < ("+addArg(lastCreatedAt)+", "+addArg(lastID)+")")
	}

	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	// Fetch one extra row to learn whether another page exists.
	query += " ORDER BY created_at DESC, id DESC LIMIT " + addArg(limit+1) + ";"

	entries, err := r.queryEntries(ctx, "page", query, args...)
	if err != nil {
		return nil, nil, err
	}

	if len(entries) <= limit {
		return entries, nil, nil
	}
	last := entries[limit-1]
	token := pagination.EncodeToken(last.CreatedAt, last.ID)
	return entries[:limit], &token, nil
}

// tokenError marks a malformed pagination token as a validation failure.
type tokenError struct{ err error }

func (e *tokenError) Error() string { return "invalid nextToken: " + e.err.Error() }

func (e *tokenError) Unwrap() []error { return []error{apperrors.ErrValidation, e.err} }

// SumAmount totals entries of kind where holderID occupies side.
func (r *PgxLedgerRepository) SumAmount(ctx context.Context, kind domain.EntryKind, side portsrepo.EntrySide, holderID string) (decimal.Decimal, error) {
	var column string
	switch side {
	case portsrepo.SideSender:
		column = "sender_id"
	case portsrepo.SideRecipient:
		column = "recipient_id"
	default:
		return decimal.Zero, apperrors.NewAppError(500, "unknown entry side "+string(side), nil)
	}

	query := `SELECT COALESCE(SUM(amount), 0) FROM ledger_entries WHERE kind = $1 AND ` + column + ` = $2;`
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, string(kind), holderID).Scan(&total); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum "+string(kind)+" for "+holderID, err)
	}
	return total, nil
}

func (r *PgxLedgerRepository) CountRedemptionsForPerk(ctx context.Context, perkID string) (int64, error) {
	query := `SELECT COUNT(*) FROM ledger_entries WHERE kind = $1 AND perk_id = $2;`
	var count int64
	if err := r.Pool.QueryRow(ctx, query, string(domain.KindPerkRedemption), perkID).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count redemptions for perk "+perkID, err)
	}
	return count, nil
}
