package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerTx is the set of operations available inside one atomic unit of work.
// Holders returned by LockHolder stay locked until the unit of work ends.
type LedgerTx interface {
	// LockHolder loads a holder and locks its row. Returns apperrors.ErrNotFound if missing.
	LockHolder(ctx context.Context, kind domain.HolderKind, holderID string) (*domain.BalanceHolder, error)
	// LockPerk loads a perk with a share lock, so it cannot be deactivated or
	// repriced before the unit of work ends. Returns apperrors.ErrNotFound if missing.
	LockPerk(ctx context.Context, perkID string) (*domain.Perk, error)
	// UpdateHolderBalance persists holder.Balance.
	UpdateHolderBalance(ctx context.Context, holder domain.BalanceHolder) error
	// FindLatestByCouponCode returns the most recent entry bearing code
	// (created_at desc, id desc). Returns apperrors.ErrNotFound if none exists.
	FindLatestByCouponCode(ctx context.Context, code string) (*domain.LedgerEntry, error)
	// AppendEntry inserts entry and returns it with ID and CreatedAt assigned.
	AppendEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error)
}

// LedgerUnitOfWork runs fn atomically: everything fn did through tx is committed
// when fn returns nil and rolled back otherwise.
type LedgerUnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}

// EntrySide selects which party column an aggregate is computed over.
type EntrySide string

const (
	SideSender    EntrySide = "sender"
	SideRecipient EntrySide = "recipient"
)

// LedgerFilter narrows paginated ledger listings. Nil fields are ignored.
type LedgerFilter struct {
	Kind *domain.EntryKind
	From *time.Time
	To   *time.Time
}

// LedgerReader provides read-only access to the ledger.
type LedgerReader interface {
	FindEntryByID(ctx context.Context, entryID int64) (*domain.LedgerEntry, error)
	// FindIssuanceByCouponCode returns the PERK_REDEMPTION entry that created the coupon.
	FindIssuanceByCouponCode(ctx context.Context, code string) (*domain.LedgerEntry, error)
	// ListEntriesByCouponCode returns every entry with code, oldest first.
	ListEntriesByCouponCode(ctx context.Context, code string) ([]domain.LedgerEntry, error)
	// ListStatement returns entries where holderID is sender or recipient, newest first.
	// Both bounds are inclusive and optional.
	ListStatement(ctx context.Context, holderID string, from, to *time.Time) ([]domain.LedgerEntry, error)
	ListByKind(ctx context.Context, kind domain.EntryKind) ([]domain.LedgerEntry, error)
	ListByRange(ctx context.Context, from, to time.Time) ([]domain.LedgerEntry, error)
	// ListPage returns one newest-first page and the token for the next page, if any.
	ListPage(ctx context.Context, filter LedgerFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
	ListRecent(ctx context.Context, n int) ([]domain.LedgerEntry, error)
	SumAmount(ctx context.Context, kind domain.EntryKind, side EntrySide, holderID string) (decimal.Decimal, error)
	CountRedemptionsForPerk(ctx context.Context, perkID string) (int64, error)
}

// LedgerRepositoryFacade combines the ledger read and write sides.
type LedgerRepositoryFacade interface {
	LedgerUnitOfWork
	LedgerReader
}
