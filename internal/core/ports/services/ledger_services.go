package services

import (
	"context"
	"time"

	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
	"github.com/SscSPs/campus_coin_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerReaderSvc exposes read-only ledger queries.
type LedgerReaderSvc interface {
	GetByID(ctx context.Context, entryID int64) (*dto.TransactionView, error)
	// GetByCouponCode returns the entry that issued the coupon, not its current owner.
	GetByCouponCode(ctx context.Context, code string) (*dto.TransactionView, error)
	GetCouponHistory(ctx context.Context, code string) ([]dto.TransactionView, error)
	GetStatement(ctx context.Context, holderID string, from, to *time.Time) ([]dto.TransactionView, error)
	ListByKind(ctx context.Context, kind domain.EntryKind) ([]dto.TransactionView, error)
	ListByRange(ctx context.Context, from, to time.Time) ([]dto.TransactionView, error)
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
	GetRecent(ctx context.Context, n int) ([]dto.TransactionView, error)
}

// LedgerStatsSvc exposes ledger aggregates.
type LedgerStatsSvc interface {
	SumSentByProfessor(ctx context.Context, professorID string) (decimal.Decimal, error)
	SumReceivedByStudent(ctx context.Context, studentID string) (decimal.Decimal, error)
	SumSpentByStudent(ctx context.Context, studentID string) (decimal.Decimal, error)
	CountRedemptionsForPerk(ctx context.Context, perkID string) (int64, error)
}

// LedgerSvcFacade combines every ledger query.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerStatsSvc
}
