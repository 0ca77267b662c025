package services

import (
	"context"

	"github.com/SscSPs/campus_coin_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// TransferSvc is the only writer of balances and ledger entries.
type TransferSvc interface {
	SendCoins(ctx context.Context, professorID, studentID string, amount decimal.Decimal, memo string) (*dto.TransactionView, error)
	RedeemPerk(ctx context.Context, studentID, perkID string) (*dto.TransactionView, error)
	TransferCoupon(ctx context.Context, couponCode, fromStudentID, toStudentID string) (*dto.TransactionView, error)
	// SemesterCredit credits every professor, each in its own unit of work.
	SemesterCredit(ctx context.Context) (*dto.SemesterCreditResult, error)
	SemesterCreditForProfessor(ctx context.Context, professorID string) (*dto.TransactionView, error)
}
