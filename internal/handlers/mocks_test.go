package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/campus_coin_ledger/internal/core/ports/services"
	"github.com/SscSPs/campus_coin_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func viewOrNil(args mock.Arguments) (*dto.TransactionView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TransactionView), args.Error(1)
}

func viewsOrNil(args mock.Arguments) ([]dto.TransactionView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.TransactionView), args.Error(1)
}

// --- Mock TransferService ---
type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) SendCoins(ctx context.Context, professorID, studentID string, amount decimal.Decimal, memo string) (*dto.TransactionView, error) {
	return viewOrNil(m.Called(ctx, professorID, studentID, amount, memo))
}

func (m *MockTransferService) RedeemPerk(ctx context.Context, studentID, perkID string) (*dto.TransactionView, error) {
	return viewOrNil(m.Called(ctx, studentID, perkID))
}

func (m *MockTransferService) TransferCoupon(ctx context.Context, couponCode, fromStudentID, toStudentID string) (*dto.TransactionView, error) {
	return viewOrNil(m.Called(ctx, couponCode, fromStudentID, toStudentID))
}

func (m *MockTransferService) SemesterCredit(ctx context.Context) (*dto.SemesterCreditResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SemesterCreditResult), args.Error(1)
}

func (m *MockTransferService) SemesterCreditForProfessor(ctx context.Context, professorID string) (*dto.TransactionView, error) {
	return viewOrNil(m.Called(ctx, professorID))
}

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetByID(ctx context.Context, entryID int64) (*dto.TransactionView, error) {
	return viewOrNil(m.Called(ctx, entryID))
}

func (m *MockLedgerService) GetByCouponCode(ctx context.Context, code string) (*dto.TransactionView, error) {
	return viewOrNil(m.Called(ctx, code))
}

func (m *MockLedgerService) GetCouponHistory(ctx context.Context, code string) ([]dto.TransactionView, error) {
	return viewsOrNil(m.Called(ctx, code))
}

func (m *MockLedgerService) GetStatement(ctx context.Context, holderID string, from, to *time.Time) ([]dto.TransactionView, error) {
	return viewsOrNil(m.Called(ctx, holderID, from, to))
}

func (m *MockLedgerService) ListByKind(ctx context.Context, kind domain.EntryKind) ([]dto.TransactionView, error) {
	return viewsOrNil(m.Called(ctx, kind))
}

func (m *MockLedgerService) ListByRange(ctx context.Context, from, to time.Time) ([]dto.TransactionView, error) {
	return viewsOrNil(m.Called(ctx, from, to))
}

func (m *MockLedgerService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

func (m *MockLedgerService) GetRecent(ctx context.Context, n int) ([]dto.TransactionView, error) {
	return viewsOrNil(m.Called(ctx, n))
}

func (m *MockLedgerService) SumSentByProfessor(ctx context.Context, professorID string) (decimal.Decimal, error) {
	args := m.Called(ctx, professorID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerService) SumReceivedByStudent(ctx context.Context, studentID string) (decimal.Decimal, error) {
	args := m.Called(ctx, studentID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerService) SumSpentByStudent(ctx context.Context, studentID string) (decimal.Decimal, error) {
	args := m.Called(ctx, studentID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerService) CountRedemptionsForPerk(ctx context.Context, perkID string) (int64, error) {
	args := m.Called(ctx, perkID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock CouponService ---
type MockCouponService struct {
	mock.Mock
}

func (m *MockCouponService) CouponQRCode(ctx context.Context, code string) ([]byte, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCouponService) ResendCoupon(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

// Ensure mocks implement the interfaces
var (
	_ portssvc.TransferSvc     = (*MockTransferService)(nil)
	_ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)
	_ portssvc.CouponSvc       = (*MockCouponService)(nil)
)
