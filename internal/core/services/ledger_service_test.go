package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/campus_coin_ledger/internal/apperrors"
	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/campus_coin_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/campus_coin_ledger/internal/core/ports/services"
	"github.com/SscSPs/campus_coin_ledger/internal/core/services"
	"github.com/SscSPs/campus_coin_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Mock LedgerReader ---
type MockLedgerReader struct {
	mock.Mock
}

func (m *MockLedgerReader) entries(args mock.Arguments) ([]domain.LedgerEntry, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerReader) FindEntryByID(ctx context.Context, entryID int64) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerReader) FindIssuanceByCouponCode(ctx context.Context, code string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerReader) ListEntriesByCouponCode(ctx context.Context, code string) ([]domain.LedgerEntry, error) {
	return m.entries(m.Called(ctx, code))
}

func (m *MockLedgerReader) ListStatement(ctx context.Context, holderID string, from, to *time.Time) ([]domain.LedgerEntry, error) {
	return m.entries(m.Called(ctx, holderID, from, to))
}

func (m *MockLedgerReader) ListByKind(ctx context.Context, kind domain.EntryKind) ([]domain.LedgerEntry, error) {
	return m.entries(m.Called(ctx, kind))
}

func (m *MockLedgerReader) ListByRange(ctx context.Context, from, to time.Time) ([]domain.LedgerEntry, error) {
	return m.entries(m.Called(ctx, from, to))
}

func (m *MockLedgerReader) ListPage(ctx context.Context, filter portsrepo.LedgerFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var entries []domain.LedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.LedgerEntry)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return entries, next, args.Error(2)
}

func (m *MockLedgerReader) ListRecent(ctx context.Context, n int) ([]domain.LedgerEntry, error) {
	return m.entries(m.Called(ctx, n))
}

func (m *MockLedgerReader) SumAmount(ctx context.Context, kind domain.EntryKind, side portsrepo.EntrySide, holderID string) (decimal.Decimal, error) {
	args := m.Called(ctx, kind, side, holderID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerReader) CountRedemptionsForPerk(ctx context.Context, perkID string) (int64, error) {
	args := m.Called(ctx, perkID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Test Suite (mocked reader) ---
type LedgerServiceTestSuite struct {
	suite.Suite
	reader  *MockLedgerReader
	store   *memStore
	service portssvc.LedgerSvcFacade
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.reader = new(MockLedgerReader)
	suite.store = newMemStore()
	suite.store.addProfessor("P1", "Prof. Ada", "1000")
	suite.store.addStudent("S1", "Sam", "0")
	suite.store.addPerk(domain.Perk{ID: "PK1", Name: "Free coffee", Price: dec("30"), Active: true, CompanyName: "Campus Cafe"})
	suite.service = services.NewLedgerService(suite.reader, suite.store, suite.store)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

func grant(id int64, at time.Time) domain.LedgerEntry {
	e := domain.NewCoinGrant("P1", "S1", dec("5"), "memo")
	e.ID = id
	e.CreatedAt = at
	return e
}

func (suite *LedgerServiceTestSuite) TestGetByID_ResolvesNames() {
	ctx := context.Background()
	entry := grant(7, time.Now())
	suite.reader.On("FindEntryByID", ctx, int64(7)).Return(&entry, nil).Once()

	view, err := suite.service.GetByID(ctx, 7)

	suite.Require().NoError(err)
	suite.Equal(int64(7), view.ID)
	suite.Equal("5.00", view.Amount)
	suite.Equal("Prof. Ada", *view.SenderName)
	suite.Equal("Sam", *view.RecipientName)
	suite.reader.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestGetByID_NotFound() {
	ctx := context.Background()
	suite.reader.On("FindEntryByID", ctx, int64(99)).Return(nil, apperrors.ErrNotFound).Once()

	view, err := suite.service.GetByID(ctx, 99)

	suite.Nil(view)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestGetByCouponCode_NormalizesCode() {
	ctx := context.Background()
	entry := domain.NewPerkRedemption("S1", domain.Perk{ID: "PK1", Name: "Free coffee", Price: dec("30")}, "CUP-ABCD1234")
	entry.ID = 3
	suite.reader.On("FindIssuanceByCouponCode", ctx, "CUP-ABCD1234").Return(&entry, nil).Once()

	view, err := suite.service.GetByCouponCode(ctx, " cup-abcd1234 ")

	suite.Require().NoError(err)
	suite.Equal(domain.KindPerkRedemption, view.Kind)
	suite.Equal("Free coffee", *view.PerkName)
	suite.Equal("Campus Cafe", *view.CompanyName)
}

func (suite *LedgerServiceTestSuite) TestGetCouponHistory_UnknownCode() {
	ctx := context.Background()
	suite.reader.On("ListEntriesByCouponCode", ctx, "CUP-NONE0000").Return([]domain.LedgerEntry{}, nil).Once()

	_, err := suite.service.GetCouponHistory(ctx, "CUP-NONE0000")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestGetStatement() {
	ctx := context.Background()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	suite.Run("unknown holder", func() {
		_, err := suite.service.GetStatement(ctx, "ghost", nil, nil)
		suite.ErrorIs(err, apperrors.ErrNotFound)
	})

	suite.Run("inverted range", func() {
		_, err := suite.service.GetStatement(ctx, "S1", &to, &from)
		suite.ErrorIs(err, apperrors.ErrValidation)
	})

	suite.Run("bounded", func() {
		entries := []domain.LedgerEntry{grant(2, from.Add(2*time.Hour)), grant(1, from.Add(time.Hour))}
		suite.reader.On("ListStatement", ctx, "S1", &from, &to).Return(entries, nil).Once()

		views, err := suite.service.GetStatement(ctx, "S1", &from, &to)

		suite.Require().NoError(err)
		suite.Require().Len(views, 2)
		suite.Equal(int64(2), views[0].ID)
	})
}

func (suite *LedgerServiceTestSuite) TestListByKind_RejectsUnknownKind() {
	_, err := suite.service.ListByKind(context.Background(), domain.EntryKind("REFUND"))
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.reader.AssertNotCalled(suite.T(), "ListByKind", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestListByRange_InvertedRange() {
	now := time.Now()
	_, err := suite.service.ListByRange(context.Background(), now, now.Add(-time.Minute))
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestGetRecent_Clamps() {
	ctx := context.Background()
	testCases := []struct {
		requested int
		expected  int
	}{
		{0, 10},
		{-3, 10},
		{5, 5},
		{500, 100},
	}
	for _, tc := range testCases {
		suite.reader.On("ListRecent", ctx, tc.expected).Return([]domain.LedgerEntry{}, nil).Once()
		views, err := suite.service.GetRecent(ctx, tc.requested)
		suite.Require().NoError(err)
		suite.Empty(views)
	}
	suite.reader.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestListTransactions_PassesFilterAndToken() {
	ctx := context.Background()
	kind := domain.KindCoinGrant
	token := "abc"
	next := "def"
	params := dto.ListTransactionsParams{Kind: &kind, Limit: 2, NextToken: &token}
	suite.reader.On("ListPage", ctx, portsrepo.LedgerFilter{Kind: &kind}, 2, &token).
		Return([]domain.LedgerEntry{grant(5, time.Now())}, &next, nil).Once()

	resp, err := suite.service.ListTransactions(ctx, params)

	suite.Require().NoError(err)
	suite.Len(resp.Transactions, 1)
	suite.Equal(&next, resp.NextToken)
}

func (suite *LedgerServiceTestSuite) TestAggregates() {
	ctx := context.Background()

	suite.reader.On("SumAmount", ctx, domain.KindCoinGrant, portsrepo.SideSender, "P1").Return(dec("75.50"), nil).Once()
	sent, err := suite.service.SumSentByProfessor(ctx, "P1")
	suite.Require().NoError(err)
	suite.True(dec("75.5").Equal(sent))

	suite.reader.On("SumAmount", ctx, domain.KindPerkRedemption, portsrepo.SideRecipient, "S1").Return(dec("30"), nil).Once()
	spent, err := suite.service.SumSpentByStudent(ctx, "S1")
	suite.Require().NoError(err)
	suite.True(dec("30").Equal(spent))

	_, err = suite.service.SumSentByProfessor(ctx, "S1")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = suite.service.SumReceivedByStudent(ctx, "nobody")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.reader.On("CountRedemptionsForPerk", ctx, "PK1").Return(int64(4), nil).Once()
	count, err := suite.service.CountRedemptionsForPerk(ctx, "PK1")
	suite.Require().NoError(err)
	suite.Equal(int64(4), count)

	_, err = suite.service.CountRedemptionsForPerk(ctx, "missing")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.reader.AssertExpectations(suite.T())
}

// End to end against the in-memory store: writes through the transfer service,
// reads through the ledger service.
func TestLedgerService_ReadsWhatTransfersWrote(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.addProfessor("P1", "Prof. Ada", "1000")
	store.addStudent("S1", "Sam", "0")
	store.addStudent("S2", "Sol", "0")
	store.addPerk(domain.Perk{ID: "PK1", Name: "Free coffee", Price: dec("30"), Active: true})

	transfers := services.NewTransferService(store, store, store,
		services.WithCouponCodeGenerator(func() string { return "CUP-E2E00001" }))
	ledger := services.NewLedgerService(store, store, store)

	_, err := transfers.SendCoins(ctx, "P1", "S1", dec("50"), "lab work")
	require.NoError(t, err)
	_, err = transfers.RedeemPerk(ctx, "S1", "PK1")
	require.NoError(t, err)
	_, err = transfers.TransferCoupon(ctx, "CUP-E2E00001", "S1", "S2")
	require.NoError(t, err)

	statement, err := ledger.GetStatement(ctx, "S1", nil, nil)
	require.NoError(t, err)
	require.Len(t, statement, 3)
	assert.Equal(t, domain.KindCouponTransfer, statement[0].Kind)
	assert.Equal(t, domain.KindCoinGrant, statement[2].Kind)

	history, err := ledger.GetCouponHistory(ctx, "CUP-E2E00001")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.KindPerkRedemption, history[0].Kind)
	assert.Equal(t, "S2", *history[1].RecipientID)

	issued, err := ledger.GetByCouponCode(ctx, "CUP-E2E00001")
	require.NoError(t, err)
	assert.Equal(t, "S1", *issued.RecipientID)

	received, err := ledger.SumReceivedByStudent(ctx, "S1")
	require.NoError(t, err)
	assert.True(t, dec("50").Equal(received))

	spent, err := ledger.SumSpentByStudent(ctx, "S1")
	require.NoError(t, err)
	assert.True(t, dec("30").Equal(spent))

	count, err := ledger.CountRedemptionsForPerk(ctx, "PK1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	recent, err := ledger.GetRecent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}
