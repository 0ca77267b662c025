package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/campus_coin_ledger/internal/apperrors"
	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/campus_coin_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/campus_coin_ledger/internal/core/ports/services"
	"github.com/SscSPs/campus_coin_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100
)

type ledgerService struct {
	BaseService
	reader  portsrepo.LedgerReader
	holders portsrepo.HolderReader
	perks   portsrepo.PerkLookup
	refs    *viewResolver
}

// NewLedgerService creates the read side of the ledger.
func NewLedgerService(
	reader portsrepo.LedgerReader,
	holders portsrepo.HolderReader,
	directory portsrepo.DirectoryRepositoryFacade,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		reader:  reader,
		holders: holders,
		perks:   directory,
		refs:    &viewResolver{directory: directory},
	}
}

func (s *ledgerService) GetByID(ctx context.Context, entryID int64) (*dto.TransactionView, error) {
	entry, err := s.reader.FindEntryByID(ctx, entryID)
	if err != nil {
		if !apperrors.IsClientError(err) {
			s.LogError(ctx, err, "Failed to get ledger entry", slog.Int64("entry_id", entryID))
		}
		return nil, err
	}
	return s.single(ctx, *entry)
}

// GetByCouponCode returns the issuing entry. Ownership is resolved through GetCouponHistory.
func (s *ledgerService) GetByCouponCode(ctx context.Context, code string) (*dto.TransactionView, error) {
	code = normalizeCouponCode(code)
	entry, err := s.reader.FindIssuanceByCouponCode(ctx, code)
	if err != nil {
		if !apperrors.IsClientError(err) {
			s.LogError(ctx, err, "Failed to get coupon", slog.String("coupon_code", code))
		}
		return nil, err
	}
	return s.single(ctx, *entry)
}

func (s *ledgerService) GetCouponHistory(ctx context.Context, code string) ([]dto.TransactionView, error) {
	code = normalizeCouponCode(code)
	entries, err := s.reader.ListEntriesByCouponCode(ctx, code)
	if err != nil {
		s.LogError(ctx, err, "Failed to list coupon history", slog.String("coupon_code", code))
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("coupon %s: %w", code, apperrors.ErrNotFound)
	}
	return s.refs.views(ctx, entries)
}

// GetStatement lists every entry in which the holder took part, newest first.
func (s *ledgerService) GetStatement(ctx context.Context, holderID string, from, to *time.Time) ([]dto.TransactionView, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, fmt.Errorf("%w: 'from' must not be after 'to'", apperrors.ErrValidation)
	}
	if _, err := s.holders.ResolveHolder(ctx, holderID); err != nil {
		return nil, fmt.Errorf("holder %s: %w", holderID, err)
	}

	entries, err := s.reader.ListStatement(ctx, holderID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to list statement", slog.String("holder_id", holderID))
		return nil, err
	}
	return s.refs.views(ctx, entries)
}

func (s *ledgerService) ListByKind(ctx context.Context, kind domain.EntryKind) ([]dto.TransactionView, error) {
	kind, err := domain.ParseEntryKind(string(kind))
	if err != nil {
		return nil, err
	}
	entries, err := s.reader.ListByKind(ctx, kind)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries by kind", slog.String("kind", string(kind)))
		return nil, err
	}
	return s.refs.views(ctx, entries)
}

func (s *ledgerService) ListByRange(ctx context.Context, from, to time.Time) ([]dto.TransactionView, error) {
	if from.After(to) {
		return nil, fmt.Errorf("%w: 'from' must not be after 'to'", apperrors.ErrValidation)
	}
	entries, err := s.reader.ListByRange(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries by range")
		return nil, err
	}
	return s.refs.views(ctx, entries)
}

func (s *ledgerService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if params.From != nil && params.To != nil && params.From.After(*params.To) {
		return nil, fmt.Errorf("%w: 'from' must not be after 'to'", apperrors.ErrValidation)
	}
	filter := portsrepo.LedgerFilter{Kind: params.Kind, From: params.From, To: params.To}

	entries, next, err := s.reader.ListPage(ctx, filter, params.Limit, params.NextToken)
	if err != nil {
		if !apperrors.IsClientError(err) {
			s.LogError(ctx, err, "Failed to list transactions")
		}
		return nil, err
	}
	views, err := s.refs.views(ctx, entries)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve transaction references")
		return nil, err
	}
	return &dto.ListTransactionsResponse{Transactions: views, NextToken: next}, nil
}

// GetRecent returns the n newest entries. n <= 0 means the default, and n is capped.
func (s *ledgerService) GetRecent(ctx context.Context, n int) ([]dto.TransactionView, error) {
	if n <= 0 {
		n = defaultRecentLimit
	}
	if n > maxRecentLimit {
		n = maxRecentLimit
	}
	entries, err := s.reader.ListRecent(ctx, n)
	if err != nil {
		s.LogError(ctx, err, "Failed to list recent entries", slog.Int("n", n))
		return nil, err
	}
	return s.refs.views(ctx, entries)
}

func (s *ledgerService) SumSentByProfessor(ctx context.Context, professorID string) (decimal.Decimal, error) {
	return s.sumFor(ctx, domain.HolderProfessor, professorID, domain.KindCoinGrant, portsrepo.SideSender)
}

func (s *ledgerService) SumReceivedByStudent(ctx context.Context, studentID string) (decimal.Decimal, error) {
	return s.sumFor(ctx, domain.HolderStudent, studentID, domain.KindCoinGrant, portsrepo.SideRecipient)
}

func (s *ledgerService) SumSpentByStudent(ctx context.Context, studentID string) (decimal.Decimal, error) {
	return s.sumFor(ctx, domain.HolderStudent, studentID, domain.KindPerkRedemption, portsrepo.SideRecipient)
}

func (s *ledgerService) CountRedemptionsForPerk(ctx context.Context, perkID string) (int64, error) {
	if _, err := s.perks.FindPerk(ctx, perkID); err != nil {
		return 0, fmt.Errorf("perk %s: %w", perkID, err)
	}
	count, err := s.reader.CountRedemptionsForPerk(ctx, perkID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count perk redemptions", slog.String("perk_id", perkID))
		return 0, err
	}
	return count, nil
}

func (s *ledgerService) sumFor(ctx context.Context, holderKind domain.HolderKind, holderID string, kind domain.EntryKind, side portsrepo.EntrySide) (decimal.Decimal, error) {
	if _, err := s.holders.FindHolder(ctx, holderKind, holderID); err != nil {
		return decimal.Zero, fmt.Errorf("%s %s: %w", strings.ToLower(string(holderKind)), holderID, err)
	}
	total, err := s.reader.SumAmount(ctx, kind, side, holderID)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum ledger amounts",
			slog.String("holder_id", holderID), slog.String("kind", string(kind)))
		return decimal.Zero, err
	}
	return total, nil
}

func (s *ledgerService) single(ctx context.Context, entry domain.LedgerEntry) (*dto.TransactionView, error) {
	views, err := s.refs.views(ctx, []domain.LedgerEntry{entry})
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve transaction references", slog.Int64("entry_id", entry.ID))
		return nil, err
	}
	return &views[0], nil
}

func normalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
