package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/SscSPs/campus_coin_ledger/internal/apperrors"
	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/campus_coin_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/campus_coin_ledger/internal/core/ports/services"
	"github.com/SscSPs/campus_coin_ledger/internal/dto"
	"github.com/SscSPs/campus_coin_ledger/internal/platform/metrics"
	"github.com/shopspring/decimal"
)

const (
	opSendCoins      = "send_coins"
	opRedeemPerk     = "redeem_perk"
	opTransferCoupon = "transfer_coupon"
	opSemesterCredit = "semester_credit"
)

// DefaultSemesterCredit is the allowance granted to every professor per semester.
var DefaultSemesterCredit = decimal.RequireFromString("1000.00")

type transferService struct {
	BaseService
	ledger       portsrepo.LedgerUnitOfWork
	holders      portsrepo.HolderReader
	refs         *viewResolver
	notify       notificationComposer
	newCode      CouponCodeGenerator
	creditAmount decimal.Decimal
}

// TransferServiceOption configures optional collaborators of the transfer service.
type TransferServiceOption func(*transferService)

func WithCouponCodeGenerator(gen CouponCodeGenerator) TransferServiceOption {
	return func(s *transferService) { s.newCode = gen }
}

func WithSemesterCreditAmount(amount decimal.Decimal) TransferServiceOption {
	return func(s *transferService) { s.creditAmount = amount }
}

func WithNotificationQueue(queue portssvc.NotificationQueue) TransferServiceOption {
	return func(s *transferService) { s.notify.queue = queue }
}

func WithCouponRenderer(renderer portssvc.CouponImageRenderer) TransferServiceOption {
	return func(s *transferService) { s.notify.renderer = renderer }
}

// NewTransferService creates the service that owns every balance mutation.
func NewTransferService(
	ledger portsrepo.LedgerUnitOfWork,
	holders portsrepo.HolderReader,
	directory portsrepo.DirectoryRepositoryFacade,
	opts ...TransferServiceOption,
) portssvc.TransferSvc {
	s := &transferService{
		ledger:       ledger,
		holders:      holders,
		refs:         &viewResolver{directory: directory},
		newCode:      NewCouponCodeGenerator("CUP"),
		creditAmount: DefaultSemesterCredit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendCoins moves amount from a professor to a student and records a COIN_GRANT.
func (s *transferService) SendCoins(ctx context.Context, professorID, studentID string, amount decimal.Decimal, memo string) (_ *dto.TransactionView, err error) {
	defer func() { metrics.ObserveOperation(opSendCoins, err) }()

	memo = strings.TrimSpace(memo)
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}
	if memo == "" {
		return nil, fmt.Errorf("%w: memo is required", apperrors.ErrValidation)
	}

	var entry *domain.LedgerEntry
	err = s.ledger.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		// Professor before student, always, so concurrent grants lock in the same order.
		professor, err := tx.LockHolder(ctx, domain.HolderProfessor, professorID)
		if err != nil {
			return fmt.Errorf("professor %s: %w", professorID, err)
		}
		student, err := tx.LockHolder(ctx, domain.HolderStudent, studentID)
		if err != nil {
			return fmt.Errorf("student %s: %w", studentID, err)
		}

		if err := professor.Debit(amount); err != nil {
			return err
		}
		student.Credit(amount)

		if err := tx.UpdateHolderBalance(ctx, *professor); err != nil {
			return err
		}
		if err := tx.UpdateHolderBalance(ctx, *student); err != nil {
			return err
		}

		pending := domain.NewCoinGrant(professorID, studentID, amount, memo)
		if err := pending.Validate(); err != nil {
			return err
		}
		entry, err = tx.AppendEntry(ctx, pending)
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Send coins failed", slog.String("professor_id", professorID), slog.String("student_id", studentID))
		return nil, err
	}

	refs := s.committed(ctx, *entry)
	s.notify.coinGrant(ctx, *entry, refs)
	view := dto.ToTransactionView(*entry, refs)
	return &view, nil
}

// RedeemPerk debits the perk price from a student and issues a new coupon.
func (s *transferService) RedeemPerk(ctx context.Context, studentID, perkID string) (_ *dto.TransactionView, err error) {
	defer func() { metrics.ObserveOperation(opRedeemPerk, err) }()

	var entry *domain.LedgerEntry
	err = s.ledger.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		perk, err := tx.LockPerk(ctx, perkID)
		if err != nil {
			return fmt.Errorf("perk %s: %w", perkID, err)
		}
		if !perk.Active {
			return fmt.Errorf("perk %s: %w", perkID, apperrors.ErrInactivePerk)
		}

		student, err := tx.LockHolder(ctx, domain.HolderStudent, studentID)
		if err != nil {
			return fmt.Errorf("student %s: %w", studentID, err)
		}
		if err := student.Debit(perk.Price); err != nil {
			return err
		}
		if err := tx.UpdateHolderBalance(ctx, *student); err != nil {
			return err
		}

		pending := domain.NewPerkRedemption(studentID, *perk, s.newCode())
		if err := pending.Validate(); err != nil {
			return err
		}
		entry, err = tx.AppendEntry(ctx, pending)
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Redeem perk failed", slog.String("student_id", studentID), slog.String("perk_id", perkID))
		return nil, err
	}

	refs := s.committed(ctx, *entry)
	s.notify.coupon(ctx, *entry, refs)
	view := dto.ToTransactionView(*entry, refs)
	return &view, nil
}

// TransferCoupon hands a coupon from its current owner to another student.
func (s *transferService) TransferCoupon(ctx context.Context, couponCode, fromStudentID, toStudentID string) (_ *dto.TransactionView, err error) {
	defer func() { metrics.ObserveOperation(opTransferCoupon, err) }()

	couponCode = normalizeCouponCode(couponCode)
	if couponCode == "" {
		return nil, fmt.Errorf("%w: coupon code is required", apperrors.ErrValidation)
	}
	if fromStudentID == toStudentID {
		return nil, fmt.Errorf("%w: cannot transfer a coupon to its current owner", apperrors.ErrValidation)
	}

	var entry *domain.LedgerEntry
	err = s.ledger.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		// Both students are locked in id order; holding the sender's row also
		// serialises concurrent transfers of the same coupon.
		ids := []string{fromStudentID, toStudentID}
		sort.Strings(ids)
		for _, id := range ids {
			if _, err := tx.LockHolder(ctx, domain.HolderStudent, id); err != nil {
				return fmt.Errorf("student %s: %w", id, err)
			}
		}

		latest, err := tx.FindLatestByCouponCode(ctx, couponCode)
		if err != nil {
			return fmt.Errorf("coupon %s: %w", couponCode, err)
		}
		if domain.CurrentOwner(*latest) != fromStudentID {
			return fmt.Errorf("%w: coupon %s is not held by %s", apperrors.ErrNotOwner, couponCode, fromStudentID)
		}

		pending := domain.NewCouponTransfer(*latest, fromStudentID, toStudentID)
		if err := pending.Validate(); err != nil {
			return err
		}
		entry, err = tx.AppendEntry(ctx, pending)
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Coupon transfer failed", slog.String("coupon_code", couponCode),
			slog.String("from_student_id", fromStudentID), slog.String("to_student_id", toStudentID))
		return nil, err
	}

	refs := s.committed(ctx, *entry)
	s.notify.coupon(ctx, *entry, refs)
	view := dto.ToTransactionView(*entry, refs)
	return &view, nil
}

// SemesterCredit credits every professor. Each professor is a separate unit of
// work; failures are collected and do not stop the batch. Not idempotent.
func (s *transferService) SemesterCredit(ctx context.Context) (*dto.SemesterCreditResult, error) {
	ids, err := s.holders.ListProfessorIDs(ctx)
	if err != nil {
		metrics.ObserveOperation(opSemesterCredit, err)
		s.LogError(ctx, err, "Failed to list professors for semester credit")
		return nil, err
	}

	result := &dto.SemesterCreditResult{Credited: []dto.TransactionView{}, Failed: []string{}}
	for _, id := range ids {
		view, err := s.SemesterCreditForProfessor(ctx, id)
		if err != nil {
			result.Failed = append(result.Failed, id)
			continue
		}
		result.Credited = append(result.Credited, *view)
	}

	s.LogInfo(ctx, "Semester credit batch finished",
		slog.Int("credited", len(result.Credited)),
		slog.Int("failed", len(result.Failed)))
	return result, nil
}

// SemesterCreditForProfessor grants the semester allowance to one professor.
func (s *transferService) SemesterCreditForProfessor(ctx context.Context, professorID string) (_ *dto.TransactionView, err error) {
	defer func() { metrics.ObserveOperation(opSemesterCredit, err) }()

	var entry *domain.LedgerEntry
	err = s.ledger.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		professor, err := tx.LockHolder(ctx, domain.HolderProfessor, professorID)
		if err != nil {
			return fmt.Errorf("professor %s: %w", professorID, err)
		}
		professor.Credit(s.creditAmount)
		if err := tx.UpdateHolderBalance(ctx, *professor); err != nil {
			return err
		}

		pending := domain.NewSemesterCredit(professorID, s.creditAmount)
		if err := pending.Validate(); err != nil {
			return err
		}
		entry, err = tx.AppendEntry(ctx, pending)
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Semester credit failed", slog.String("professor_id", professorID))
		return nil, err
	}

	refs := s.committed(ctx, *entry)
	s.notify.semesterCredit(ctx, *entry, refs)
	view := dto.ToTransactionView(*entry, refs)
	return &view, nil
}

// committed audits a committed entry and resolves its references for the response.
func (s *transferService) committed(ctx context.Context, entry domain.LedgerEntry) dto.ViewRefs {
	attrs := []any{
		slog.Int64("entry_id", entry.ID),
		slog.String("kind", string(entry.Kind)),
		slog.String("amount", entry.Amount.StringFixed(domain.MoneyScale)),
	}
	if entry.CouponCode != nil {
		attrs = append(attrs, slog.String("coupon_code", *entry.CouponCode))
	}
	s.LogInfo(ctx, "Ledger entry recorded", attrs...)
	metrics.AddCoins(string(entry.Kind), entry.Amount.InexactFloat64())

	return s.refs.resolveCommitted(ctx, entry)
}

// logFailure logs client-side rejections at warn and everything else at error.
func (s *transferService) logFailure(ctx context.Context, err error, msg string, attrs ...any) {
	if apperrors.IsClientError(err) {
		s.GetLogger(ctx).Warn(msg, append([]any{slog.String("error", err.Error())}, attrs...)...)
		return
	}
	s.LogError(ctx, err, msg, attrs...)
}
