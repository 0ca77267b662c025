package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/campus_coin_ledger/internal/apperrors"
	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/campus_coin_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/campus_coin_ledger/internal/core/ports/services"
)

type couponService struct {
	BaseService
	reader   portsrepo.LedgerReader
	refs     *viewResolver
	renderer portssvc.CouponImageRenderer
	notify   notificationComposer
}

// NewCouponService creates the service serving coupon QR codes and re-sends.
func NewCouponService(
	reader portsrepo.LedgerReader,
	directory portsrepo.DirectoryRepositoryFacade,
	renderer portssvc.CouponImageRenderer,
	queue portssvc.NotificationQueue,
) portssvc.CouponSvc {
	return &couponService{
		reader:   reader,
		refs:     &viewResolver{directory: directory},
		renderer: renderer,
		notify:   notificationComposer{queue: queue, renderer: renderer},
	}
}

// CouponQRCode renders the QR code of an issued coupon.
func (s *couponService) CouponQRCode(ctx context.Context, code string) ([]byte, error) {
	code = normalizeCouponCode(code)
	if _, err := s.reader.FindIssuanceByCouponCode(ctx, code); err != nil {
		return nil, fmt.Errorf("coupon %s: %w", code, err)
	}
	if s.renderer == nil {
		return nil, apperrors.NewAppError(500, "coupon rendering is not configured", nil)
	}

	png, err := s.renderer.RenderCoupon(code)
	if err != nil {
		s.LogError(ctx, err, "Failed to render coupon QR code", slog.String("coupon_code", code))
		return nil, apperrors.NewAppError(500, "failed to render coupon", err)
	}
	return png, nil
}

// ResendCoupon queues the coupon email for whoever holds the coupon now.
func (s *couponService) ResendCoupon(ctx context.Context, code string) error {
	code = normalizeCouponCode(code)
	entries, err := s.reader.ListEntriesByCouponCode(ctx, code)
	if err != nil {
		s.LogError(ctx, err, "Failed to list coupon history", slog.String("coupon_code", code))
		return err
	}
	latest, ok := domain.LatestEntry(entries)
	if !ok {
		return fmt.Errorf("coupon %s: %w", code, apperrors.ErrNotFound)
	}

	refs, err := s.refs.resolve(ctx, []domain.LedgerEntry{latest})
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve coupon owner", slog.String("coupon_code", code))
		return err
	}
	owner := refs.Identities[domain.CurrentOwner(latest)]
	if owner.Email == "" {
		return fmt.Errorf("%w: current owner of coupon %s has no email address", apperrors.ErrValidation, code)
	}
	if s.notify.queue == nil {
		return apperrors.NewAppError(500, "notifications are not configured", nil)
	}

	msg := s.notify.couponOwnerMessage(ctx, code, perkOf(refs, latest), owner)
	if !s.notify.queue.Enqueue(ctx, msg) {
		return fmt.Errorf("coupon %s: notification queue is full: %w", code, apperrors.ErrInternal)
	}
	s.LogInfo(ctx, "Coupon notification queued", slog.String("coupon_code", code), slog.String("owner_id", owner.ID))
	return nil
}
