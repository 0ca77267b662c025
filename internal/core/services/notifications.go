package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/campus_coin_ledger/internal/core/ports/services"
	"github.com/SscSPs/campus_coin_ledger/internal/dto"
	"github.com/SscSPs/campus_coin_ledger/internal/middleware"
)

// notificationComposer builds messages for committed entries and hands them to
// the queue. Nothing here can fail the caller.
type notificationComposer struct {
	queue    portssvc.NotificationQueue
	renderer portssvc.CouponImageRenderer
}

func (n notificationComposer) send(ctx context.Context, msgs ...domain.Notification) {
	if n.queue == nil {
		return
	}
	for _, msg := range msgs {
		if msg.To == "" {
			middleware.GetLoggerFromCtx(ctx).Warn("Skipping notification without recipient address", slog.String("subject", msg.Subject))
			continue
		}
		n.queue.Enqueue(ctx, msg)
	}
}

// couponImage renders the QR code, returning nil on failure so the message goes out without it.
func (n notificationComposer) couponImage(ctx context.Context, code string) []byte {
	if n.renderer == nil {
		return nil
	}
	img, err := n.renderer.RenderCoupon(code)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to render coupon QR code", slog.String("coupon_code", code), slog.String("error", err.Error()))
		return nil
	}
	return img
}

func identityOf(refs dto.ViewRefs, holderID *string) domain.Identity {
	if holderID == nil {
		return domain.Identity{}
	}
	return refs.Identities[*holderID]
}

func perkOf(refs dto.ViewRefs, e domain.LedgerEntry) domain.Perk {
	if e.PerkID == nil {
		return domain.Perk{}
	}
	return refs.Perks[*e.PerkID]
}

func nameOr(ident domain.Identity, fallback string) string {
	if ident.DisplayName != "" {
		return ident.DisplayName
	}
	return fallback
}

func (n notificationComposer) coinGrant(ctx context.Context, e domain.LedgerEntry, refs dto.ViewRefs) {
	professor := identityOf(refs, e.SenderID)
	student := identityOf(refs, e.RecipientID)
	amount := e.Amount.StringFixed(domain.MoneyScale)

	n.send(ctx,
		domain.Notification{
			To:      professor.Email,
			Subject: "Coins sent",
			Body:    fmt.Sprintf("You sent %s coins to %s.\nReason: %s", amount, nameOr(student, *e.RecipientID), e.Memo),
		},
		domain.Notification{
			To:      student.Email,
			Subject: "You received coins",
			Body:    fmt.Sprintf("%s sent you %s coins.\nReason: %s", nameOr(professor, *e.SenderID), amount, e.Memo),
		},
	)
}

// coupon notifies the coupon's owner (with the QR code) and the issuing company.
func (n notificationComposer) coupon(ctx context.Context, e domain.LedgerEntry, refs dto.ViewRefs) {
	if e.CouponCode == nil {
		return
	}
	code := *e.CouponCode
	owner := identityOf(refs, e.RecipientID)
	perk := perkOf(refs, e)

	ownerMsg := n.couponOwnerMessage(ctx, code, perk, owner)
	var companyBody string
	if e.Kind == domain.KindCouponTransfer {
		companyBody = fmt.Sprintf("Coupon %s for %q was transferred to %s.", code, perk.Name, nameOr(owner, *e.RecipientID))
	} else {
		companyBody = fmt.Sprintf("Coupon %s for %q was issued to %s.", code, perk.Name, nameOr(owner, *e.RecipientID))
	}

	n.send(ctx, ownerMsg, domain.Notification{
		To:      perk.CompanyEmail,
		Subject: "Coupon " + code,
		Body:    companyBody,
	})
}

func (n notificationComposer) couponOwnerMessage(ctx context.Context, code string, perk domain.Perk, owner domain.Identity) domain.Notification {
	return domain.Notification{
		To:          owner.Email,
		Subject:     "Your coupon " + code,
		Body:        fmt.Sprintf("Hello %s,\nyour coupon for %q is %s. Present the attached QR code at %s.", owner.DisplayName, perk.Name, code, perk.CompanyName),
		InlineImage: n.couponImage(ctx, code),
	}
}

func (n notificationComposer) semesterCredit(ctx context.Context, e domain.LedgerEntry, refs dto.ViewRefs) {
	professor := identityOf(refs, e.RecipientID)
	n.send(ctx, domain.Notification{
		To:      professor.Email,
		Subject: "Semester credit",
		Body:    fmt.Sprintf("%s coins were added to your balance for the new semester.", e.Amount.StringFixed(domain.MoneyScale)),
	})
}
