package services

import (
	"context"

	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
)

// Notifier delivers a single message. Errors are reported, never retried by callers.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// NotificationQueue accepts messages for asynchronous delivery. Enqueue never blocks
// and reports whether the message was accepted.
type NotificationQueue interface {
	Enqueue(ctx context.Context, n domain.Notification) bool
}

// CouponImageRenderer renders a coupon code as a PNG image.
type CouponImageRenderer interface {
	RenderCoupon(code string) ([]byte, error)
}
