package services

import "context"

// CouponSvc covers coupon artifacts that live outside the ledger itself.
type CouponSvc interface {
	// CouponQRCode renders the PNG QR code of an issued coupon.
	CouponQRCode(ctx context.Context, code string) ([]byte, error)
	// ResendCoupon queues the coupon email again for its current owner.
	ResendCoupon(ctx context.Context, code string) error
}
