package services

import (
	"strings"

	"github.com/google/uuid"
)

const couponSuffixLen = 8

// CouponCodeGenerator returns a fresh coupon code on every call.
type CouponCodeGenerator func() string

// NewCouponCodeGenerator builds codes of the form PREFIX-XXXXXXXX, where the
// suffix is the first eight hex digits of a random UUID, upper-cased.
// Codes are not checked against existing ones; the issuance index rejects a collision.
func NewCouponCodeGenerator(prefix string) CouponCodeGenerator {
	prefix = strings.ToUpper(prefix)
	return func() string {
		raw := strings.ReplaceAll(uuid.NewString(), "-", "")
		return prefix + "-" + strings.ToUpper(raw[:couponSuffixLen])
	}
}
