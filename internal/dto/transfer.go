package dto

import "github.com/shopspring/decimal"

// SendCoinsRequest is the body of a coin grant. The sender is the authenticated professor.
type SendCoinsRequest struct {
	RecipientID string          `json:"recipientId" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required,money" swaggertype:"string" example:"50.00"`
	Memo        string          `json:"memo" binding:"required"`
}

// RedeemPerkRequest is the body of a perk redemption. The student is the authenticated user.
type RedeemPerkRequest struct {
	PerkID string `json:"perkId" binding:"required"`
}

// TransferCouponRequest is the body of a coupon transfer. The sender is the authenticated student.
type TransferCouponRequest struct {
	ToStudentID string `json:"toStudentId" binding:"required"`
}

// CouponCodeURI binds the coupon code path parameter.
type CouponCodeURI struct {
	Code string `uri:"code" binding:"required,couponcode"`
}
