package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry mirrors a row of ledger_entries. Nullable columns are pointers.
type LedgerEntry struct {
	ID          int64           `json:"id"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Memo        string          `json:"memo"`
	SenderID    *string         `json:"senderId"`
	RecipientID *string         `json:"recipientId"`
	PerkID      *string         `json:"perkId"`
	CouponCode  *string         `json:"couponCode"`
	CreatedAt   time.Time       `json:"createdAt"`
}
