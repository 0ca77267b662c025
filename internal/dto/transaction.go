package dto

import (
	"time"

	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
)

// TransactionView is the external shape of a ledger entry with its references resolved.
type TransactionView struct {
	ID            int64            `json:"id"`
	Kind          domain.EntryKind `json:"kind"`
	Amount        string           `json:"amount"`
	Memo          string           `json:"memo"`
	Timestamp     time.Time        `json:"timestamp"`
	CouponCode    *string          `json:"couponCode,omitempty"`
	SenderID      *string          `json:"senderId,omitempty"`
	SenderName    *string          `json:"senderName,omitempty"`
	RecipientID   *string          `json:"recipientId,omitempty"`
	RecipientName *string          `json:"recipientName,omitempty"`
	PerkID        *string          `json:"perkId,omitempty"`
	PerkName      *string          `json:"perkName,omitempty"`
	CompanyName   *string          `json:"companyName,omitempty"`
}

// ViewRefs carries the references resolved for a batch of entries.
// Missing keys simply leave the corresponding names unset.
type ViewRefs struct {
	Identities map[string]domain.Identity
	Perks      map[string]domain.Perk
}

// ToTransactionView maps an entry to its view. Which optional fields are set
// depends only on the entry kind.
func ToTransactionView(e domain.LedgerEntry, refs ViewRefs) TransactionView {
	v := TransactionView{
		ID:        e.ID,
		Kind:      e.Kind,
		Amount:    e.Amount.StringFixed(domain.MoneyScale),
		Memo:      e.Memo,
		Timestamp: e.CreatedAt,
	}

	withSender := func() {
		v.SenderID = copyString(e.SenderID)
		v.SenderName = refs.displayName(e.SenderID)
	}
	withRecipient := func() {
		v.RecipientID = copyString(e.RecipientID)
		v.RecipientName = refs.displayName(e.RecipientID)
	}
	withCoupon := func() {
		v.CouponCode = copyString(e.CouponCode)
		v.PerkID = copyString(e.PerkID)
		if e.PerkID == nil {
			return
		}
		if p, ok := refs.Perks[*e.PerkID]; ok {
			v.PerkName = &p.Name
			v.CompanyName = &p.CompanyName
		}
	}

	switch e.Kind {
	case domain.KindCoinGrant:
		withSender()
		withRecipient()
	case domain.KindPerkRedemption:
		withRecipient()
		withCoupon()
	case domain.KindSemesterCredit:
		withRecipient()
	case domain.KindCouponTransfer:
		withSender()
		withRecipient()
		withCoupon()
	}
	return v
}

// ToTransactionViews maps a slice of entries, preserving order.
func ToTransactionViews(entries []domain.LedgerEntry, refs ViewRefs) []TransactionView {
	views := make([]TransactionView, len(entries))
	for i, e := range entries {
		views[i] = ToTransactionView(e, refs)
	}
	return views
}

func (r ViewRefs) displayName(holderID *string) *string {
	if holderID == nil {
		return nil
	}
	ident, ok := r.Identities[*holderID]
	if !ok {
		return nil
	}
	name := ident.DisplayName
	return &name
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// SemesterCreditResult reports a semester credit batch. Failed lists the
// professor ids whose credit did not commit.
type SemesterCreditResult struct {
	Credited []TransactionView `json:"credited"`
	Failed   []string          `json:"failed"`
}

// ListTransactionsParams defines the filters for listing ledger entries.
type ListTransactionsParams struct {
	Kind      *domain.EntryKind
	From      *time.Time
	To        *time.Time
	Limit     int
	NextToken *string
}

// ListTransactionsResponse is one page of ledger entries.
type ListTransactionsResponse struct {
	Transactions []TransactionView `json:"transactions"`
	NextToken    *string           `json:"nextToken,omitempty"`
}

// ListTransactionsQuery is the query string of the transaction listing.
type ListTransactionsQuery struct {
	Kind      string     `form:"kind"`
	From      *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To        *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit     int        `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string    `form:"nextToken"`
}

// TimeRangeQuery is an optional inclusive time range.
type TimeRangeQuery struct {
	From *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To   *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

// RecentQuery is the query string of the recent transactions listing.
type RecentQuery struct {
	N int `form:"n"`
}
