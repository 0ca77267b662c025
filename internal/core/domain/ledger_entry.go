package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/SscSPs/campus_coin_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// EntryKind identifies what a ledger entry records.
type EntryKind string

const (
	KindCoinGrant      EntryKind = "COIN_GRANT"      // professor -> student
	KindPerkRedemption EntryKind = "PERK_REDEMPTION" // student -> perk, issues a coupon
	KindSemesterCredit EntryKind = "SEMESTER_CREDIT" // system -> professor
	KindCouponTransfer EntryKind = "COUPON_TRANSFER" // student -> student, zero value
)

// Coupon codes are PREFIX-XXXXXXXX with a 1-16 character alphanumeric prefix.
var (
	CouponCodePattern   = regexp.MustCompile(`(?i)^[A-Z0-9]{1,16}-[A-Z0-9]{8}$`)
	couponPrefixPattern = regexp.MustCompile(`^[A-Z0-9]{1,16}$`)
)

// ValidCouponPrefix reports whether codes built from prefix match CouponCodePattern.
// prefix must already be upper-cased.
func ValidCouponPrefix(prefix string) bool {
	return couponPrefixPattern.MatchString(prefix)
}

// ParseEntryKind validates a kind supplied from outside.
func ParseEntryKind(s string) (EntryKind, error) {
	switch k := EntryKind(strings.ToUpper(strings.TrimSpace(s))); k {
	case KindCoinGrant, KindPerkRedemption, KindSemesterCredit, KindCouponTransfer:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown transaction kind %q", apperrors.ErrValidation, s)
}

// LedgerEntry is an immutable record of a balance- or coupon-affecting event.
// ID is assigned by storage in insertion order; CreatedAt is the primary ordering key.
//
// For PERK_REDEMPTION the redeeming student is stored as the recipient, since that
// entry establishes coupon ownership.
type LedgerEntry struct {
	ID          int64           `json:"id"`
	Kind        EntryKind       `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Memo        string          `json:"memo"`
	SenderID    *string         `json:"senderId,omitempty"`
	RecipientID *string         `json:"recipientId,omitempty"`
	PerkID      *string         `json:"perkId,omitempty"`
	CouponCode  *string         `json:"couponCode,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// NewCoinGrant builds a COIN_GRANT entry.
func NewCoinGrant(professorID, studentID string, amount decimal.Decimal, memo string) LedgerEntry {
	return LedgerEntry{
		Kind:        KindCoinGrant,
		Amount:      amount,
		Memo:        memo,
		SenderID:    &professorID,
		RecipientID: &studentID,
	}
}

// NewPerkRedemption builds a PERK_REDEMPTION entry issuing couponCode to the student.
func NewPerkRedemption(studentID string, perk Perk, couponCode string) LedgerEntry {
	return LedgerEntry{
		Kind:        KindPerkRedemption,
		Amount:      perk.Price,
		Memo:        "Redemption of perk: " + perk.Name,
		RecipientID: &studentID,
		PerkID:      &perk.ID,
		CouponCode:  &couponCode,
	}
}

// NewSemesterCredit builds a SEMESTER_CREDIT entry.
func NewSemesterCredit(professorID string, amount decimal.Decimal) LedgerEntry {
	return LedgerEntry{
		Kind:        KindSemesterCredit,
		Amount:      amount,
		Memo:        "Semester credit",
		RecipientID: &professorID,
	}
}

// NewCouponTransfer builds a COUPON_TRANSFER entry continuing the chain of previous.
func NewCouponTransfer(previous LedgerEntry, fromStudentID, toStudentID string) LedgerEntry {
	return LedgerEntry{
		Kind:        KindCouponTransfer,
		Amount:      decimal.Zero,
		Memo:        "Coupon transfer",
		SenderID:    &fromStudentID,
		RecipientID: &toStudentID,
		PerkID:      previous.PerkID,
		CouponCode:  previous.CouponCode,
	}
}

// Validate checks the field shape required by the entry's kind.
func (e LedgerEntry) Validate() error {
	if e.Amount.IsNegative() {
		return fmt.Errorf("%w: ledger amount cannot be negative", apperrors.ErrValidation)
	}
	if e.Kind == KindCouponTransfer {
		if !e.Amount.IsZero() {
			return fmt.Errorf("%w: coupon transfers carry no value", apperrors.ErrValidation)
		}
	} else if e.Amount.IsZero() {
		return fmt.Errorf("%w: %s requires a positive amount", apperrors.ErrValidation, e.Kind)
	}

	missing := func(field string) error {
		return fmt.Errorf("%w: %s requires %s", apperrors.ErrValidation, e.Kind, field)
	}
	switch e.Kind {
	case KindCoinGrant:
		if strings.TrimSpace(e.Memo) == "" {
			return missing("a memo")
		}
		if isBlank(e.SenderID) || isBlank(e.RecipientID) {
			return missing("sender and recipient")
		}
	case KindPerkRedemption:
		if isBlank(e.RecipientID) || isBlank(e.PerkID) || isBlank(e.CouponCode) {
			return missing("recipient, perk and coupon code")
		}
	case KindSemesterCredit:
		if e.SenderID != nil {
			return fmt.Errorf("%w: semester credit has no sender", apperrors.ErrValidation)
		}
		if isBlank(e.RecipientID) {
			return missing("a recipient")
		}
	case KindCouponTransfer:
		if isBlank(e.SenderID) || isBlank(e.RecipientID) || isBlank(e.PerkID) || isBlank(e.CouponCode) {
			return missing("sender, recipient, perk and coupon code")
		}
	default:
		return fmt.Errorf("%w: unknown transaction kind %q", apperrors.ErrValidation, e.Kind)
	}
	return nil
}

// After reports whether e was recorded after other: later CreatedAt wins and
// equal timestamps fall back to the higher id.
func (e LedgerEntry) After(other LedgerEntry) bool {
	if !e.CreatedAt.Equal(other.CreatedAt) {
		return e.CreatedAt.After(other.CreatedAt)
	}
	return e.ID > other.ID
}

// LatestEntry returns the most recent entry in entries.
func LatestEntry(entries []LedgerEntry) (LedgerEntry, bool) {
	if len(entries) == 0 {
		return LedgerEntry{}, false
	}
	latest := entries[0]
	for _, e := range entries[1:] {
		if e.After(latest) {
			latest = e
		}
	}
	return latest, true
}

// CurrentOwner is the holder of the coupon whose most recent entry is latest.
func CurrentOwner(latest LedgerEntry) string {
	if latest.RecipientID == nil {
		return ""
	}
	return *latest.RecipientID
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
