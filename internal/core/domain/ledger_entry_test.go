package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/campus_coin_ledger/internal/apperrors"
	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func stringPtr(s string) *string { return &s }

func TestLedgerEntry_Validate(t *testing.T) {
	coffee := domain.Perk{ID: "perk-1", Name: "Coffee", Price: decimal.RequireFromString("15.00"), Active: true}
	redemption := domain.NewPerkRedemption("s1", coffee, "CUP-ABCD1234")

	tests := []struct {
		name    string
		entry   domain.LedgerEntry
		wantErr bool
	}{
		{name: "coin grant", entry: domain.NewCoinGrant("p1", "s1", decimal.RequireFromString("50"), "participation")},
		{name: "coin grant without memo", entry: domain.NewCoinGrant("p1", "s1", decimal.RequireFromString("50"), "  "), wantErr: true},
		{name: "coin grant with zero amount", entry: domain.NewCoinGrant("p1", "s1", decimal.Zero, "memo"), wantErr: true},
		{name: "perk redemption", entry: redemption},
		{name: "semester credit", entry: domain.NewSemesterCredit("p1", decimal.RequireFromString("1000.00"))},
		{
			name: "semester credit with sender",
			entry: domain.LedgerEntry{
				Kind: domain.KindSemesterCredit, Amount: decimal.RequireFromString("1000"),
				SenderID: stringPtr("p2"), RecipientID: stringPtr("p1"),
			},
			wantErr: true,
		},
		{name: "coupon transfer", entry: domain.NewCouponTransfer(redemption, "s1", "s2")},
		{
			name: "coupon transfer carrying value",
			entry: domain.LedgerEntry{
				Kind: domain.KindCouponTransfer, Amount: decimal.RequireFromString("1"),
				SenderID: stringPtr("s1"), RecipientID: stringPtr("s2"), PerkID: stringPtr("perk-1"), CouponCode: stringPtr("CUP-ABCD1234"),
			},
			wantErr: true,
		},
		{name: "negative amount", entry: domain.LedgerEntry{Kind: domain.KindCoinGrant, Amount: decimal.RequireFromString("-1")}, wantErr: true},
		{name: "unknown kind", entry: domain.LedgerEntry{Kind: "REFUND", Amount: decimal.RequireFromString("1")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewCouponTransfer_InheritsChain(t *testing.T) {
	perk := domain.Perk{ID: "perk-1", Name: "Coffee", Price: decimal.RequireFromString("15.00")}
	issued := domain.NewPerkRedemption("s1", perk, "CUP-ABCD1234")

	moved := domain.NewCouponTransfer(issued, "s1", "s2")

	assert.Equal(t, domain.KindCouponTransfer, moved.Kind)
	assert.True(t, moved.Amount.IsZero())
	assert.Equal(t, "perk-1", *moved.PerkID)
	assert.Equal(t, "CUP-ABCD1234", *moved.CouponCode)
	assert.Equal(t, "s2", domain.CurrentOwner(moved))
}

func TestLatestEntry_TieBreaksOnID(t *testing.T) {
	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []domain.LedgerEntry{
		{ID: 7, CreatedAt: ts, RecipientID: stringPtr("s2")},
		{ID: 9, CreatedAt: ts, RecipientID: stringPtr("s3")},
		{ID: 3, CreatedAt: ts.Add(-time.Minute), RecipientID: stringPtr("s1")},
	}

	latest, ok := domain.LatestEntry(entries)
	assert.True(t, ok)
	assert.Equal(t, int64(9), latest.ID)
	assert.Equal(t, "s3", domain.CurrentOwner(latest))

	_, ok = domain.LatestEntry(nil)
	assert.False(t, ok)
}

func TestParseEntryKind(t *testing.T) {
	k, err := domain.ParseEntryKind("coin_grant")
	assert.NoError(t, err)
	assert.Equal(t, domain.KindCoinGrant, k)

	_, err = domain.ParseEntryKind("refund")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCouponCodeFormat(t *testing.T) {
	assert.True(t, domain.ValidCouponPrefix("CUP"))
	assert.True(t, domain.ValidCouponPrefix("ABCDEFGHIJKLMNOP"))
	assert.False(t, domain.ValidCouponPrefix(""))
	assert.False(t, domain.ValidCouponPrefix("CAMPUS_COIN"))
	assert.False(t, domain.ValidCouponPrefix("ABCDEFGHIJKLMNOPQ"))

	assert.True(t, domain.CouponCodePattern.MatchString("CUP-ABCD1234"))
	assert.True(t, domain.CouponCodePattern.MatchString("cup-abcd1234"))
	assert.False(t, domain.CouponCodePattern.MatchString("CUP-ABC"))
	assert.False(t, domain.CouponCodePattern.MatchString("CAMPUS_COIN-ABCD1234"))
}
