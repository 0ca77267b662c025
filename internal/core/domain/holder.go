package domain

import (
	"fmt"

	"github.com/SscSPs/campus_coin_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// HolderKind distinguishes the two balance-carrying account variants.
type HolderKind string

const (
	HolderProfessor HolderKind = "PROFESSOR"
	HolderStudent   HolderKind = "STUDENT"
)

// MoneyScale is the number of fractional digits a coin amount may carry.
const MoneyScale = 2

// BalanceHolder is a professor or student account carrying a coin balance.
// Balance never goes below zero; Debit refuses instead.
type BalanceHolder struct {
	ID      string          `json:"id"`
	Kind    HolderKind      `json:"kind"`
	Balance decimal.Decimal `json:"balance"`
}

// Debit subtracts amount from the balance. It fails with ErrInsufficientBalance,
// leaving the holder untouched, when the result would be negative.
func (h *BalanceHolder) Debit(amount decimal.Decimal) error {
	if h.Balance.LessThan(amount) {
		return fmt.Errorf("%w: current balance is %s", apperrors.ErrInsufficientBalance, h.Balance.StringFixed(MoneyScale))
	}
	h.Balance = h.Balance.Sub(amount)
	return nil
}

// Credit adds amount to the balance.
func (h *BalanceHolder) Credit(amount decimal.Decimal) {
	h.Balance = h.Balance.Add(amount)
}

// ValidateAmount checks that amount is strictly positive and has at most two
// fractional digits.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	}
	if !amount.Equal(amount.Truncate(MoneyScale)) {
		return fmt.Errorf("%w: amount must have at most %d decimal places", apperrors.ErrValidation, MoneyScale)
	}
	return nil
}
