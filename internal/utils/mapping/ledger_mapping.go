package mapping

import (
	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
	"github.com/SscSPs/campus_coin_ledger/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		ID:          d.ID,
		Kind:        string(d.Kind),
		Amount:      d.Amount,
		Memo:        d.Memo,
		SenderID:    d.SenderID,
		RecipientID: d.RecipientID,
		PerkID:      d.PerkID,
		CouponCode:  d.CouponCode,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		ID:          m.ID,
		Kind:        domain.EntryKind(m.Kind),
		Amount:      m.Amount,
		Memo:        m.Memo,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		PerkID:      m.PerkID,
		CouponCode:  m.CouponCode,
		CreatedAt:   m.CreatedAt,
	}
}

// ToDomainLedgerEntrySlice converts a slice of model entries to domain entries
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
