package mapping

import (
	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
	"github.com/SscSPs/campus_coin_ledger/internal/models"
)

// ToDomainHolder converts a holder row of the given kind to a domain BalanceHolder
func ToDomainHolder(m models.Holder, kind domain.HolderKind) domain.BalanceHolder {
	return domain.BalanceHolder{
		ID:      m.ID,
		Kind:    kind,
		Balance: m.Balance,
	}
}

// ToDomainPerk converts a perk row to a domain Perk
func ToDomainPerk(m models.Perk) domain.Perk {
	return domain.Perk{
		ID:           m.ID,
		Name:         m.Name,
		Price:        m.Price,
		Active:       m.Active,
		CompanyID:    m.CompanyID,
		CompanyName:  m.CompanyName,
		CompanyEmail: m.CompanyEmail,
	}
}
