package repositories

import (
	"context"

	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
)

// IdentityLookup resolves holders to the user behind them.
type IdentityLookup interface {
	// FindIdentitiesByHolderIDs returns the identities it could resolve, keyed by holder id.
	FindIdentitiesByHolderIDs(ctx context.Context, holderIDs []string) (map[string]domain.Identity, error)
}

// PerkLookup reads the perk catalog.
type PerkLookup interface {
	FindPerk(ctx context.Context, perkID string) (*domain.Perk, error)
	FindPerksByIDs(ctx context.Context, perkIDs []string) (map[string]domain.Perk, error)
}

// DirectoryRepositoryFacade covers every catalog lookup the ledger needs.
type DirectoryRepositoryFacade interface {
	IdentityLookup
	PerkLookup
}
