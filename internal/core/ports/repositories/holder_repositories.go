package repositories

import (
	"context"

	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
)

// HolderReader reads balance holders outside of a unit of work.
type HolderReader interface {
	FindHolder(ctx context.Context, kind domain.HolderKind, holderID string) (*domain.BalanceHolder, error)
	// ResolveHolder finds a holder of either kind.
	ResolveHolder(ctx context.Context, holderID string) (*domain.BalanceHolder, error)
	ListProfessorIDs(ctx context.Context) ([]string, error)
}
