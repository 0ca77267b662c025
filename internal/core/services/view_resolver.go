package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/campus_coin_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/campus_coin_ledger/internal/dto"
	"github.com/SscSPs/campus_coin_ledger/internal/middleware"
)

// viewResolver batch-loads the names referenced by ledger entries.
type viewResolver struct {
	directory portsrepo.DirectoryRepositoryFacade
}

func (r *viewResolver) resolve(ctx context.Context, entries []domain.LedgerEntry) (dto.ViewRefs, error) {
	holderSet := map[string]struct{}{}
	perkSet := map[string]struct{}{}
	for _, e := range entries {
		for _, id := range []*string{e.SenderID, e.RecipientID} {
			if id != nil {
				holderSet[*id] = struct{}{}
			}
		}
		if e.PerkID != nil {
			perkSet[*e.PerkID] = struct{}{}
		}
	}

	identities, err := r.directory.FindIdentitiesByHolderIDs(ctx, keys(holderSet))
	if err != nil {
		return dto.ViewRefs{}, err
	}
	perks, err := r.directory.FindPerksByIDs(ctx, keys(perkSet))
	if err != nil {
		return dto.ViewRefs{}, err
	}
	return dto.ViewRefs{Identities: identities, Perks: perks}, nil
}

func (r *viewResolver) views(ctx context.Context, entries []domain.LedgerEntry) ([]dto.TransactionView, error) {
	refs, err := r.resolve(ctx, entries)
	if err != nil {
		return nil, err
	}
	return dto.ToTransactionViews(entries, refs), nil
}

// resolveCommitted is used after a mutation has committed: a lookup failure
// must not turn a successful operation into an error, so names are left empty.
func (r *viewResolver) resolveCommitted(ctx context.Context, entry domain.LedgerEntry) dto.ViewRefs {
	refs, err := r.resolve(ctx, []domain.LedgerEntry{entry})
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to resolve names for committed entry",
			slog.Int64("entry_id", entry.ID), slog.String("error", err.Error()))
		return dto.ViewRefs{}
	}
	return refs
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
