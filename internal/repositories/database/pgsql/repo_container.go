package pgsql

import (
	portsrepo "github.com/SscSPs/campus_coin_ledger/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool PgxPool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LedgerRepo:    newPgxLedgerRepository(dbPool),
		HolderRepo:    newPgxHolderRepository(dbPool),
		DirectoryRepo: newPgxDirectoryRepository(dbPool),
	}
}
