package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager runs a unit of work against the database.
type TransactionManager interface {
	// InTx runs fn inside one transaction. The transaction commits only when fn
	// returns nil and is rolled back on any error, panic or cancelled context.
	InTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}
