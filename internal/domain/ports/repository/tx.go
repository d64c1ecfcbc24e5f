package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque transaction/executor handle threaded through repository
// calls. Concrete repos type-switch on it; nil means "use the pool".
type Tx = any

// TransactionManager begins a transaction, invokes the callback with the tx
// handle, and commits or rolls back depending on the callback's error.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
