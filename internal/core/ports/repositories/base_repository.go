package repositories

import (
	"context"
)

// TxFunc is run inside a store transaction. The repositories it receives are bound to
// that transaction; returning an error rolls everything back.
type TxFunc func(ctx context.Context, repos RepositoryProvider) error

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// WithTx runs fn in a single store transaction and commits when fn returns nil.
	// A cancelled context before commit discards the work.
	WithTx(ctx context.Context, fn TxFunc) error
}
