package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager groups multiple repository writes into one atomic unit.
// The in-memory implementation is a pass-through; callers must still hold
// the owner lock for mutual exclusion.
type TransactionManager interface {
	// ExecTx executes a function within a transaction
	ExecTx(ctx context.Context, fn TxFn) error
}
