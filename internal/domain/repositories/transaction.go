package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles metadata transactions.
// Subtree rewrites (move, rename, cascade delete) run inside ExecTx so that
// either every path/depth update lands or none does.
type TransactionManager interface {
	// ExecTx executes a function within a transaction
	ExecTx(ctx context.Context, fn TxFn) error
}
