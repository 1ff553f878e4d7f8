package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"opsconsole/internal/domain/repositories"
)

// TransactionManager implements the TransactionManager interface
type TransactionManager struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(config *RepositoryConfig) repositories.TransactionManager {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionManager{pool: config.Pool, logger: logger}
}

// ExecTx executes a function within a transaction. Subtree rewrites use
// repeatable-read isolation so a concurrent move cannot slip in between the
// descendant read and the path rewrite. A call made with a transaction
// already in the context joins it. A serialization failure or deadlock is
// returned as *domain.TxConflictError.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if repositories.GetTx(ctx) != nil {
		return fn(ctx)
	}

	tx, err := tm.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	// Defer rollback - safe even if commit succeeds
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			tm.logger.Warn("rollback failed", "error", err)
		}
	}()

	txCtx := repositories.SetTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		return wrapTxError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return wrapTxError(fmt.Errorf("commit transaction: %w", err))
	}

	return nil
}
