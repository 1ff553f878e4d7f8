package docstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsconsole/internal/domain"
	"opsconsole/internal/domain/repositories"
)

// abortingTx aborts the first n transactions the way a database does when a
// concurrent writer wins a serialization race.
type abortingTx struct {
	inner repositories.TransactionManager
	n     int
	calls int
}

func (a *abortingTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	a.calls++
	if a.calls <= a.n {
		return &domain.TxConflictError{Err: fmt.Errorf("could not serialize access (attempt %d)", a.calls)}
	}
	return a.inner.ExecTx(ctx, fn)
}

func TestSubtreeGuardRetriesTxConflicts(t *testing.T) {
	tests := []struct {
		name      string
		aborts    int
		wantCalls int
		wantErr   error
	}{
		{"no conflict", 0, 1, nil},
		{"one conflict then success", 1, 2, nil},
		{"conflicts on every attempt", maxLockAttempts, maxLockAttempts, domain.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.projects()
			tx := &abortingTx{inner: f.store.TxManager(), n: tt.aborts}
			guard := newSubtreeGuard(f.store.Folders(), tx, NewPathLocker(), slog.New(slog.NewTextHandler(io.Discard, nil)))

			ran := 0
			err := guard.run(f.ctx, []string{"2024"}, func(ctx context.Context) error {
				ran++
				return nil
			})

			assert.Equal(t, tt.wantCalls, tx.calls)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Zero(t, ran)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, ran)
		})
	}
}

func TestSubtreeGuardDoesNotRetryOtherErrors(t *testing.T) {
	f := newFixture(t)
	f.projects()
	tx := &abortingTx{inner: f.store.TxManager()}
	guard := newSubtreeGuard(f.store.Folders(), tx, NewPathLocker(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := guard.run(f.ctx, []string{"2024"}, func(ctx context.Context) error {
		return domain.NewValidation("bad name")
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, 1, tx.calls)
}
