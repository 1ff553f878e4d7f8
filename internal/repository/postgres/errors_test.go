package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"opsconsole/internal/domain"
)

func TestWrapTxError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantConflict bool
	}{
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"wrapped by lock subtree", fmt.Errorf("lock subtree %q: %w", "projects", &pgconn.PgError{Code: "40001"}), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapTxError(tt.err)
			if errors.Is(got, domain.ErrTxConflict) != tt.wantConflict {
				t.Fatalf("wrapTxError(%v) conflict = %v, want %v", tt.err, !tt.wantConflict, tt.wantConflict)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("wrapTxError(%v) lost the original error", tt.err)
			}
		})
	}

	if wrapTxError(nil) != nil {
		t.Error("wrapTxError(nil) should be nil")
	}

	once := wrapTxError(&pgconn.PgError{Code: "40001"})
	if twice := wrapTxError(once); twice != once {
		t.Error("an already marked error should not be wrapped again")
	}
}
