package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"opsconsole/internal/domain"
)

// IsPgDuplicateError checks if error is a unique constraint violation
func IsPgDuplicateError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = unique_violation
		return pgErr.Code == "23505"
	}
	return false
}

// IsPgNoRowsError checks if error is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsPgForeignKeyError checks if error is a foreign key violation
func IsPgForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23503 = foreign_key_violation
		return pgErr.Code == "23503"
	}
	return false
}

// IsPgSerializationError checks if error aborted the transaction because of a
// concurrent write under repeatable-read or serializable isolation
func IsPgSerializationError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 40001 = serialization_failure, 40P01 = deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// wrapTxError marks retryable transaction aborts with domain.ErrTxConflict
func wrapTxError(err error) error {
	if err == nil || errors.Is(err, domain.ErrTxConflict) || !IsPgSerializationError(err) {
		return err
	}
	return &domain.TxConflictError{Err: err}
}

// escapeLike escapes LIKE wildcards so user input matches literally
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// ContainsPattern builds an ILIKE pattern matching s anywhere
func ContainsPattern(s string) string {
	return "%" + escapeLike(s) + "%"
}

// PrefixPattern builds a LIKE pattern matching descendants of a materialized path
func PrefixPattern(path string) string {
	return escapeLike(path) + "/%"
}
