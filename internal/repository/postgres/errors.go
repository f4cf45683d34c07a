package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsPgUndefinedTableError checks if error is caused by a missing table
func IsPgUndefinedTableError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 42P01 = undefined_table
		return pgErr.Code == "42P01"
	}
	return false
}

// IsPgNotNullError checks if error is a not-null constraint violation
func IsPgNotNullError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23502 = not_null_violation
		return pgErr.Code == "23502"
	}
	return false
}

// WrapPgError adds the operation and, for server errors, the SQLSTATE code.
func WrapPgError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case IsPgUndefinedTableError(err):
			return fmt.Errorf("%s: table missing, run schema bootstrap (%s): %w", op, pgErr.Code, err)
		case IsPgNotNullError(err):
			return fmt.Errorf("%s: column %s is required (%s): %w", op, pgErr.ColumnName, pgErr.Code, err)
		}
		return fmt.Errorf("%s (%s): %w", op, pgErr.Code, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
