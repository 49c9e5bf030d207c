// Package postgres implements the store interfaces against PostgreSQL using
// the pgx driver in database/sql mode.
package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/logspool/logspool/internal/store"
)

// PostgreSQL error codes.
const (
	// uniqueViolationCode is the error code for unique constraint violations.
	uniqueViolationCode = "23505"

	// notNullViolationCode is the error code for not null violations.
	notNullViolationCode = "23502"

	// checkViolationCode is the error code for check constraint violations.
	checkViolationCode = "23514"
)

// MapError maps a database error to an appropriate store error. It wraps the
// original error to preserve context. Use in all database operations so
// callers never have to inspect driver-specific errors.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		case notNullViolationCode:
			return fmt.Errorf(
				"%w: not null violation (%s): %v",
				store.ErrInvalidEntity,
				pgErr.ColumnName,
				err,
			)
		case checkViolationCode:
			return fmt.Errorf(
				"%w: check constraint violation (%s): %v",
				store.ErrInvalidEntity,
				pgErr.ConstraintName,
				err,
			)
		}
	}

	return err
}

// IsUniqueViolation reports whether the error is a unique constraint
// violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
