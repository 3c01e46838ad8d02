package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/scry-deck/internal/store"
)

// PostgreSQL error codes
const (
	uniqueViolationCode   = "23505"
	checkViolationCode    = "23514"
	notNullViolationCode  = "23502"
	undefinedTableCode    = "42P01"
	invalidJSONTextCode   = "22P02"
)

// ErrSchemaMissing is returned when the deck tables do not exist yet.
var ErrSchemaMissing = errors.New("database schema is missing, run the migrate command")

// MapError maps a database error to the matching store error while keeping
// the original error in the chain.
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
		case checkViolationCode:
			return fmt.Errorf(
				"%w: check constraint violation (%s): %v",
				store.ErrInvalidEntity,
				pgErr.ConstraintName,
				err,
			)
		case notNullViolationCode:
			return fmt.Errorf(
				"%w: not null violation (%s): %v",
				store.ErrInvalidEntity,
				pgErr.ColumnName,
				err,
			)
		case invalidJSONTextCode:
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		case undefinedTableCode:
			return fmt.Errorf("%w: %v", ErrSchemaMissing, err)
		}
	}

	return err
}

// checkRowsAffected returns notFound when a statement touched no rows.
func checkRowsAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
