package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/scry-deck/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "no rows", err: sql.ErrNoRows, wantErr: store.ErrNotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: uniqueViolationCode}, wantErr: store.ErrDuplicate},
		{name: "check violation", err: &pgconn.PgError{Code: checkViolationCode, ConstraintName: "deck_backups_card_count_check"}, wantErr: store.ErrInvalidEntity},
		{name: "not null violation", err: &pgconn.PgError{Code: notNullViolationCode, ColumnName: "document"}, wantErr: store.ErrInvalidEntity},
		{name: "invalid json", err: &pgconn.PgError{Code: invalidJSONTextCode}, wantErr: store.ErrInvalidEntity},
		{name: "undefined table", err: &pgconn.PgError{Code: undefinedTableCode}, wantErr: ErrSchemaMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapError(tt.err)
			assert.ErrorIs(t, mapped, tt.wantErr)
			assert.Contains(t, mapped.Error(), tt.err.Error())
		})
	}

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, MapError(nil))
	})

	t.Run("unmapped errors pass through", func(t *testing.T) {
		original := errors.New("network down")
		assert.Same(t, original, MapError(original))
	})
}

func TestCheckRowsAffected(t *testing.T) {
	notFound := errors.New("missing")

	assert.NoError(t, checkRowsAffected(sqlmock.NewResult(0, 1), notFound))
	assert.Same(t, notFound, checkRowsAffected(sqlmock.NewResult(0, 0), notFound))

	err := checkRowsAffected(sqlmock.NewErrorResult(errors.New("driver")), notFound)
	assert.ErrorContains(t, err, "failed to get rows affected")
}
