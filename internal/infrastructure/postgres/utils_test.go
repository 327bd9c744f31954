package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/restaurante-inventario/internal/domain"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError("op", nil))

	err := mapError("op", &pgconn.PgError{Code: "40001", Message: "could not serialize access"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = mapError("op", &pgconn.PgError{Code: "23505", ConstraintName: productsNameIndex})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.False(t, errors.Is(err, domain.ErrDuplicate))

	err = mapError("op", &pgconn.PgError{Code: "23505", ConstraintName: "products_pkey"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = mapError("op", &pgconn.PgError{Code: "08006", Message: "connection failure"})
	assert.ErrorIs(t, err, domain.ErrUnavailable)

	err = mapError("op", fmt.Errorf("dial: %w", context.DeadlineExceeded))
	assert.ErrorIs(t, err, domain.ErrUnavailable)

	err = mapError("op", domain.ErrConflict)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	err = mapError("op", &pgconn.PgError{Code: "23514", Message: "check violation"})
	assert.False(t, errors.Is(err, domain.ErrConflict))
	assert.False(t, errors.Is(err, domain.ErrUnavailable))
	assert.Contains(t, err.Error(), "op")
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "Cocina", *nullIfEmpty("Cocina"))
	assert.Equal(t, "", derefString(nil))
}

func TestMigrationsEmbebidas(t *testing.T) {
	sql, err := migrations.ReadFile("migrations/001_schema.sql")
	assert.NoError(t, err)
	assert.Contains(t, string(sql), "CREATE UNIQUE INDEX IF NOT EXISTS "+productsNameIndex)
}
