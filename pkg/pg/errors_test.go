package pg_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/studiokit/entitlements/pkg/pg"
)

func TestErrorClassifiers(t *testing.T) {
	t.Parallel()

	uniqueViolation := &pgconn.PgError{Code: "23505", ConstraintName: "entitlements_source_transaction_id_idx"}
	fkViolation := &pgconn.PgError{Code: "23503", ConstraintName: "entitlements_user_id_fkey"}

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		assert.True(t, pg.IsNotFoundError(pgx.ErrNoRows))
		assert.True(t, pg.IsNotFoundError(fmt.Errorf("scan: %w", pgx.ErrNoRows)))
		assert.False(t, pg.IsNotFoundError(nil))
		assert.False(t, pg.IsNotFoundError(errors.New("boom")))
	})

	t.Run("duplicate key", func(t *testing.T) {
		t.Parallel()

		assert.True(t, pg.IsDuplicateKeyError(uniqueViolation))
		assert.True(t, pg.IsDuplicateKeyError(fmt.Errorf("insert: %w", uniqueViolation)))
		assert.False(t, pg.IsDuplicateKeyError(fkViolation))
		assert.False(t, pg.IsDuplicateKeyError(nil))
	})

	t.Run("foreign key violation", func(t *testing.T) {
		t.Parallel()

		assert.True(t, pg.IsForeignKeyViolationError(fkViolation))
		assert.True(t, pg.IsForeignKeyViolationError(fmt.Errorf("insert: %w", fkViolation)))
		assert.False(t, pg.IsForeignKeyViolationError(uniqueViolation))
		assert.False(t, pg.IsForeignKeyViolationError(nil))
	})
}
