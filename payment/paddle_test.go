package payment

import (
	"errors"
	"testing"
	"time"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
	"github.com/PaddleHQ/paddle-go-sdk/v4/pkg/paddleerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPaddleTransaction(t *testing.T) {
	t.Parallel()

	t.Run("maps totals, billing time, and custom data", func(t *testing.T) {
		t.Parallel()

		billed := "2025-03-02T10:30:00Z"

		var txn paddle.Transaction
		txn.ID = "txn_full"
		txn.Status = "completed"
		txn.Details.Totals.GrandTotal = "1500"
		txn.Details.Totals.CurrencyCode = "EUR"
		txn.BilledAt = &billed
		txn.CustomData = map[string]any{
			MetaProductID:      "prod_season",
			MetaExternalUserID: "ext_42",
			MetaKind:           KindPassPurchase,
			"seats":            float64(3),
			"gift":             true,
		}

		tx := fromPaddleTransaction(&txn)

		assert.Equal(t, "txn_full", tx.ID)
		assert.True(t, tx.Completed())
		assert.True(t, tx.IsPassPurchase())
		assert.Equal(t, int64(1500), tx.Amount)
		assert.Equal(t, "EUR", tx.Currency)
		assert.Equal(t, time.Date(2025, 3, 2, 10, 30, 0, 0, time.UTC), tx.CompletedAt.UTC())
		assert.Equal(t, "prod_season", tx.ProductID())
		assert.Equal(t, "ext_42", tx.ExternalUserID())
		assert.Equal(t, "3", tx.Metadata["seats"])
		assert.Equal(t, "true", tx.Metadata["gift"])
	})

	t.Run("missing fields map to zero values", func(t *testing.T) {
		t.Parallel()

		var txn paddle.Transaction
		txn.ID = "txn_bare"
		txn.Status = "completed"

		tx := fromPaddleTransaction(&txn)

		assert.Equal(t, "txn_bare", tx.ID)
		assert.Zero(t, tx.Amount)
		assert.Empty(t, tx.Currency)
		assert.True(t, tx.CompletedAt.IsZero())
		assert.False(t, tx.IsPassPurchase())
	})

	t.Run("unparseable totals and timestamps are skipped, not fatal", func(t *testing.T) {
		t.Parallel()

		billed := "yesterday-ish"

		var txn paddle.Transaction
		txn.ID = "txn_garbled"
		txn.Status = "completed"
		txn.Details.Totals.GrandTotal = "15.00"
		txn.Details.Totals.CurrencyCode = "EUR"
		txn.BilledAt = &billed

		tx := fromPaddleTransaction(&txn)

		assert.Zero(t, tx.Amount)
		assert.Equal(t, "EUR", tx.Currency)
		assert.True(t, tx.CompletedAt.IsZero())
	})
}

func TestMapTransactionError(t *testing.T) {
	t.Parallel()

	t.Run("request rejection means the id resolves to nothing", func(t *testing.T) {
		t.Parallel()

		err := mapTransactionError(&paddleerr.Error{Type: paddleerr.ErrorTypeRequestError}, "txn_missing")

		require.ErrorIs(t, err, ErrTransactionNotFound)
		assert.Contains(t, err.Error(), "txn_missing")
	})

	t.Run("anything else is provider unavailability", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("dial tcp: connection refused")
		err := mapTransactionError(cause, "txn_1")

		require.ErrorIs(t, err, ErrProviderUnavailable)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("api errors are not mistaken for missing transactions", func(t *testing.T) {
		t.Parallel()

		err := mapTransactionError(&paddleerr.Error{Type: "api_error"}, "txn_1")

		require.ErrorIs(t, err, ErrProviderUnavailable)
		assert.NotErrorIs(t, err, ErrTransactionNotFound)
	})
}

func TestBilledAtFilter(t *testing.T) {
	t.Parallel()

	from := time.Date(2025, 1, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, "[GTE]2025-01-01T11:00:00Z", billedAtFilter(from))
}
