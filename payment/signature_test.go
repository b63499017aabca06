package payment_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiokit/entitlements/payment"
)

func sign(t *testing.T, secret string, body []byte) string {
	t.Helper()
	ts := fmt.Sprintf("%d", time.Now().Unix())
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(ts + ":" + string(body)))
	return fmt.Sprintf("ts=%s;h1=%s", ts, hex.EncodeToString(h.Sum(nil)))
}

func TestVerifier_Verify(t *testing.T) {
	t.Parallel()

	body := []byte(`{"event_type":"transaction.completed"}`)

	t.Run("accepts valid signature", func(t *testing.T) {
		t.Parallel()
		v, err := payment.NewVerifier(payment.VerifierConfig{Secret: "current"})
		require.NoError(t, err)

		assert.NoError(t, v.Verify(body, sign(t, "current", body)))
	})

	t.Run("falls back to previous secret during rotation", func(t *testing.T) {
		t.Parallel()
		v, err := payment.NewVerifier(payment.VerifierConfig{
			Secret:         "rotated",
			PreviousSecret: "old",
		})
		require.NoError(t, err)

		assert.NoError(t, v.Verify(body, sign(t, "old", body)))
	})

	t.Run("rejects unknown secret", func(t *testing.T) {
		t.Parallel()
		v, err := payment.NewVerifier(payment.VerifierConfig{Secret: "current"})
		require.NoError(t, err)

		err = v.Verify(body, sign(t, "wrong", body))
		assert.ErrorIs(t, err, payment.ErrAuthentication)
	})

	t.Run("rejects missing header", func(t *testing.T) {
		t.Parallel()
		v, err := payment.NewVerifier(payment.VerifierConfig{Secret: "current"})
		require.NoError(t, err)

		assert.ErrorIs(t, v.Verify(body, ""), payment.ErrAuthentication)
	})

	t.Run("rejects malformed header", func(t *testing.T) {
		t.Parallel()
		v, err := payment.NewVerifier(payment.VerifierConfig{Secret: "current"})
		require.NoError(t, err)

		assert.ErrorIs(t, v.Verify(body, "garbage"), payment.ErrAuthentication)
		assert.ErrorIs(t, v.Verify(body, "ts=123"), payment.ErrAuthentication)
	})

	t.Run("rejects tampered body", func(t *testing.T) {
		t.Parallel()
		v, err := payment.NewVerifier(payment.VerifierConfig{Secret: "current"})
		require.NoError(t, err)

		header := sign(t, "current", body)
		assert.ErrorIs(t, v.Verify([]byte(`{"tampered":true}`), header), payment.ErrAuthentication)
	})

	t.Run("requires a current secret", func(t *testing.T) {
		t.Parallel()
		_, err := payment.NewVerifier(payment.VerifierConfig{})
		assert.ErrorIs(t, err, payment.ErrMissingSecret)
	})
}

func TestVerifier_Parse(t *testing.T) {
	t.Parallel()

	v, err := payment.NewVerifier(payment.VerifierConfig{Secret: "secret"})
	require.NoError(t, err)

	t.Run("decodes verified payload into typed event", func(t *testing.T) {
		t.Parallel()
		body := []byte(`{
			"event_id": "evt_1",
			"event_type": "transaction.completed",
			"occurred_at": "2025-01-01T10:00:05Z",
			"data": {
				"id": "txn_1",
				"status": "completed",
				"billed_at": "2025-01-01T10:00:00Z",
				"details": {"totals": {"grand_total": "4900", "currency_code": "EUR"}},
				"custom_data": {
					"kind": "pass_purchase",
					"product_id": "prod_10",
					"external_user_id": "auth0|abc",
					"tenant_id": "studio-1"
				}
			}
		}`)

		ev, err := v.Parse(body, sign(t, "secret", body))
		require.NoError(t, err)

		assert.Equal(t, "evt_1", ev.ID)
		assert.Equal(t, payment.EventTransactionCompleted, ev.Kind)
		assert.True(t, ev.Relevant())
		assert.Equal(t, "txn_1", ev.Transaction.ID)
		assert.Equal(t, int64(4900), ev.Transaction.Amount)
		assert.Equal(t, "EUR", ev.Transaction.Currency)
		assert.Equal(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), ev.Transaction.CompletedAt)
		assert.Equal(t, "prod_10", ev.Transaction.ProductID())
		assert.Equal(t, "auth0|abc", ev.Transaction.ExternalUserID())
		assert.Equal(t, "studio-1", ev.Transaction.TenantID())
	})

	t.Run("does not decode unverified payload", func(t *testing.T) {
		t.Parallel()
		body := []byte(`{"event_type":"transaction.completed","data":{"id":"txn_1"}}`)

		_, err := v.Parse(body, sign(t, "wrong", body))
		assert.ErrorIs(t, err, payment.ErrAuthentication)
	})

	t.Run("rejects undecodable payload", func(t *testing.T) {
		t.Parallel()
		body := []byte(`not json`)

		_, err := v.Parse(body, sign(t, "secret", body))
		assert.ErrorIs(t, err, payment.ErrMalformedEvent)
	})

	t.Run("falls back to envelope timestamp when billed_at is absent", func(t *testing.T) {
		t.Parallel()
		body := []byte(`{
			"event_id": "evt_2",
			"event_type": "transaction.completed",
			"occurred_at": "2025-02-01T00:00:00Z",
			"data": {"id": "txn_2", "status": "completed", "custom_data": {"kind": "pass_purchase"}}
		}`)

		ev, err := v.Parse(body, sign(t, "secret", body))
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), ev.Transaction.CompletedAt)
	})
}

func TestEvent_Relevant(t *testing.T) {
	t.Parallel()

	base := payment.Transaction{
		ID:     "txn_1",
		Status: payment.StatusCompleted,
		Metadata: map[string]string{
			payment.MetaKind: payment.KindPassPurchase,
		},
	}

	t.Run("completed pass purchase is relevant", func(t *testing.T) {
		t.Parallel()
		ev := &payment.Event{Kind: payment.EventTransactionCompleted, Transaction: base}
		assert.True(t, ev.Relevant())
	})

	t.Run("other event kinds are not", func(t *testing.T) {
		t.Parallel()
		ev := &payment.Event{Kind: payment.EventPaymentFailed, Transaction: base}
		assert.False(t, ev.Relevant())
	})

	t.Run("other transaction kinds are not", func(t *testing.T) {
		t.Parallel()
		tx := base
		tx.Metadata = map[string]string{payment.MetaKind: "booking_fee"}
		ev := &payment.Event{Kind: payment.EventTransactionCompleted, Transaction: tx}
		assert.False(t, ev.Relevant())
	})

	t.Run("incomplete payments are not", func(t *testing.T) {
		t.Parallel()
		tx := base
		tx.Status = payment.StatusPending
		ev := &payment.Event{Kind: payment.EventTransactionCompleted, Transaction: tx}
		assert.False(t, ev.Relevant())
	})
}
