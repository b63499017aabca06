package payment

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// EventKind is the notification type discriminator.
type EventKind string

const (
	EventTransactionCompleted EventKind = "transaction.completed"
	EventTransactionUpdated   EventKind = "transaction.updated"
	EventPaymentFailed        EventKind = "transaction.payment_failed"
)

// Event is a decoded webhook notification from the payment provider.
type Event struct {
	ID          string
	Kind        EventKind
	OccurredAt  time.Time
	Transaction Transaction
}

// Relevant reports whether the event should enter the provisioning pipeline:
// a completed payment for a pass purchase. Everything else is acknowledged
// and dropped.
func (e *Event) Relevant() bool {
	return e.Kind == EventTransactionCompleted && e.Transaction.Completed() && e.Transaction.IsPassPurchase()
}

// Wire shapes follow the provider's notification format: an envelope with an
// event type discriminator and the transaction payload under "data".
type wireEvent struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       wireTransaction `json:"data"`
}

type wireTransaction struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Details struct {
		Totals struct {
			GrandTotal   string `json:"grand_total"`
			CurrencyCode string `json:"currency_code"`
		} `json:"totals"`
	} `json:"details"`
	BilledAt   *time.Time     `json:"billed_at"`
	CustomData map[string]any `json:"custom_data"`
}

// decodeEvent decodes a verified webhook body into a typed Event.
func decodeEvent(body []byte) (*Event, error) {
	var we wireEvent
	if err := json.Unmarshal(body, &we); err != nil {
		return nil, errors.Join(ErrMalformedEvent, err)
	}
	if we.EventType == "" {
		return nil, fmt.Errorf("%w: missing event_type", ErrMalformedEvent)
	}
	if we.Data.ID == "" {
		return nil, fmt.Errorf("%w: missing transaction id", ErrMalformedEvent)
	}

	tx := Transaction{
		ID:       we.Data.ID,
		Status:   TransactionStatus(we.Data.Status),
		Currency: we.Data.Details.Totals.CurrencyCode,
		Metadata: stringMetadata(we.Data.CustomData),
	}

	if raw := we.Data.Details.Totals.GrandTotal; raw != "" {
		amount, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid amount %q", ErrMalformedEvent, raw)
		}
		tx.Amount = amount
	}

	// The transaction's own completion timestamp is what provisioning keys
	// validity windows on; the envelope timestamp is only a fallback.
	if we.Data.BilledAt != nil {
		tx.CompletedAt = *we.Data.BilledAt
	} else {
		tx.CompletedAt = we.OccurredAt
	}

	return &Event{
		ID:          we.EventID,
		Kind:        EventKind(we.EventType),
		OccurredAt:  we.OccurredAt,
		Transaction: tx,
	}, nil
}

// stringMetadata flattens provider custom data into the string map the rest
// of the engine consumes. Non-string values are formatted, not dropped, so a
// numeric tenant id in poorly-formed checkout metadata still resolves.
func stringMetadata(data map[string]any) map[string]string {
	meta := make(map[string]string, len(data))
	for k, v := range data {
		switch val := v.(type) {
		case string:
			meta[k] = val
		case float64:
			meta[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			meta[k] = strconv.FormatBool(val)
		case nil:
			// skip
		default:
			meta[k] = fmt.Sprintf("%v", val)
		}
	}
	return meta
}
