package payment

import (
	"context"
	"time"
)

// Provider is the read-only client to the payment provider's transaction
// ledger. Reconciliation lists completed transactions over a window; the
// webhook path needs only the event payload and never calls the provider.
type Provider interface {
	// ListCompletedTransactions returns all successfully completed
	// transactions with from <= CompletedAt < to.
	ListCompletedTransactions(ctx context.Context, from, to time.Time) ([]Transaction, error)

	// GetTransaction fetches a single transaction by id.
	// Returns ErrTransactionNotFound if the provider has no such record.
	GetTransaction(ctx context.Context, id string) (*Transaction, error)
}
