// Package payment defines the boundary with the external payment provider:
// the immutable transaction record, the typed webhook event, the signature
// verifier for inbound notifications, and the read-only Provider client used
// by reconciliation to list and fetch transactions.
//
// The engine never writes to the provider. Transactions are owned by the
// provider and carry the purchase context (product, buyer identity, tenant)
// in a free-form metadata map supplied at checkout time.
package payment
