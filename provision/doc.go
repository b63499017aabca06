// Package provision turns a completed payment transaction into exactly one
// entitlement. The pipeline resolves the buyer's internal identity (creating
// it lazily), loads and validates the purchased product, computes the
// validity window from the product's policy and the transaction's own
// completion timestamp, maps the product category to an entitlement kind and
// initial usage budget, and performs a single guarded create keyed by the
// source transaction id.
//
// Correctness under at-least-once webhook delivery rests on two layers: a
// read-before-write idempotency check as the fast path, and the store-level
// create-if-absent on the provenance id as the final arbiter. A create
// rejected as a duplicate is a success outcome, never an error, so concurrent
// deliveries and reconciliation re-entry converge on one record.
package provision
