package provision

import "time"

// ExpiryAt computes the entitlement's expiry instant from the product's
// validity policy and the activation instant. Pure: no clock, no store.
//
// The activation instant is the transaction's completion timestamp, not the
// time provisioning runs, so an entitlement reconciled days late still gets
// the window the customer originally paid for.
func ExpiryAt(p Product, activatedAt time.Time) time.Time {
	if p.ExpiresAt != nil {
		// Fixed-date policy: the configured instant, verbatim.
		return *p.ExpiresAt
	}
	return activatedAt.Add(*p.Duration)
}
