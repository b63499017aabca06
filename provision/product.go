package provision

import (
	"fmt"
	"time"
)

// Validate checks that the product can yield a usable entitlement.
// Every failure names the offending field so catalog defects are actionable.
//
// A fixed expiry already in the past is a configuration error, not a silent
// success: provisioning from such a product would hand the customer an
// entitlement that is expired the moment it is created.
func (p Product) Validate(now time.Time) error {
	if !p.Category.Known() {
		return fmt.Errorf("%w: product %s has unknown category %q", ErrInvalidProductConfig, p.ID, p.Category)
	}

	if p.Category.RequiresBudget() {
		if p.UsageBudget == nil {
			return fmt.Errorf("%w: product %s (category %s) has no usage budget", ErrInvalidProductConfig, p.ID, p.Category)
		}
		if *p.UsageBudget <= 0 {
			return fmt.Errorf("%w: product %s has non-positive usage budget %d", ErrInvalidProductConfig, p.ID, *p.UsageBudget)
		}
	}

	switch {
	case p.ExpiresAt != nil:
		if !p.ExpiresAt.After(now) {
			return fmt.Errorf("%w: product %s has fixed expiry %s in the past", ErrInvalidProductConfig, p.ID, p.ExpiresAt.Format(time.RFC3339))
		}
	case p.Duration != nil:
		if *p.Duration <= 0 {
			return fmt.Errorf("%w: product %s has non-positive validity duration %s", ErrInvalidProductConfig, p.ID, *p.Duration)
		}
	default:
		return fmt.Errorf("%w: product %s has neither a fixed expiry nor a validity duration", ErrInvalidProductConfig, p.ID)
	}

	return nil
}
