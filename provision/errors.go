package provision

import "errors"

var (
	// ErrEntitlementNotFound means no entitlement exists for the queried key.
	ErrEntitlementNotFound = errors.New("entitlement not found")

	// ErrDuplicateEntitlement is returned by stores when a create collides
	// with an existing entitlement for the same source transaction.
	// Callers treat it as a success signal, not a failure.
	ErrDuplicateEntitlement = errors.New("entitlement already exists for source transaction")

	// ErrUserNotFound means no user exists with the queried external reference.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUser is returned by stores when a create collides with an
	// existing user for the same external reference.
	ErrDuplicateUser = errors.New("user already exists for external reference")

	// ErrProductNotFound means the transaction references no known product.
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidProductConfig is a catalog defect: the product cannot yield a
	// usable entitlement until the catalog is fixed. Permanent; never
	// retried automatically.
	ErrInvalidProductConfig = errors.New("invalid product configuration")

	// ErrMissingIdentity means the transaction carries no external identity
	// reference at all, so there is no one to provision for. Permanent.
	ErrMissingIdentity = errors.New("transaction carries no identity reference")

	// ErrIdentityCreation is a store-level failure creating the internal
	// user. Transient; safe to retry via redelivery or re-scan.
	ErrIdentityCreation = errors.New("failed to create internal user")

	// ErrPersistence is a store-level failure reading or writing
	// entitlements. Transient; safe to retry via redelivery or re-scan.
	ErrPersistence = errors.New("entitlement store failure")
)

// Permanent reports whether the error will not succeed on retry without an
// external change (catalog fix, checkout metadata fix). The webhook handler
// acknowledges permanent failures instead of triggering provider redelivery.
func Permanent(err error) bool {
	return errors.Is(err, ErrInvalidProductConfig) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrMissingIdentity)
}
