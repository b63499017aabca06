package provision

import "context"

// UserStore persists internal users keyed by their external identity reference.
type UserStore interface {
	// FindByExternalID returns the user with the given external reference.
	// Returns ErrUserNotFound if no such user exists.
	FindByExternalID(ctx context.Context, externalID string) (*User, error)

	// Create inserts a new user. Returns ErrDuplicateUser if a user with the
	// same external reference already exists.
	Create(ctx context.Context, user *User) error
}

// ProductStore reads catalog entries. The engine never writes products.
type ProductStore interface {
	// FindByID returns the product with the given id.
	// Returns ErrProductNotFound if no such product exists.
	FindByID(ctx context.Context, id string) (*Product, error)
}

// EntitlementStore persists entitlements with the source transaction id as a
// natural dedup key.
type EntitlementStore interface {
	// FindBySourceTransaction returns the entitlement provisioned from the
	// given transaction. Returns ErrEntitlementNotFound if none exists.
	FindBySourceTransaction(ctx context.Context, transactionID string) (*Entitlement, error)

	// Create atomically inserts the entitlement if no entitlement exists for
	// its SourceTransactionID, and returns ErrDuplicateEntitlement otherwise.
	// This create-if-absent is the final arbiter under concurrent callers.
	Create(ctx context.Context, ent *Entitlement) error
}
