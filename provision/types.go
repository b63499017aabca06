package provision

import (
	"time"

	"github.com/google/uuid"
)

// Role is the internal user role.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// User is the internal identity a transaction's buyer resolves to.
// ExternalID is the unique reference supplied by the identity provider.
type User struct {
	ID         uuid.UUID
	ExternalID string
	Name       string
	Email      string
	Role       Role
	TenantID   string
	CreatedAt  time.Time
}

// Category is the closed set of product categories the engine provisions.
type Category string

const (
	CategorySingle    Category = "single"
	CategoryMulti     Category = "multi"
	CategoryMultiPass Category = "multi-pass"
	CategoryUnlimited Category = "unlimited"
)

// Known reports whether the category is one the engine understands.
func (c Category) Known() bool {
	switch c {
	case CategorySingle, CategoryMulti, CategoryMultiPass, CategoryUnlimited:
		return true
	}
	return false
}

// RequiresBudget reports whether products of this category must carry a
// positive usage budget.
func (c Category) RequiresBudget() bool {
	return c == CategoryMulti || c == CategoryMultiPass
}

// Money is a monetary amount in the smallest currency unit.
type Money struct {
	Amount   int64
	Currency string
}

// Product is a catalog entry ("pass"). Read-only to this engine.
// Validity is either a fixed absolute expiry instant (ExpiresAt) or a
// relative duration from activation (Duration).
type Product struct {
	ID          string
	Name        string
	Category    Category
	Price       Money
	UsageBudget *int
	ExpiresAt   *time.Time
	Duration    *time.Duration
	Active      bool
}

// Kind is the internal entitlement kind a product category maps to.
type Kind string

const (
	KindSingle    Kind = "single"
	KindMultiPass Kind = "multi-pass"
	KindClipCard  Kind = "clip-card"
	KindMonthly   Kind = "monthly"
)

// CreationPath records which code path created an entitlement.
type CreationPath string

const (
	PathWebhook        CreationPath = "webhook"
	PathReconciliation CreationPath = "reconciliation"
)

// Entitlement is the provisioned output: a user's access record for a
// purchased pass. At most one exists per SourceTransactionID.
type Entitlement struct {
	ID                  uuid.UUID
	UserID              uuid.UUID
	TenantID            string
	ProductID           string
	ProductName         string
	ProductCategory     Category
	Kind                Kind
	ActivatedAt         time.Time
	ExpiresAt           time.Time
	Remaining           *int // nil for unlimited kinds
	PricePaid           Money
	Active              bool
	SourceTransactionID string
	CreationPath        CreationPath
	CreatedAt           time.Time
}
