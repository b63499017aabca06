package payment

import "time"

// TransactionStatus is the provider-side payment status.
type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "completed"
	StatusPending   TransactionStatus = "pending"
	StatusFailed    TransactionStatus = "failed"
	StatusCanceled  TransactionStatus = "canceled"
)

// Metadata keys attached to a transaction at checkout time.
// Values are free-form strings supplied by the checkout flow; any of them
// may be missing on a given transaction.
const (
	MetaProductID      = "product_id"
	MetaExternalUserID = "external_user_id"
	MetaTenantID       = "tenant_id"
	MetaKind           = "kind"
	MetaCustomerName   = "customer_name"
	MetaCustomerEmail  = "customer_email"
)

// KindPassPurchase marks transactions that purchase a pass and therefore
// feed entitlement provisioning. Other kinds (booking fees, top-ups) are
// ignored by this engine.
const KindPassPurchase = "pass_purchase"

// Transaction is the provider-owned record of a payment. Read-only to this
// system; Amount is in the smallest currency unit.
type Transaction struct {
	ID          string
	Status      TransactionStatus
	Amount      int64
	Currency    string
	CompletedAt time.Time
	Metadata    map[string]string
}

// Completed reports whether the payment succeeded.
func (t Transaction) Completed() bool {
	return t.Status == StatusCompleted
}

// IsPassPurchase reports whether this transaction should produce an entitlement.
func (t Transaction) IsPassPurchase() bool {
	return t.Metadata[MetaKind] == KindPassPurchase
}

func (t Transaction) ProductID() string      { return t.Metadata[MetaProductID] }
func (t Transaction) ExternalUserID() string { return t.Metadata[MetaExternalUserID] }
func (t Transaction) TenantID() string       { return t.Metadata[MetaTenantID] }
func (t Transaction) CustomerName() string   { return t.Metadata[MetaCustomerName] }
func (t Transaction) CustomerEmail() string  { return t.Metadata[MetaCustomerEmail] }
