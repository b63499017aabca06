// Package pgstore implements the provision stores on PostgreSQL via pgx.
//
// The entitlements table carries a unique index on source_transaction_id;
// the resulting duplicate-key rejection is the store-level arbiter the
// provisioning writer relies on under concurrent deliveries.
package pgstore
