package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studiokit/entitlements/pkg/pg"
	"github.com/studiokit/entitlements/provision"
)

// EntitlementStore is the PostgreSQL implementation of
// provision.EntitlementStore.
type EntitlementStore struct {
	pool *pgxpool.Pool
}

func NewEntitlementStore(pool *pgxpool.Pool) *EntitlementStore {
	return &EntitlementStore{pool: pool}
}

func (s *EntitlementStore) FindBySourceTransaction(ctx context.Context, transactionID string) (*provision.Entitlement, error) {
	const query = `
		SELECT id, user_id, tenant_id, product_id, product_name, product_category,
		       kind, activated_at, expires_at, remaining,
		       price_amount, price_currency, active,
		       source_transaction_id, creation_path, created_at
		FROM entitlements
		WHERE source_transaction_id = $1`

	var e provision.Entitlement
	err := s.pool.QueryRow(ctx, query, transactionID).Scan(
		&e.ID, &e.UserID, &e.TenantID, &e.ProductID, &e.ProductName, &e.ProductCategory,
		&e.Kind, &e.ActivatedAt, &e.ExpiresAt, &e.Remaining,
		&e.PricePaid.Amount, &e.PricePaid.Currency, &e.Active,
		&e.SourceTransactionID, &e.CreationPath, &e.CreatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, provision.ErrEntitlementNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Create inserts the entitlement. The unique index on source_transaction_id
// makes this a create-if-absent: a duplicate-key rejection means another
// caller already provisioned this transaction and is reported as
// provision.ErrDuplicateEntitlement.
func (s *EntitlementStore) Create(ctx context.Context, ent *provision.Entitlement) error {
	const query = `
		INSERT INTO entitlements (
			id, user_id, tenant_id, product_id, product_name, product_category,
			kind, activated_at, expires_at, remaining,
			price_amount, price_currency, active,
			source_transaction_id, creation_path, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := s.pool.Exec(ctx, query,
		ent.ID, ent.UserID, ent.TenantID, ent.ProductID, ent.ProductName, ent.ProductCategory,
		ent.Kind, ent.ActivatedAt, ent.ExpiresAt, ent.Remaining,
		ent.PricePaid.Amount, ent.PricePaid.Currency, ent.Active,
		ent.SourceTransactionID, ent.CreationPath, ent.CreatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return errors.Join(provision.ErrDuplicateEntitlement, err)
		}
		// The user row was resolved moments ago; a referential failure here
		// means it was deleted out from under the write.
		if pg.IsForeignKeyViolationError(err) {
			return fmt.Errorf("referenced user row no longer exists: %w", err)
		}
		return err
	}
	return nil
}
