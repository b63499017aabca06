package pgstore

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studiokit/entitlements/pkg/pg"
	"github.com/studiokit/entitlements/provision"
)

// ProductStore is the PostgreSQL implementation of provision.ProductStore.
// The catalog is owned by out-of-scope admin flows; this engine only reads.
type ProductStore struct {
	pool *pgxpool.Pool
}

func NewProductStore(pool *pgxpool.Pool) *ProductStore {
	return &ProductStore{pool: pool}
}

func (s *ProductStore) FindByID(ctx context.Context, id string) (*provision.Product, error) {
	const query = `
		SELECT id, name, category, price_amount, price_currency,
		       usage_budget, expires_at, duration_seconds, active
		FROM products
		WHERE id = $1`

	var (
		p               provision.Product
		durationSeconds *int64
	)
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Category, &p.Price.Amount, &p.Price.Currency,
		&p.UsageBudget, &p.ExpiresAt, &durationSeconds, &p.Active,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, provision.ErrProductNotFound
		}
		return nil, err
	}

	if durationSeconds != nil {
		d := time.Duration(*durationSeconds) * time.Second
		p.Duration = &d
	}
	return &p, nil
}
