package pgstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studiokit/entitlements/pkg/pg"
	"github.com/studiokit/entitlements/provision"
)

// UserStore is the PostgreSQL implementation of provision.UserStore.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func (s *UserStore) FindByExternalID(ctx context.Context, externalID string) (*provision.User, error) {
	const query = `
		SELECT id, external_id, name, email, role, tenant_id, created_at
		FROM users
		WHERE external_id = $1`

	var u provision.User
	err := s.pool.QueryRow(ctx, query, externalID).Scan(
		&u.ID, &u.ExternalID, &u.Name, &u.Email, &u.Role, &u.TenantID, &u.CreatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, provision.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) Create(ctx context.Context, user *provision.User) error {
	const query = `
		INSERT INTO users (id, external_id, name, email, role, tenant_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.pool.Exec(ctx, query,
		user.ID, user.ExternalID, user.Name, user.Email, user.Role, user.TenantID, user.CreatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return errors.Join(provision.ErrDuplicateUser, err)
		}
		return err
	}
	return nil
}
