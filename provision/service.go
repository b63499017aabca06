package provision

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/studiokit/entitlements/payment"
	"github.com/studiokit/entitlements/pkg/logger"
)

// Outcome describes what provisioning did for a transaction.
type Outcome string

const (
	OutcomeCreated            Outcome = "created"
	OutcomeAlreadyProvisioned Outcome = "already_provisioned"
	OutcomeSkipped            Outcome = "skipped"
)

// Service runs the provisioning pipeline. Both the live webhook path and the
// reconciliation scanner go through the same Provision method; only the
// recorded creation path differs.
type Service struct {
	users        UserStore
	products     ProductStore
	entitlements EntitlementStore
	log          *slog.Logger
	now          func() time.Time
}

// Option configures optional Service settings.
type Option func(*Service)

// WithLogger sets the logger used for pipeline events.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the wall clock, used by product validation to decide
// whether a fixed expiry is in the past. Tests pin it for determinism.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a provisioning Service.
// Panics if any store is nil to fail fast during initialization.
func NewService(users UserStore, products ProductStore, entitlements EntitlementStore, opts ...Option) *Service {
	if users == nil {
		panic("provision: UserStore is required")
	}
	if products == nil {
		panic("provision: ProductStore is required")
	}
	if entitlements == nil {
		panic("provision: EntitlementStore is required")
	}

	s := &Service{
		users:        users,
		products:     products,
		entitlements: entitlements,
		log:          slog.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleEvent processes a verified webhook event. Irrelevant event kinds are
// acknowledged and skipped; relevant ones enter the provisioning pipeline.
func (s *Service) HandleEvent(ctx context.Context, ev *payment.Event) (*Entitlement, Outcome, error) {
	if !ev.Relevant() {
		s.log.DebugContext(ctx, "ignoring irrelevant event",
			logger.EventKind(string(ev.Kind)),
			logger.TransactionID(ev.Transaction.ID),
		)
		return nil, OutcomeSkipped, nil
	}
	return s.Provision(ctx, ev.Transaction, PathWebhook)
}

// Provision creates the entitlement for a completed transaction, exactly once.
//
// Pipeline: idempotency guard, identity resolution, product resolution and
// validation, expiry computation, kind mapping, guarded write. No entitlement
// write happens before the product is fully validated. A duplicate rejection
// from the store means another caller won the race and is returned as
// OutcomeAlreadyProvisioned with the winner's record.
func (s *Service) Provision(ctx context.Context, tx payment.Transaction, path CreationPath) (*Entitlement, Outcome, error) {
	existing, err := s.entitlements.FindBySourceTransaction(ctx, tx.ID)
	if err == nil {
		return existing, OutcomeAlreadyProvisioned, nil
	}
	if !errors.Is(err, ErrEntitlementNotFound) {
		return nil, "", errors.Join(ErrPersistence, err)
	}

	user, err := s.resolveUser(ctx, tx)
	if err != nil {
		return nil, "", err
	}

	product, err := s.resolveProduct(ctx, tx)
	if err != nil {
		return nil, "", err
	}

	activatedAt := tx.CompletedAt
	kind, remaining := MapCategory(*product)

	ent := &Entitlement{
		ID:                  uuid.New(),
		UserID:              user.ID,
		TenantID:            tx.TenantID(),
		ProductID:           product.ID,
		ProductName:         product.Name,
		ProductCategory:     product.Category,
		Kind:                kind,
		ActivatedAt:         activatedAt,
		ExpiresAt:           ExpiryAt(*product, activatedAt),
		Remaining:           remaining,
		PricePaid:           Money{Amount: tx.Amount, Currency: tx.Currency},
		Active:              true,
		SourceTransactionID: tx.ID,
		CreationPath:        path,
		CreatedAt:           s.now().UTC(),
	}

	if err := s.entitlements.Create(ctx, ent); err != nil {
		if errors.Is(err, ErrDuplicateEntitlement) {
			// Lost the create race; the winner's row is the truth.
			winner, ferr := s.entitlements.FindBySourceTransaction(ctx, tx.ID)
			if ferr != nil {
				return nil, "", errors.Join(ErrPersistence, ferr)
			}
			return winner, OutcomeAlreadyProvisioned, nil
		}
		return nil, "", errors.Join(ErrPersistence, err)
	}

	s.log.InfoContext(ctx, "entitlement provisioned",
		logger.TransactionID(tx.ID),
		logger.UserID(user.ID),
		logger.TenantID(ent.TenantID),
		slog.String("kind", string(kind)),
		slog.String("path", string(path)),
	)

	return ent, OutcomeCreated, nil
}

// resolveUser maps the transaction's external identity reference to an
// internal user, creating one lazily. Missing profile fields never block
// provisioning: the customer has already paid.
func (s *Service) resolveUser(ctx context.Context, tx payment.Transaction) (*User, error) {
	externalID := tx.ExternalUserID()
	if externalID == "" {
		return nil, ErrMissingIdentity
	}

	user, err := s.users.FindByExternalID(ctx, externalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, errors.Join(ErrIdentityCreation, err)
	}

	name := tx.CustomerName()
	if name == "" {
		// Placeholder until a profile flow fills it in.
		name = externalID
	}

	user = &User{
		ID:         uuid.New(),
		ExternalID: externalID,
		Name:       name,
		Email:      tx.CustomerEmail(),
		Role:       RoleMember,
		TenantID:   tx.TenantID(),
		CreatedAt:  s.now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			// Concurrent resolver created it first; reread.
			winner, ferr := s.users.FindByExternalID(ctx, externalID)
			if ferr != nil {
				return nil, errors.Join(ErrIdentityCreation, ferr)
			}
			return winner, nil
		}
		return nil, errors.Join(ErrIdentityCreation, err)
	}

	s.log.InfoContext(ctx, "user created from transaction",
		logger.UserID(user.ID),
		logger.TransactionID(tx.ID),
	)
	return user, nil
}

// resolveProduct loads and validates the purchased product. Validation halts
// provisioning before any entitlement write.
func (s *Service) resolveProduct(ctx context.Context, tx payment.Transaction) (*Product, error) {
	productID := tx.ProductID()
	if productID == "" {
		return nil, errors.Join(ErrProductNotFound, errors.New("transaction metadata carries no product id"))
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil, err
		}
		return nil, errors.Join(ErrPersistence, err)
	}

	if err := product.Validate(s.now()); err != nil {
		return nil, err
	}

	return product, nil
}
