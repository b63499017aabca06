package provision

import (
	"context"
	"sync"
)

// MemoryUserStore is an in-memory UserStore for tests and local development.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]User // keyed by ExternalID
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]User)}
}

func (s *MemoryUserStore) FindByExternalID(_ context.Context, externalID string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[externalID]; ok {
		u := user
		return &u, nil
	}
	return nil, ErrUserNotFound
}

func (s *MemoryUserStore) Create(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ExternalID]; ok {
		return ErrDuplicateUser
	}
	s.users[user.ExternalID] = *user
	return nil
}

// Len returns the number of stored users.
func (s *MemoryUserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// MemoryProductStore is an in-memory ProductStore for tests and local
// development. Products are seeded via Add.
type MemoryProductStore struct {
	mu       sync.RWMutex
	products map[string]Product
}

func NewMemoryProductStore(products ...Product) *MemoryProductStore {
	s := &MemoryProductStore{products: make(map[string]Product, len(products))}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *MemoryProductStore) Add(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *MemoryProductStore) FindByID(_ context.Context, id string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.products[id]; ok {
		prod := p
		return &prod, nil
	}
	return nil, ErrProductNotFound
}

// MemoryEntitlementStore is an in-memory EntitlementStore keyed by source
// transaction id, matching the store-level uniqueness the pg implementation
// enforces with a unique index.
type MemoryEntitlementStore struct {
	mu           sync.Mutex
	entitlements map[string]Entitlement // keyed by SourceTransactionID
}

func NewMemoryEntitlementStore() *MemoryEntitlementStore {
	return &MemoryEntitlementStore{entitlements: make(map[string]Entitlement)}
}

func (s *MemoryEntitlementStore) FindBySourceTransaction(_ context.Context, transactionID string) (*Entitlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ent, ok := s.entitlements[transactionID]; ok {
		e := ent
		return &e, nil
	}
	return nil, ErrEntitlementNotFound
}

func (s *MemoryEntitlementStore) Create(_ context.Context, ent *Entitlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entitlements[ent.SourceTransactionID]; ok {
		return ErrDuplicateEntitlement
	}
	s.entitlements[ent.SourceTransactionID] = *ent
	return nil
}

// All returns a snapshot of every stored entitlement.
func (s *MemoryEntitlementStore) All() []Entitlement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entitlement, 0, len(s.entitlements))
	for _, ent := range s.entitlements {
		out = append(out, ent)
	}
	return out
}
