package store

import (
	"context"
	"sync"

	"tokengate/internal/policy"
	"tokengate/pkg/domain"
)

// InMemory maps collection addresses to their security policies. Collections
// that were never configured read back the zero-value default policy, so
// there is no explicit create step.
type InMemory struct {
	mu       sync.RWMutex
	policies map[domain.Address]policy.CollectionSecurityPolicy
}

func NewInMemory() *InMemory {
	return &InMemory{policies: make(map[domain.Address]policy.CollectionSecurityPolicy)}
}

// Get returns the collection's policy, defaulting to the zero value.
func (s *InMemory) Get(_ context.Context, collection domain.Address) (policy.CollectionSecurityPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policies[collection], nil
}

// SetLevel updates only the security level, creating the record implicitly.
func (s *InMemory) SetLevel(_ context.Context, collection domain.Address, level policy.TransferSecurityLevel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.policies[collection]
	p.Level = level
	s.policies[collection] = p
	return nil
}

// SetOperatorWhitelist updates only the operator whitelist binding.
func (s *InMemory) SetOperatorWhitelist(_ context.Context, collection domain.Address, id domain.AllowlistID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.policies[collection]
	p.OperatorWhitelistID = id
	s.policies[collection] = p
	return nil
}

// SetPermittedContractReceivers updates only the permitted-receivers binding.
func (s *InMemory) SetPermittedContractReceivers(_ context.Context, collection domain.Address, id domain.AllowlistID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.policies[collection]
	p.PermittedContractReceiversID = id
	s.policies[collection] = p
	return nil
}
