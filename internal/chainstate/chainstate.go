// Package chainstate models the piece of chain environment the validator
// needs: which addresses currently carry deployed contract code.
package chainstate

import (
	"context"
	"sync"

	"tokengate/pkg/domain"
)

// InMemory records contract deployments. Everything not marked is a plain
// wallet with no code.
type InMemory struct {
	mu   sync.RWMutex
	code map[domain.Address]struct{}
}

func NewInMemory() *InMemory {
	return &InMemory{code: make(map[domain.Address]struct{})}
}

// MarkContract records that account has deployed code.
func (s *InMemory) MarkContract(account domain.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.code[account] = struct{}{}
}

// HasCode implements ports.ChainState.
func (s *InMemory) HasCode(_ context.Context, account domain.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.code[account]
	return ok, nil
}
