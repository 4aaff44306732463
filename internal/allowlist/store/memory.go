package store

import (
	"context"
	"fmt"
	"sync"

	"tokengate/internal/allowlist/models"
	"tokengate/internal/sentinel"
	"tokengate/pkg/domain"
)

// ErrNotFound is returned when an allowlist id was never issued for a kind.
var ErrNotFound = sentinel.ErrNotFound

type record struct {
	list models.Allowlist

	// index maps member address to its position in list.Members.
	index map[domain.Address]int
}

// InMemory keeps allowlists in memory. Mutating operations take the expected
// owner and check it under the same lock as the mutation, so an authorization
// failure observes and changes nothing.
type InMemory struct {
	mu     sync.RWMutex
	lists  map[models.Kind]map[domain.AllowlistID]*record
	lastID map[models.Kind]domain.AllowlistID
}

// NewInMemory creates an in-memory allowlist store with both kind namespaces
// initialized and counters at zero.
func NewInMemory() *InMemory {
	return &InMemory{
		lists: map[models.Kind]map[domain.AllowlistID]*record{
			models.KindOperators:                  {},
			models.KindPermittedContractReceivers: {},
		},
		lastID: map[models.Kind]domain.AllowlistID{
			models.KindOperators:                  0,
			models.KindPermittedContractReceivers: 0,
		},
	}
}

// Create allocates the next id for the kind and stores a new list owned by
// owner. Ids start at 1; 0 stays reserved as the "no allowlist" sentinel.
func (s *InMemory) Create(_ context.Context, kind models.Kind, name string, owner domain.Address) (*models.Allowlist, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown allowlist kind %q: %w", kind, sentinel.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.lastID[kind] + 1
	s.lastID[kind] = id

	rec := &record{
		list: models.Allowlist{
			ID:    id,
			Kind:  kind,
			Name:  name,
			Owner: owner,
		},
		index: make(map[domain.Address]int),
	}
	s.lists[kind][id] = rec

	return copyList(rec), nil
}

// Get returns a copy of the list.
func (s *InMemory) Get(_ context.Context, kind models.Kind, id domain.AllowlistID) (*models.Allowlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.lists[kind][id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyList(rec), nil
}

// LastID returns the highest id ever issued for the kind.
func (s *InMemory) LastID(_ context.Context, kind models.Kind) (domain.AllowlistID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastID[kind], nil
}

// SetOwnerIf updates the owner if the current owner matches expected.
func (s *InMemory) SetOwnerIf(_ context.Context, kind models.Kind, id domain.AllowlistID, expected, newOwner domain.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.lists[kind][id]
	if !ok {
		return ErrNotFound
	}
	if rec.list.Owner != expected {
		return sentinel.ErrNotOwner
	}
	rec.list.Owner = newOwner
	return nil
}

// AddMemberIf appends account if the caller owns the list and account is not
// already a member.
func (s *InMemory) AddMemberIf(_ context.Context, kind models.Kind, id domain.AllowlistID, owner, account domain.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.lists[kind][id]
	if !ok {
		return ErrNotFound
	}
	if rec.list.Owner != owner {
		return sentinel.ErrNotOwner
	}
	if _, exists := rec.index[account]; exists {
		return sentinel.ErrAlreadyExists
	}
	rec.index[account] = len(rec.list.Members)
	rec.list.Members = append(rec.list.Members, account)
	return nil
}

// RemoveMemberIf removes account if the caller owns the list and account is a
// member. The remaining members keep their insertion order.
func (s *InMemory) RemoveMemberIf(_ context.Context, kind models.Kind, id domain.AllowlistID, owner, account domain.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.lists[kind][id]
	if !ok {
		return ErrNotFound
	}
	if rec.list.Owner != owner {
		return sentinel.ErrNotOwner
	}
	pos, exists := rec.index[account]
	if !exists {
		return sentinel.ErrNotMember
	}
	rec.list.Members = append(rec.list.Members[:pos], rec.list.Members[pos+1:]...)
	delete(rec.index, account)
	for i := pos; i < len(rec.list.Members); i++ {
		rec.index[rec.list.Members[i]] = i
	}
	return nil
}

// IsMember reports membership. Unknown ids are simply not memberships, so the
// sentinel id 0 and never-issued ids both answer false without error.
func (s *InMemory) IsMember(_ context.Context, kind models.Kind, id domain.AllowlistID, account domain.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.lists[kind][id]
	if !ok {
		return false, nil
	}
	_, member := rec.index[account]
	return member, nil
}

// Members returns the list membership in insertion order.
func (s *InMemory) Members(_ context.Context, kind models.Kind, id domain.AllowlistID) ([]domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.lists[kind][id]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]domain.Address{}, rec.list.Members...), nil
}

func copyList(rec *record) *models.Allowlist {
	out := rec.list
	out.Members = append([]domain.Address{}, rec.list.Members...)
	return &out
}
