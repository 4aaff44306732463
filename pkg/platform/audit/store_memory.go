package audit

import (
	"context"
	"sync"

	"tokengate/pkg/domain"
)

// InMemoryStore keeps the event trail in memory, indexed by collection so
// operators can pull a per-collection history.
type InMemoryStore struct {
	mu           sync.RWMutex
	events       []Event
	byCollection map[domain.Address][]int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byCollection: make(map[domain.Address][]int)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if !event.Collection.IsZero() {
		s.byCollection[event.Collection] = append(s.byCollection[event.Collection], len(s.events)-1)
	}
	return nil
}

// List returns a copy of the full trail in append order.
func (s *InMemoryStore) List(_ context.Context) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events...), nil
}

// ListByCollection returns events touching the given collection, in order.
func (s *InMemoryStore) ListByCollection(_ context.Context, collection domain.Address) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idxs := s.byCollection[collection]
	out := make([]Event, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, s.events[i])
	}
	return out, nil
}

// Clear drops all events. Test helper.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	s.byCollection = make(map[domain.Address][]int)
}
