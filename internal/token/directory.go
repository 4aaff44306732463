package token

import (
	"context"
	"sync"

	"tokengate/pkg/domain"
)

// Directory indexes managed collections by address and answers the
// validator's elevated-permission queries: an actor is authorized for a
// collection exactly when that collection's contract owner matches. Unknown
// collections authorize nobody.
type Directory struct {
	mu          sync.RWMutex
	collections map[domain.Address]*Collection
}

func NewDirectory() *Directory {
	return &Directory{collections: make(map[domain.Address]*Collection)}
}

// Register adds a collection to the directory.
func (d *Directory) Register(c *Collection) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.collections[c.Address()] = c
}

// Get returns the collection at address.
func (d *Directory) Get(address domain.Address) (*Collection, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.collections[address]
	return c, ok
}

// IsAuthorized implements ports.CollectionAuthority.
func (d *Directory) IsAuthorized(_ context.Context, collection, actor domain.Address) (bool, error) {
	d.mu.RLock()
	c, ok := d.collections[collection]
	d.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return c.Owner() == actor, nil
}
