// Package ports defines the collaborator-facing interfaces the validator
// depends on. Implementations live with the chain environment and the managed
// token, not with the validator.
package ports

import (
	"context"

	"tokengate/pkg/domain"
)

// ChainState answers questions about deployed account state. The validator
// uses it to distinguish plain wallets from contracts when a level constrains
// receivers.
type ChainState interface {
	// HasCode reports whether account currently has deployed contract code.
	HasCode(ctx context.Context, account domain.Address) (bool, error)
}

// CollectionAuthority is the collaborator token's "may this actor administer
// this collection's policy" predicate. The managed token defines what
// elevated permission means; typically it is contract ownership.
type CollectionAuthority interface {
	IsAuthorized(ctx context.Context, collection, actor domain.Address) (bool, error)
}
