// Package token is a reference collaborator: a minimal managed collectible
// that installs a transfer validator and consults it before every ownership
// move. Mint and approval mechanics are deliberately the bare minimum needed
// to exercise the policy engine.
package token

import (
	"context"
	"log/slog"
	"sync"

	capability "tokengate/contracts/capability"
	"tokengate/internal/policy"
	"tokengate/internal/validator"
	"tokengate/pkg/domain"
	dErrors "tokengate/pkg/domain-errors"
)

// Domain errors surfaced by the token.
var (
	ErrInvalidTransferValidatorContract = dErrors.New(
		dErrors.CodeInvalidValidatorContract,
		"referenced validator does not implement the transfer-validation capability set")
	ErrOnlyCollectionOwner = dErrors.New(dErrors.CodeForbidden,
		"only the collection owner may perform this action")
	ErrTokenNotFound  = dErrors.New(dErrors.CodeNotFound, "token does not exist")
	ErrNotTokenHolder = dErrors.New(dErrors.CodeForbidden, "from is not the current holder")
	ErrCallerNotApproved = dErrors.New(dErrors.CodeForbidden,
		"caller is neither the holder nor an approved operator")
)

// TokenID identifies one collectible within a collection.
type TokenID uint64

// TransferValidator is the minimal surface the token needs from an installed
// validator: the capability probe and the transfer-time check.
type TransferValidator interface {
	capability.Prober
	ApplyCollectionTransferPolicy(ctx context.Context, req validator.TransferRequest) error
}

// CreatorTokenValidator adds the policy setters used by the one-call
// installer.
type CreatorTokenValidator interface {
	TransferValidator
	SetTransferSecurityLevelOfCollection(ctx context.Context, caller, collection domain.Address, level policy.TransferSecurityLevel) error
	SetOperatorWhitelistOfCollection(ctx context.Context, caller, collection domain.Address, id domain.AllowlistID) error
	SetPermittedContractReceiverAllowlistOfCollection(ctx context.Context, caller, collection domain.Address, id domain.AllowlistID) error
}

// Collection is one managed token contract.
type Collection struct {
	mu        sync.RWMutex
	address   domain.Address
	owner     domain.Address
	holders   map[TokenID]domain.Address
	operators map[domain.Address]map[domain.Address]bool
	validator TransferValidator

	logger *slog.Logger
}

// Option configures a Collection.
type Option func(*Collection)

func WithLogger(l *slog.Logger) Option {
	return func(c *Collection) {
		c.logger = l
	}
}

// NewCollection creates a collection at address, administered by owner. No
// validator is installed; transfers are unconditionally allowed until one is.
func NewCollection(address, owner domain.Address, opts ...Option) *Collection {
	c := &Collection{
		address:   address,
		owner:     owner,
		holders:   make(map[TokenID]domain.Address),
		operators: make(map[domain.Address]map[domain.Address]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Address returns the collection's identity.
func (c *Collection) Address() domain.Address {
	return c.address
}

// Owner returns the address holding elevated permission over the collection.
func (c *Collection) Owner() domain.Address {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.owner
}

// SetTransferValidator installs (or clears, with nil) the validator
// reference. The capability set is probed once here and the reference cached;
// a reference that fails the probe is rejected outright.
func (c *Collection) SetTransferValidator(_ context.Context, caller domain.Address, v TransferValidator) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.owner {
		return ErrOnlyCollectionOwner
	}
	if v != nil && !capability.SupportsAll(v, capability.TransferValidator) {
		return ErrInvalidTransferValidatorContract
	}
	c.validator = v
	return nil
}

// SetToCustomValidatorAndSecurityPolicy atomically installs a validator and
// its initial policy in a single call, so a token can adopt the full creator
// stack at once.
func (c *Collection) SetToCustomValidatorAndSecurityPolicy(
	ctx context.Context,
	caller domain.Address,
	v CreatorTokenValidator,
	level policy.TransferSecurityLevel,
	operatorWhitelistID domain.AllowlistID,
	permittedReceiversID domain.AllowlistID,
) error {
	if v == nil || !capability.SupportsAll(v, capability.CreatorTokenValidator) {
		return ErrInvalidTransferValidatorContract
	}
	if err := c.SetTransferValidator(ctx, caller, v); err != nil {
		return err
	}
	if err := v.SetTransferSecurityLevelOfCollection(ctx, caller, c.address, level); err != nil {
		return err
	}
	if err := v.SetOperatorWhitelistOfCollection(ctx, caller, c.address, operatorWhitelistID); err != nil {
		return err
	}
	return v.SetPermittedContractReceiverAllowlistOfCollection(ctx, caller, c.address, permittedReceiversID)
}

// Mint assigns a fresh token to holder. Owner-only test scaffolding.
func (c *Collection) Mint(_ context.Context, caller, holder domain.Address, id TokenID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.owner {
		return ErrOnlyCollectionOwner
	}
	if _, exists := c.holders[id]; exists {
		return dErrors.New(dErrors.CodeConflict, "token already minted")
	}
	c.holders[id] = holder
	return nil
}

// SetApprovalForAll lets holder authorize operator for all their tokens.
func (c *Collection) SetApprovalForAll(_ context.Context, holder, operator domain.Address, approved bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.operators[holder] == nil {
		c.operators[holder] = make(map[domain.Address]bool)
	}
	c.operators[holder][operator] = approved
}

// HolderOf returns the current holder of id.
func (c *Collection) HolderOf(id TokenID) (domain.Address, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	holder, ok := c.holders[id]
	return holder, ok
}

// TransferFrom moves token id from its holder to a receiver. The installed
// validator is consulted before ownership moves; a denial aborts the whole
// transfer with the specific reason and no state change.
func (c *Collection) TransferFrom(ctx context.Context, caller, from, to domain.Address, id TokenID) error {
	c.mu.RLock()
	holder, exists := c.holders[id]
	approved := caller == from || c.operators[from][caller]
	v := c.validator
	c.mu.RUnlock()

	if !exists {
		return ErrTokenNotFound
	}
	if holder != from {
		return ErrNotTokenHolder
	}
	if !approved {
		return ErrCallerNotApproved
	}

	// A collection without an installed validator skips policy evaluation
	// entirely; that is the collaborator-level bypass.
	if v != nil {
		err := v.ApplyCollectionTransferPolicy(ctx, validator.TransferRequest{
			Collection: c.address,
			Caller:     caller,
			From:       from,
			To:         to,
		})
		if err != nil {
			return err
		}
	}

	c.mu.Lock()
	// Re-check under the write lock; holder may have changed between the
	// policy check and the move.
	if c.holders[id] != from {
		c.mu.Unlock()
		return ErrNotTokenHolder
	}
	c.holders[id] = to
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.InfoContext(ctx, "token transferred",
			"collection", c.address,
			"token_id", uint64(id),
			"from", from,
			"to", to,
		)
	}
	return nil
}
