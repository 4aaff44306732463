// Package audit captures the event trail for registry and policy mutations.
// Every committed state change emits exactly one event; failed operations
// emit nothing.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tokengate/pkg/domain"
)

// Event is emitted from domain logic after a mutation commits. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        uuid.UUID
	Timestamp time.Time
	Action    Action

	// Actor is the address that performed the operation.
	Actor domain.Address

	// Subject is the address the operation targeted, when there is one
	// (new owner, added/removed member, verified signer, receiver).
	Subject domain.Address

	// Collection is the token contract whose policy was touched, when the
	// action is collection-scoped.
	Collection domain.Address

	// ListKind and ListID identify the allowlist involved, when any.
	ListKind string
	ListID   domain.AllowlistID

	// Reason carries the denial code for transfer_denied events.
	Reason string

	// RequestID is the correlation id from the originating request context.
	RequestID string
}

// Action enumerates the auditable operations.
type Action string

const (
	ActionAllowlistCreated     Action = "allowlist_created"
	ActionOwnershipReassigned  Action = "allowlist_ownership_reassigned"
	ActionOwnershipRenounced   Action = "allowlist_ownership_renounced"
	ActionAddedToAllowlist     Action = "added_to_allowlist"
	ActionRemovedFromAllowlist Action = "removed_from_allowlist"
	ActionSecurityLevelSet     Action = "transfer_security_level_set"
	ActionOperatorListBound    Action = "operator_whitelist_bound"
	ActionReceiverListBound    Action = "permitted_receivers_bound"
	ActionEOAVerified          Action = "eoa_signature_verified"
	ActionTransferDenied       Action = "transfer_denied"
)

// Store persists events. Implementations must be safe for concurrent use.
type Store interface {
	Append(ctx context.Context, event Event) error
}
