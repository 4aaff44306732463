package models

import (
	"tokengate/pkg/domain"
)

// Kind separates the two allowlist namespaces. Each kind has its own id
// counter, so operator whitelist 1 and permitted-receivers list 1 are
// unrelated lists.
type Kind string

const (
	// KindOperators holds addresses allowed to initiate transfers on behalf
	// of a holder when a collection enforces its operator whitelist.
	KindOperators Kind = "operators"

	// KindPermittedContractReceivers holds contract addresses exempted from
	// a collection's receiver constraints.
	KindPermittedContractReceivers Kind = "permitted_contract_receivers"
)

// Valid reports whether k is one of the two known kinds.
func (k Kind) Valid() bool {
	return k == KindOperators || k == KindPermittedContractReceivers
}

func (k Kind) String() string {
	return string(k)
}

// Allowlist is a named, owned, ordered set of addresses. Lists are created
// and never deleted; renouncing ownership sets Owner to the zero address and
// freezes membership permanently, since every mutation requires an owner
// match and the zero address can never be a caller.
type Allowlist struct {
	ID    domain.AllowlistID
	Kind  Kind
	Name  string
	Owner domain.Address

	// Members preserves insertion order for enumeration.
	Members []domain.Address
}

// Renounced reports whether ownership has been renounced.
func (a *Allowlist) Renounced() bool {
	return a.Owner.IsZero()
}

// Contains reports membership by linear scan. Stores keep an index for the
// hot path; this helper is for small copies handed to callers.
func (a *Allowlist) Contains(account domain.Address) bool {
	for _, m := range a.Members {
		if m == account {
			return true
		}
	}
	return false
}
