// Package capability defines the capability identifiers a collaborator token
// probes for before installing a validator reference. It is a standalone
// contract module so token implementations can depend on it without importing
// the validator itself.
package capability

// ContractVersion identifies the schema for capability negotiation shared
// across the validator and collaborator tokens.
const ContractVersion = "v0.1.0"

// ID names one logical capability a validator may expose.
type ID string

const (
	// TransferValidator is the minimal capability a token requires: the
	// synchronous transfer-check entry point.
	TransferValidator ID = "transfer_validator"

	// TransferSecurityRegistry covers the administrative surface: security
	// levels, allowlist CRUD, and collection bindings.
	TransferSecurityRegistry ID = "transfer_security_registry"

	// EOARegistry covers signature-based proof that a wallet is externally
	// owned.
	EOARegistry ID = "eoa_registry"

	// CreatorTokenValidator is the composite of all of the above plus the
	// one-call installer tokens use to adopt a validator and an initial
	// policy atomically.
	CreatorTokenValidator ID = "creator_token_validator"
)

// Prober is implemented by anything that can answer a capability query.
// Tokens call Supports once at installation time and cache the result.
type Prober interface {
	Supports(id ID) bool
}

// SupportsAll reports whether p exposes every capability in ids.
func SupportsAll(p Prober, ids ...ID) bool {
	if p == nil {
		return false
	}
	for _, id := range ids {
		if !p.Supports(id) {
			return false
		}
	}
	return true
}
