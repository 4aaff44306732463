// Package eoa records which wallet addresses have proven they are externally
// owned by signing a fixed, well-known message. Verification is tied to the
// signer: the address is recovered from the signature itself, so a caller can
// only ever verify its own key.
package eoa

import (
	"context"
	"fmt"
	"log/slog"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"tokengate/pkg/domain"
	dErrors "tokengate/pkg/domain-errors"
	"tokengate/pkg/platform/audit"
	platformsync "tokengate/pkg/platform/sync"
)

// VerificationMessage is the constant message every wallet signs to prove it
// is externally owned.
const VerificationMessage = "EOA"

// SignedMessageHash returns the EIP-191 personal-sign digest of the fixed
// verification message. Wallets sign exactly this hash.
func SignedMessageHash() []byte {
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(VerificationMessage), VerificationMessage)
	return ethcrypto.Keccak256([]byte(prefixed))
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Registry is the append-only set of verified externally-owned addresses.
// Records are created once and never unset. Membership is sharded so
// transfer-time lookups do not contend with verifications.
type Registry struct {
	verified *platformsync.ShardedAddressSet

	auditor AuditPublisher
	logger  *slog.Logger
}

// Option configures the Registry.
type Option func(*Registry)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(r *Registry) {
		r.auditor = publisher
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{verified: platformsync.NewShardedAddressSet()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// VerifySignature recovers the signer of a 65-byte [R || S || V] secp256k1
// signature over SignedMessageHash and marks that address verified. V may be
// 0/1 or the legacy 27/28. Re-verifying an already-verified address is a
// no-op, not an error.
func (r *Registry) VerifySignature(ctx context.Context, sig []byte) (domain.Address, error) {
	if len(sig) != 65 {
		return domain.ZeroAddress, dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("signature must be 65 bytes, got %d", len(sig)))
	}

	normalized := make([]byte, 65)
	copy(normalized, sig)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}
	if normalized[64] > 1 {
		return domain.ZeroAddress, dErrors.New(dErrors.CodeInvalidInput, "invalid recovery id")
	}

	pub, err := ethcrypto.SigToPub(SignedMessageHash(), normalized)
	if err != nil {
		return domain.ZeroAddress, dErrors.Wrap(err, dErrors.CodeInvalidInput, "signature recovery failed")
	}
	signer, err := domain.AddressFromBytes(ethcrypto.PubkeyToAddress(*pub).Bytes())
	if err != nil {
		return domain.ZeroAddress, dErrors.Wrap(err, dErrors.CodeInternal, "recovered address malformed")
	}

	if r.verified.Add(signer) {
		if r.auditor != nil {
			if err := r.auditor.Emit(ctx, audit.Event{
				Action:  audit.ActionEOAVerified,
				Actor:   signer,
				Subject: signer,
			}); err != nil && r.logger != nil {
				r.logger.ErrorContext(ctx, "failed to emit audit event", "error", err)
			}
		}
		if r.logger != nil {
			r.logger.InfoContext(ctx, "eoa signature verified", "signer", signer)
		}
	}

	return signer, nil
}

// IsVerified reports whether account has completed signature verification.
func (r *Registry) IsVerified(_ context.Context, account domain.Address) bool {
	return r.verified.Contains(account)
}
