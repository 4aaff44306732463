// Package validator is the entry point a managed token calls on every
// transfer attempt. It binds the allowlist registry, the collection policy
// store, the EOA registry, and the chain-state port into one policy decision,
// and exposes the administrative surface collection owners use to configure
// that policy.
package validator

import (
	"context"
	"log/slog"

	capability "tokengate/contracts/capability"
	allowlistmodels "tokengate/internal/allowlist/models"
	"tokengate/internal/policy"
	validatormetrics "tokengate/internal/validator/metrics"
	"tokengate/internal/validator/ports"
	"tokengate/internal/validator/tracer"
	"tokengate/pkg/domain"
	dErrors "tokengate/pkg/domain-errors"
	"tokengate/pkg/platform/audit"
)

// Domain errors surfaced by the validator. Callers match these with errors.Is.
var (
	ErrCallerMustHaveElevatedPermissionsForSpecifiedNFT = dErrors.New(
		dErrors.CodeElevatedPermissionsRequired,
		"caller must have elevated permissions for the specified collection")
	ErrCallerMustBeWhitelistedOperator = dErrors.New(
		dErrors.CodeOperatorNotWhitelisted,
		"caller must be a whitelisted operator")
	ErrReceiverMustNotHaveDeployedCode = dErrors.New(
		dErrors.CodeReceiverHasCode,
		"receiver must not have deployed code")
	ErrReceiverProofOfEOASignatureUnverified = dErrors.New(
		dErrors.CodeReceiverNotVerifiedEOA,
		"receiver has not verified proof-of-EOA signature")
)

// Allowlists is the registry surface the validator consumes and re-exposes.
type Allowlists interface {
	Create(ctx context.Context, kind allowlistmodels.Kind, caller domain.Address, name string) (*allowlistmodels.Allowlist, error)
	ReassignOwnership(ctx context.Context, kind allowlistmodels.Kind, id domain.AllowlistID, caller, newOwner domain.Address) error
	RenounceOwnership(ctx context.Context, kind allowlistmodels.Kind, id domain.AllowlistID, caller domain.Address) error
	Add(ctx context.Context, kind allowlistmodels.Kind, id domain.AllowlistID, caller, account domain.Address) error
	Remove(ctx context.Context, kind allowlistmodels.Kind, id domain.AllowlistID, caller, account domain.Address) error
	IsMember(ctx context.Context, kind allowlistmodels.Kind, id domain.AllowlistID, account domain.Address) (bool, error)
	Members(ctx context.Context, kind allowlistmodels.Kind, id domain.AllowlistID) ([]domain.Address, error)
	Get(ctx context.Context, kind allowlistmodels.Kind, id domain.AllowlistID) (*allowlistmodels.Allowlist, error)
	Exists(ctx context.Context, kind allowlistmodels.Kind, id domain.AllowlistID) (bool, error)
}

// PolicyStore persists per-collection security policies.
type PolicyStore interface {
	Get(ctx context.Context, collection domain.Address) (policy.CollectionSecurityPolicy, error)
	SetLevel(ctx context.Context, collection domain.Address, level policy.TransferSecurityLevel) error
	SetOperatorWhitelist(ctx context.Context, collection domain.Address, id domain.AllowlistID) error
	SetPermittedContractReceivers(ctx context.Context, collection domain.Address, id domain.AllowlistID) error
}

// EOAVerifier answers whether an address has proven EOA control.
type EOAVerifier interface {
	IsVerified(ctx context.Context, account domain.Address) bool
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service wires the registries into the transfer decision and the
// administrative mutators.
type Service struct {
	policies  PolicyStore
	lists     Allowlists
	eoa       EOAVerifier
	chain     ports.ChainState
	authority ports.CollectionAuthority

	auditor AuditPublisher
	metrics *validatormetrics.Metrics
	tracer  tracer.Tracer
	logger  *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

func WithMetrics(m *validatormetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New creates the validator facade. Panics if required collaborators are
// nil - fail fast at startup.
func New(
	policies PolicyStore,
	lists Allowlists,
	eoa EOAVerifier,
	chain ports.ChainState,
	authority ports.CollectionAuthority,
	opts ...Option,
) *Service {
	if policies == nil {
		panic("validator.New: policy store is required")
	}
	if lists == nil {
		panic("validator.New: allowlist registry is required")
	}
	if eoa == nil {
		panic("validator.New: eoa verifier is required")
	}
	if chain == nil {
		panic("validator.New: chain state is required")
	}
	if authority == nil {
		panic("validator.New: collection authority is required")
	}

	s := &Service{
		policies:  policies,
		lists:     lists,
		eoa:       eoa,
		chain:     chain,
		authority: authority,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = tracer.NewNoop()
	}
	return s
}

// Supports implements capability.Prober. This validator carries the full
// capability set, including the composite creator-token role.
func (s *Service) Supports(id capability.ID) bool {
	switch id {
	case capability.TransferValidator,
		capability.TransferSecurityRegistry,
		capability.EOARegistry,
		capability.CreatorTokenValidator:
		return true
	}
	return false
}

// GetCollectionSecurityPolicy returns the collection's policy, defaulting to
// level Recommended with both bindings unset.
func (s *Service) GetCollectionSecurityPolicy(ctx context.Context, collection domain.Address) (policy.CollectionSecurityPolicy, error) {
	pol, err := s.policies.Get(ctx, collection)
	if err != nil {
		return policy.CollectionSecurityPolicy{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load collection policy")
	}
	return pol, nil
}

// SetTransferSecurityLevelOfCollection stores the collection's level. Caller
// must hold elevated permission over the collection.
func (s *Service) SetTransferSecurityLevelOfCollection(ctx context.Context, caller, collection domain.Address, level policy.TransferSecurityLevel) error {
	if !level.Valid() {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown transfer security level")
	}
	if err := s.requireElevatedPermissions(ctx, collection, caller); err != nil {
		return err
	}
	if err := s.policies.SetLevel(ctx, collection, level); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store security level")
	}

	s.emit(ctx, audit.Event{
		Action:     audit.ActionSecurityLevelSet,
		Actor:      caller,
		Collection: collection,
		Reason:     level.String(),
	})
	if s.metrics != nil {
		s.metrics.IncrementPolicyUpdate()
	}
	s.log(ctx, "transfer security level set", "collection", collection, "level", level)
	return nil
}

// SetOperatorWhitelistOfCollection binds an operator whitelist to the
// collection. Id 0 clears the binding and is always valid.
func (s *Service) SetOperatorWhitelistOfCollection(ctx context.Context, caller, collection domain.Address, id domain.AllowlistID) error {
	return s.bindAllowlist(ctx, caller, collection, allowlistmodels.KindOperators, id)
}

// SetPermittedContractReceiverAllowlistOfCollection binds a permitted
// contract receivers list to the collection. Id 0 clears the binding.
func (s *Service) SetPermittedContractReceiverAllowlistOfCollection(ctx context.Context, caller, collection domain.Address, id domain.AllowlistID) error {
	return s.bindAllowlist(ctx, caller, collection, allowlistmodels.KindPermittedContractReceivers, id)
}

func (s *Service) bindAllowlist(ctx context.Context, caller, collection domain.Address, kind allowlistmodels.Kind, id domain.AllowlistID) error {
	if err := s.requireElevatedPermissions(ctx, collection, caller); err != nil {
		return err
	}
	exists, err := s.lists.Exists(ctx, kind, id)
	if err != nil {
		return err
	}
	if !exists {
		return dErrors.New(dErrors.CodeAllowlistDoesNotExist, "allowlist does not exist")
	}

	var (
		action audit.Action
		store  func(context.Context, domain.Address, domain.AllowlistID) error
	)
	switch kind {
	case allowlistmodels.KindOperators:
		action = audit.ActionOperatorListBound
		store = s.policies.SetOperatorWhitelist
	default:
		action = audit.ActionReceiverListBound
		store = s.policies.SetPermittedContractReceivers
	}
	if err := store(ctx, collection, id); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store allowlist binding")
	}

	s.emit(ctx, audit.Event{
		Action:     action,
		Actor:      caller,
		Collection: collection,
		ListKind:   kind.String(),
		ListID:     id,
	})
	if s.metrics != nil {
		s.metrics.IncrementPolicyUpdate()
	}
	s.log(ctx, "collection allowlist bound", "collection", collection, "kind", kind, "id", id)
	return nil
}

func (s *Service) requireElevatedPermissions(ctx context.Context, collection, actor domain.Address) error {
	ok, err := s.authority.IsAuthorized(ctx, collection, actor)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "authority check failed")
	}
	if !ok {
		return ErrCallerMustHaveElevatedPermissionsForSpecifiedNFT
	}
	return nil
}

// CreateOperatorWhitelist allocates a new operator whitelist owned by caller.
func (s *Service) CreateOperatorWhitelist(ctx context.Context, caller domain.Address, name string) (domain.AllowlistID, error) {
	list, err := s.lists.Create(ctx, allowlistmodels.KindOperators, caller, name)
	if err != nil {
		return 0, err
	}
	return list.ID, nil
}

// CreatePermittedContractReceiverAllowlist allocates a new permitted
// contract receivers list owned by caller.
func (s *Service) CreatePermittedContractReceiverAllowlist(ctx context.Context, caller domain.Address, name string) (domain.AllowlistID, error) {
	list, err := s.lists.Create(ctx, allowlistmodels.KindPermittedContractReceivers, caller, name)
	if err != nil {
		return 0, err
	}
	return list.ID, nil
}

// Registry returns the allowlist surface for ownership and membership
// administration. Handlers go through the facade so there is a single
// installable object.
func (s *Service) Registry() Allowlists {
	return s.lists
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event", "error", err, "action", event.Action)
	}
}

func (s *Service) log(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}
