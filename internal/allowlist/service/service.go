package service

import (
	"context"
	"errors"
	"log/slog"

	allowlistmetrics "tokengate/internal/allowlist/metrics"
	"tokengate/internal/allowlist/models"
	"tokengate/internal/sentinel"
	"tokengate/pkg/domain"
	dErrors "tokengate/pkg/domain-errors"
	"tokengate/pkg/platform/audit"
	"tokengate/pkg/platform/validation"
)

// Domain errors surfaced by the registry. Callers match these with errors.Is.
var (
	ErrAllowlistDoesNotExist = dErrors.New(dErrors.CodeAllowlistDoesNotExist,
		"allowlist does not exist")
	ErrCallerDoesNotOwnAllowlist = dErrors.New(dErrors.CodeNotAllowlistOwner,
		"caller does not own allowlist")
	ErrOwnershipCannotBeTransferredToZeroAddress = dErrors.New(dErrors.CodeZeroAddressOwner,
		"allowlist ownership cannot be transferred to the zero address")
	ErrAddressAlreadyAllowed = dErrors.New(dErrors.CodeAddressAlreadyAllowed,
		"address is already on the allowlist")
	ErrAddressNotAllowed = dErrors.New(dErrors.CodeAddressNotAllowed,
		"address is not on the allowlist")
)

// Store is the persistence port for the registry. Conditional mutations take
// the expected owner so the authorization check and the mutation are atomic;
// a failed check leaves the store untouched.
type Store interface {
	Create(ctx context.Context, kind models.Kind, name string, owner domain.Address) (*models.Allowlist, error)
	Get(ctx context.Context, kind models.Kind, id domain.AllowlistID) (*models.Allowlist, error)
	LastID(ctx context.Context, kind models.Kind) (domain.AllowlistID, error)
	SetOwnerIf(ctx context.Context, kind models.Kind, id domain.AllowlistID, expected, newOwner domain.Address) error
	AddMemberIf(ctx context.Context, kind models.Kind, id domain.AllowlistID, owner, account domain.Address) error
	RemoveMemberIf(ctx context.Context, kind models.Kind, id domain.AllowlistID, owner, account domain.Address) error
	IsMember(ctx context.Context, kind models.Kind, id domain.AllowlistID, account domain.Address) (bool, error)
	Members(ctx context.Context, kind models.Kind, id domain.AllowlistID) ([]domain.Address, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service owns allowlist lifecycle and membership rules. Events are emitted
// only after the underlying mutation commits.
type Service struct {
	store   Store
	auditor AuditPublisher
	metrics *allowlistmetrics.Metrics
	logger  *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = publisher
	}
}

func WithMetrics(m *allowlistmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create allocates a new allowlist of the given kind owned by caller. Names
// are display-only; no uniqueness is enforced.
func (s *Service) Create(ctx context.Context, kind models.Kind, caller domain.Address, name string) (*models.Allowlist, error) {
	if caller.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "allowlist owner cannot be the zero address")
	}
	if !kind.Valid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown allowlist kind")
	}
	if err := validation.CheckStringLength("name", name, validation.MaxAllowlistNameLength); err != nil {
		return nil, err
	}

	list, err := s.store.Create(ctx, kind, name, caller)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create allowlist")
	}

	s.emit(ctx, audit.Event{
		Action:   audit.ActionAllowlistCreated,
		Actor:    caller,
		Subject:  caller,
		ListKind: kind.String(),
		ListID:   list.ID,
	})
	if s.metrics != nil {
		s.metrics.IncrementCreated(kind.String())
	}
	s.log(ctx, "allowlist created", "kind", kind, "id", list.ID, "owner", caller)

	return list, nil
}

// ReassignOwnership moves ownership of the list to newOwner. Transferring to
// the zero address is rejected; renouncing is a separate, deliberate call.
func (s *Service) ReassignOwnership(ctx context.Context, kind models.Kind, id domain.AllowlistID, caller, newOwner domain.Address) error {
	if newOwner.IsZero() {
		return ErrOwnershipCannotBeTransferredToZeroAddress
	}
	if err := s.store.SetOwnerIf(ctx, kind, id, caller, newOwner); err != nil {
		return translateMutationErr(err)
	}

	s.emit(ctx, audit.Event{
		Action:   audit.ActionOwnershipReassigned,
		Actor:    caller,
		Subject:  newOwner,
		ListKind: kind.String(),
		ListID:   id,
	})
	if s.metrics != nil {
		s.metrics.IncrementOwnershipChange()
	}
	s.log(ctx, "allowlist ownership reassigned", "kind", kind, "id", id, "new_owner", newOwner)
	return nil
}

// RenounceOwnership sets the owner to the zero address, permanently freezing
// the list: every further mutation requires an owner match and the zero
// address can never be a caller.
func (s *Service) RenounceOwnership(ctx context.Context, kind models.Kind, id domain.AllowlistID, caller domain.Address) error {
	if err := s.store.SetOwnerIf(ctx, kind, id, caller, domain.ZeroAddress); err != nil {
		return translateMutationErr(err)
	}

	s.emit(ctx, audit.Event{
		Action:   audit.ActionOwnershipRenounced,
		Actor:    caller,
		ListKind: kind.String(),
		ListID:   id,
	})
	if s.metrics != nil {
		s.metrics.IncrementOwnershipChange()
	}
	s.log(ctx, "allowlist ownership renounced", "kind", kind, "id", id)
	return nil
}

// Add appends account to the list.
func (s *Service) Add(ctx context.Context, kind models.Kind, id domain.AllowlistID, caller, account domain.Address) error {
	if err := s.store.AddMemberIf(ctx, kind, id, caller, account); err != nil {
		return translateMutationErr(err)
	}

	s.emit(ctx, audit.Event{
		Action:   audit.ActionAddedToAllowlist,
		Actor:    caller,
		Subject:  account,
		ListKind: kind.String(),
		ListID:   id,
	})
	if s.metrics != nil {
		s.metrics.IncrementMembership(kind.String(), "add")
	}
	return nil
}

// Remove deletes account from the list.
func (s *Service) Remove(ctx context.Context, kind models.Kind, id domain.AllowlistID, caller, account domain.Address) error {
	if err := s.store.RemoveMemberIf(ctx, kind, id, caller, account); err != nil {
		return translateMutationErr(err)
	}

	s.emit(ctx, audit.Event{
		Action:   audit.ActionRemovedFromAllowlist,
		Actor:    caller,
		Subject:  account,
		ListKind: kind.String(),
		ListID:   id,
	})
	if s.metrics != nil {
		s.metrics.IncrementMembership(kind.String(), "remove")
	}
	return nil
}

// IsMember answers membership. The sentinel id 0 and never-issued ids are not
// memberships, never errors.
func (s *Service) IsMember(ctx context.Context, kind models.Kind, id domain.AllowlistID, account domain.Address) (bool, error) {
	member, err := s.store.IsMember(ctx, kind, id, account)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to query membership")
	}
	return member, nil
}

// Members enumerates the list in insertion order.
func (s *Service) Members(ctx context.Context, kind models.Kind, id domain.AllowlistID) ([]domain.Address, error) {
	members, err := s.store.Members(ctx, kind, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, ErrAllowlistDoesNotExist
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to enumerate members")
	}
	return members, nil
}

// Get loads a single allowlist.
func (s *Service) Get(ctx context.Context, kind models.Kind, id domain.AllowlistID) (*models.Allowlist, error) {
	list, err := s.store.Get(ctx, kind, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, ErrAllowlistDoesNotExist
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load allowlist")
	}
	return list, nil
}

// Exists reports whether id was ever issued for the kind. Id 0 always exists
// as the "no allowlist" sentinel.
func (s *Service) Exists(ctx context.Context, kind models.Kind, id domain.AllowlistID) (bool, error) {
	if id.IsNone() {
		return true, nil
	}
	last, err := s.store.LastID(ctx, kind)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load id counter")
	}
	return id <= last, nil
}

func translateMutationErr(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return ErrAllowlistDoesNotExist
	case errors.Is(err, sentinel.ErrNotOwner):
		return ErrCallerDoesNotOwnAllowlist
	case errors.Is(err, sentinel.ErrAlreadyExists):
		return ErrAddressAlreadyAllowed
	case errors.Is(err, sentinel.ErrNotMember):
		return ErrAddressNotAllowed
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "allowlist mutation failed")
	}
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
