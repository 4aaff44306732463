package validator

import (
	"context"
	"time"

	allowlistmodels "tokengate/internal/allowlist/models"
	"tokengate/internal/policy"
	"tokengate/internal/validator/tracer"
	"tokengate/pkg/domain"
	dErrors "tokengate/pkg/domain-errors"
	"tokengate/pkg/platform/audit"
)

// TransferRequest is one caller/from/to triple evaluated against a
// collection's policy.
type TransferRequest struct {
	Collection domain.Address
	Caller     domain.Address
	From       domain.Address
	To         domain.Address
}

// IsTransferAllowed is the pure pre-check: it evaluates the collection's
// current policy without mutating anything, so collaborators can probe before
// attempting a transfer. The same evaluation runs again at transfer time;
// nothing is cached between the two calls.
func (s *Service) IsTransferAllowed(ctx context.Context, req TransferRequest) (bool, error) {
	err := s.evaluate(ctx, req)
	if err == nil {
		return true, nil
	}
	if isPolicyDenial(err) {
		return false, err
	}
	// Infrastructure failure, not a decision.
	return false, err
}

// ApplyCollectionTransferPolicy is the transfer-time entry point. It runs the
// identical evaluation and additionally records metrics and a denial event,
// so the audit trail reflects enforced outcomes rather than pre-checks.
func (s *Service) ApplyCollectionTransferPolicy(ctx context.Context, req TransferRequest) error {
	start := time.Now()
	err := s.evaluate(ctx, req)
	if s.metrics != nil {
		s.metrics.IncrementEvaluated()
		s.metrics.ObserveEvaluate(start)
	}
	if err == nil {
		return nil
	}
	if isPolicyDenial(err) {
		reason := string(dErrors.CodeOf(err))
		if s.metrics != nil {
			s.metrics.IncrementDenied(reason)
		}
		s.emit(ctx, audit.Event{
			Action:     audit.ActionTransferDenied,
			Actor:      req.Caller,
			Subject:    req.To,
			Collection: req.Collection,
			Reason:     reason,
		})
		s.log(ctx, "transfer denied",
			"collection", req.Collection,
			"caller", req.Caller,
			"from", req.From,
			"to", req.To,
			"reason", reason,
		)
	}
	return err
}

// evaluate runs the security-level state machine in order: load policy,
// operator whitelist check (with sentinel and OTC short-circuits), then the
// receiver constraint.
func (s *Service) evaluate(ctx context.Context, req TransferRequest) (err error) {
	pol, err := s.policies.Get(ctx, req.Collection)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load collection policy")
	}
	rules := pol.Level.Rules()

	ctx, span := s.tracer.Start(ctx, tracer.SpanEvaluate,
		tracer.String(tracer.AttrCollection, req.Collection.Hex()),
		tracer.String(tracer.AttrCaller, req.Caller.Hex()),
		tracer.String(tracer.AttrLevel, pol.Level.String()),
	)
	defer func() {
		span.SetAttributes(tracer.Bool(tracer.AttrAllowed, err == nil))
		if err != nil && isPolicyDenial(err) {
			span.SetAttributes(tracer.String(tracer.AttrDenyReason, string(dErrors.CodeOf(err))))
			// Denials are decisions, not span failures.
			span.End(nil)
			return
		}
		span.End(err)
	}()

	if err := s.checkOperatorWhitelist(ctx, pol, rules, req); err != nil {
		return err
	}
	return s.checkReceiverConstraint(ctx, pol, rules, req.To)
}

func (s *Service) checkOperatorWhitelist(ctx context.Context, pol policy.CollectionSecurityPolicy, rules policy.LevelRules, req TransferRequest) error {
	// An unbound whitelist (sentinel id 0) disables enforcement entirely.
	if !rules.WhitelistEnforced || pol.OperatorWhitelistID.IsNone() {
		return nil
	}
	// OTC exemption: the holder moving their own token bypasses the
	// whitelist on levels that allow it.
	if rules.OTCExempt && req.Caller == req.From {
		return nil
	}

	member, err := s.lists.IsMember(ctx, allowlistmodels.KindOperators, pol.OperatorWhitelistID, req.Caller)
	if err != nil {
		return err
	}
	if !member {
		return ErrCallerMustBeWhitelistedOperator
	}
	return nil
}

func (s *Service) checkReceiverConstraint(ctx context.Context, pol policy.CollectionSecurityPolicy, rules policy.LevelRules, to domain.Address) error {
	switch rules.Receiver {
	case policy.ReceiverUnconstrained:
		return nil

	case policy.ReceiverNoCode:
		hasCode, err := s.chain.HasCode(ctx, to)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "chain state lookup failed")
		}
		if !hasCode {
			return nil
		}
		permitted, err := s.isPermittedReceiver(ctx, pol, to)
		if err != nil {
			return err
		}
		if !permitted {
			return ErrReceiverMustNotHaveDeployedCode
		}
		return nil

	case policy.ReceiverVerifiedEOA:
		if s.eoa.IsVerified(ctx, to) {
			return nil
		}
		permitted, err := s.isPermittedReceiver(ctx, pol, to)
		if err != nil {
			return err
		}
		if !permitted {
			return ErrReceiverProofOfEOASignatureUnverified
		}
		return nil
	}
	return nil
}

func (s *Service) isPermittedReceiver(ctx context.Context, pol policy.CollectionSecurityPolicy, to domain.Address) (bool, error) {
	if pol.PermittedContractReceiversID.IsNone() {
		return false, nil
	}
	return s.lists.IsMember(ctx, allowlistmodels.KindPermittedContractReceivers, pol.PermittedContractReceiversID, to)
}

// isPolicyDenial distinguishes "the policy said no" from infrastructure
// failures.
func isPolicyDenial(err error) bool {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeOperatorNotWhitelisted,
		dErrors.CodeReceiverHasCode,
		dErrors.CodeReceiverNotVerifiedEOA:
		return true
	}
	return false
}
