package domainerrors

import "errors"

// Code represents a domain error category independent of transport layer.
// These codes describe what went wrong in business logic terms, not HTTP terms.
type Code string

const (
	CodeNotFound     Code = "not_found"
	CodeBadRequest   Code = "bad_request"
	CodeInvalidInput Code = "invalid_input"
	CodeInternal     Code = "internal_error"
	CodeConflict     Code = "conflict"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"

	// Allowlist registry codes. Each mutation failure carries its own code so
	// callers can branch on the exact reason rather than a broad category.
	CodeAllowlistDoesNotExist Code = "allowlist_does_not_exist"
	CodeNotAllowlistOwner     Code = "caller_does_not_own_allowlist"
	CodeZeroAddressOwner      Code = "ownership_cannot_be_transferred_to_zero_address"
	CodeAddressAlreadyAllowed Code = "address_already_allowed"
	CodeAddressNotAllowed     Code = "address_not_allowed"

	// Collection administration codes.
	CodeElevatedPermissionsRequired Code = "caller_must_have_elevated_permissions_for_specified_nft"

	// Transfer policy denial codes. These are decisions, not bugs: the policy
	// evaluated cleanly and blocked the transfer.
	CodeOperatorNotWhitelisted Code = "caller_must_be_whitelisted_operator"
	CodeReceiverHasCode        Code = "receiver_must_not_have_deployed_code"
	CodeReceiverNotVerifiedEOA Code = "receiver_proof_of_eoa_signature_unverified"

	// Configuration codes.
	CodeInvalidValidatorContract Code = "invalid_transfer_validator_contract"
)

// Error wraps domain or infrastructure failures with a stable code.
// It is transport-agnostic and can be used across service, store, and other layers.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code is preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		// Preserve the original domain code, update message
		return &Error{Code: existing.Code, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns the domain code carried by err, or CodeInternal when err is
// not a domain error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
