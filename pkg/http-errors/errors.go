package httpErrors

import (
	"net/http"

	dErrors "tokengate/pkg/domain-errors"
)

// ToHTTPStatus maps a domain error code onto the transport layer.
// Policy denials are 403: the request was understood and evaluated, and the
// policy said no.
func ToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeNotFound, dErrors.CodeAllowlistDoesNotExist:
		return http.StatusNotFound
	case dErrors.CodeConflict, dErrors.CodeAddressAlreadyAllowed:
		return http.StatusConflict
	case dErrors.CodeAddressNotAllowed:
		return http.StatusBadRequest
	case dErrors.CodeZeroAddressOwner:
		return http.StatusBadRequest
	case dErrors.CodeForbidden,
		dErrors.CodeNotAllowlistOwner,
		dErrors.CodeElevatedPermissionsRequired,
		dErrors.CodeOperatorNotWhitelisted,
		dErrors.CodeReceiverHasCode,
		dErrors.CodeReceiverNotVerifiedEOA:
		return http.StatusForbidden
	case dErrors.CodeInvalidValidatorContract:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
