// Package validation holds the input limits enforced at the trust boundary.
package validation

import (
	"fmt"

	dErrors "tokengate/pkg/domain-errors"
)

// HTTP body limits
const (
	// MaxBodySize is the maximum allowed request body size (64 KB).
	// Registry and policy requests are small JSON documents; anything
	// larger is malformed or hostile.
	MaxBodySize = 64 * 1024
)

// String element length limits
const (
	// MaxAllowlistNameLength is the maximum length of an allowlist's
	// display name.
	MaxAllowlistNameLength = 200

	// MaxSignatureHexLength is the maximum length of a hex-encoded EOA
	// proof signature: 65 bytes, 0x-prefixed.
	MaxSignatureHexLength = 2 + 65*2
)

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}
