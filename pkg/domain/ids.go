package domain

import (
	"fmt"
	"strconv"
)

// AllowlistID identifies one allowlist within its kind. Id 0 is the reserved
// sentinel meaning "no allowlist bound"; real ids start at 1 and increase
// monotonically per kind. The original storage packed these into 120 bits;
// uint64 is more than the counters will ever reach.
type AllowlistID uint64

// NoAllowlist is the sentinel id meaning no list is bound.
const NoAllowlist AllowlistID = 0

// IsNone reports whether the id is the "no allowlist" sentinel.
func (id AllowlistID) IsNone() bool {
	return id == NoAllowlist
}

// String renders the id in decimal.
func (id AllowlistID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseAllowlistID parses a decimal allowlist id.
func ParseAllowlistID(s string) (AllowlistID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid allowlist id %q: %w", s, err)
	}
	return AllowlistID(v), nil
}
