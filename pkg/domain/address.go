package domain

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// AddressLength is the byte length of an account address.
const AddressLength = 20

// Address is a 20-byte account identifier. The zero value is the zero
// address, which is never a valid actor and doubles as the "renounced owner"
// marker on allowlists.
type Address [AddressLength]byte

// ZeroAddress is the all-zeroes address.
var ZeroAddress Address

// ParseAddress decodes a 0x-prefixed hex address. Case is not significant;
// mixed-case input is accepted without checksum validation so that fixtures
// and lowercased identifiers round-trip.
func ParseAddress(s string) (Address, error) {
	var a Address
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return a, fmt.Errorf("address must have 0x prefix: %q", s)
	}
	raw, err := hex.DecodeString(s[2:])
	if err != nil {
		return a, fmt.Errorf("invalid hex address %q: %w", s, err)
	}
	return AddressFromBytes(raw)
}

// AddressFromBytes converts a 20-byte slice into an Address.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLength {
		return a, fmt.Errorf("invalid address length: expected %d bytes, got %d", AddressLength, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// Bytes returns the address as a byte slice.
func (a Address) Bytes() []byte {
	return a[:]
}

// Hex returns the EIP-55 mixed-case checksummed representation.
func (a Address) Hex() string {
	lower := hex.EncodeToString(a[:])

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	digest := h.Sum(nil)

	out := []byte(lower)
	for i, c := range out {
		if c < 'a' || c > 'f' {
			continue
		}
		// Uppercase when the corresponding checksum nibble is >= 8.
		nibble := digest[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if nibble&0x0f >= 8 {
			out[i] = c - ('a' - 'A')
		}
	}
	return "0x" + string(out)
}

// String implements fmt.Stringer using the checksummed form.
func (a Address) String() string {
	return a.Hex()
}

// MarshalText encodes the address for JSON and log output.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

// UnmarshalText decodes a 0x-hex address.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
