package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress_RoundTrip(t *testing.T) {
	addr, err := ParseAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	require.NoError(t, err)

	// EIP-55 reference vector.
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", addr.Hex())

	again, err := ParseAddress(addr.Hex())
	require.NoError(t, err)
	assert.Equal(t, addr, again)
}

func TestParseAddress_RejectsMissingPrefix(t *testing.T) {
	_, err := ParseAddress("5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	require.Error(t, err)
}

func TestParseAddress_RejectsWrongLength(t *testing.T) {
	_, err := ParseAddress("0xabcdef")
	require.Error(t, err)
}

func TestParseAddress_RejectsNonHex(t *testing.T) {
	_, err := ParseAddress("0xzzzeb6053f3e94c9b9a09f33669435e7ef1beaed")
	require.Error(t, err)
}

func TestAddress_ZeroValue(t *testing.T) {
	assert.True(t, ZeroAddress.IsZero())

	addr, err := ParseAddress("0x0000000000000000000000000000000000000001")
	require.NoError(t, err)
	assert.False(t, addr.IsZero())
}

func TestAddress_TextMarshalling(t *testing.T) {
	addr, err := ParseAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	require.NoError(t, err)

	text, err := addr.MarshalText()
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, addr, decoded)
}

func TestParseAllowlistID(t *testing.T) {
	id, err := ParseAllowlistID("42")
	require.NoError(t, err)
	assert.Equal(t, AllowlistID(42), id)

	_, err = ParseAllowlistID("not-a-number")
	require.Error(t, err)

	zero, err := ParseAllowlistID("0")
	require.NoError(t, err)
	assert.True(t, zero.IsNone())
}
