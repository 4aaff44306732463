package chainstate

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokengate/internal/sentinel"
	"tokengate/pkg/platform/circuit"
	"tokengate/pkg/testutil"
)

type fakeCodeReader struct {
	code map[common.Address][]byte
	err  error
}

func (f *fakeCodeReader) CodeAt(_ context.Context, account common.Address, _ *big.Int) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.code[account], nil
}

func TestRPC_HasCode(t *testing.T) {
	contract := testutil.TestAddrs.Contract
	reader := &fakeCodeReader{code: map[common.Address][]byte{
		common.BytesToAddress(contract[:]): {0x60, 0x80},
	}}
	c := NewRPC(reader)
	ctx := context.Background()

	hasCode, err := c.HasCode(ctx, contract)
	require.NoError(t, err)
	assert.True(t, hasCode)

	hasCode, err = c.HasCode(ctx, testutil.TestAddrs.Receiver)
	require.NoError(t, err)
	assert.False(t, hasCode)
}

func TestRPC_BreakerTripsAfterConsecutiveFailures(t *testing.T) {
	reader := &fakeCodeReader{err: errors.New("connection refused")}
	c := NewRPC(reader, WithBreaker(circuit.New("test", circuit.WithFailureThreshold(2))))
	ctx := context.Background()

	for range 2 {
		_, err := c.HasCode(ctx, testutil.TestAddrs.Receiver)
		require.Error(t, err)
	}

	// Circuit is open now; the client is not consulted anymore.
	_, err := c.HasCode(ctx, testutil.TestAddrs.Receiver)
	require.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestRPC_BreakerRecovers(t *testing.T) {
	reader := &fakeCodeReader{err: errors.New("connection refused")}
	breaker := circuit.New("test",
		circuit.WithFailureThreshold(1),
		circuit.WithSuccessThreshold(1),
	)
	c := NewRPC(reader, WithBreaker(breaker))
	ctx := context.Background()

	_, err := c.HasCode(ctx, testutil.TestAddrs.Receiver)
	require.Error(t, err)
	require.True(t, breaker.IsOpen())

	// An open breaker short-circuits; reset lets traffic through again.
	reader.err = nil
	breaker.Reset()

	hasCode, err := c.HasCode(ctx, testutil.TestAddrs.Receiver)
	require.NoError(t, err)
	assert.False(t, hasCode)
	assert.False(t, breaker.IsOpen())
}
