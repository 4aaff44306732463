package chainstate

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"tokengate/internal/sentinel"
	"tokengate/pkg/domain"
	"tokengate/pkg/platform/circuit"
)

// CodeReader is the slice of the RPC node client the lookup needs.
// *ethclient.Client satisfies it.
type CodeReader interface {
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
}

// RPC answers code lookups from a live node, guarded by a circuit breaker so
// a failing endpoint trips fast instead of stalling every transfer check.
// While the circuit is open, lookups fail with ErrUnavailable; the policy
// engine reports that as an infrastructure error, never as a decision. The
// default breaker admits a probe call every 30 seconds while open.
type RPC struct {
	client  CodeReader
	breaker *circuit.Breaker
	logger  *slog.Logger
}

// RPCOption configures the RPC chain state.
type RPCOption func(*RPC)

func WithRPCLogger(l *slog.Logger) RPCOption {
	return func(c *RPC) {
		c.logger = l
	}
}

func WithBreaker(b *circuit.Breaker) RPCOption {
	return func(c *RPC) {
		c.breaker = b
	}
}

// NewRPC creates a breaker-guarded chain state backed by client.
func NewRPC(client CodeReader, opts ...RPCOption) *RPC {
	c := &RPC{client: client}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = circuit.New("chainstate-rpc", circuit.WithCooldown(30*time.Second))
	}
	return c
}

// HasCode implements ports.ChainState against the latest block.
func (c *RPC) HasCode(ctx context.Context, account domain.Address) (bool, error) {
	if c.breaker.IsOpen() {
		return false, fmt.Errorf("chain state circuit %q open: %w", c.breaker.Name(), sentinel.ErrUnavailable)
	}

	code, err := c.client.CodeAt(ctx, common.BytesToAddress(account[:]), nil)
	if err != nil {
		if _, change := c.breaker.RecordFailure(); change.Opened && c.logger != nil {
			c.logger.WarnContext(ctx, "chain state circuit opened", "name", c.breaker.Name(), "error", err)
		}
		return false, fmt.Errorf("code lookup: %w", err)
	}

	if _, change := c.breaker.RecordSuccess(); change.Closed && c.logger != nil {
		c.logger.InfoContext(ctx, "chain state circuit closed", "name", c.breaker.Name())
	}
	return len(code) > 0, nil
}
