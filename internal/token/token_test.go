package token_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	capability "tokengate/contracts/capability"
	allowlistsvc "tokengate/internal/allowlist/service"
	allowliststore "tokengate/internal/allowlist/store"
	"tokengate/internal/chainstate"
	"tokengate/internal/eoa"
	"tokengate/internal/policy"
	policystore "tokengate/internal/policy/store"
	"tokengate/internal/token"
	"tokengate/internal/validator"
	"tokengate/pkg/domain"
	"tokengate/pkg/testutil"
)

// stubValidator is a TransferValidator with a configurable capability set and
// decision, for probing the installation path in isolation.
type stubValidator struct {
	caps   map[capability.ID]bool
	denial error
	calls  int
}

func (s *stubValidator) Supports(id capability.ID) bool {
	return s.caps[id]
}

func (s *stubValidator) ApplyCollectionTransferPolicy(context.Context, validator.TransferRequest) error {
	s.calls++
	return s.denial
}

// newStack builds a real validator wired to in-memory registries, with the
// directory serving as the collection authority.
func newStack(t *testing.T) (*validator.Service, *allowlistsvc.Service, *policystore.InMemory, *token.Directory) {
	t.Helper()
	lists := allowlistsvc.New(allowliststore.NewInMemory())
	policies := policystore.NewInMemory()
	directory := token.NewDirectory()
	svc := validator.New(policies, lists, eoa.NewRegistry(), chainstate.NewInMemory(), directory)
	return svc, lists, policies, directory
}

func TestSetTransferValidator_ProbesCapabilities(t *testing.T) {
	ctx := context.Background()
	owner := testutil.TestAddrs.Creator
	c := token.NewCollection(testutil.TestAddrs.Collection, owner)

	t.Run("missing capability rejected", func(t *testing.T) {
		err := c.SetTransferValidator(ctx, owner, &stubValidator{caps: map[capability.ID]bool{}})
		require.ErrorIs(t, err, token.ErrInvalidTransferValidatorContract)
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		v := &stubValidator{caps: map[capability.ID]bool{capability.TransferValidator: true}}
		err := c.SetTransferValidator(ctx, testutil.TestAddrs.Holder, v)
		require.ErrorIs(t, err, token.ErrOnlyCollectionOwner)
	})

	t.Run("capable validator installed", func(t *testing.T) {
		v := &stubValidator{caps: map[capability.ID]bool{capability.TransferValidator: true}}
		require.NoError(t, c.SetTransferValidator(ctx, owner, v))
	})

	t.Run("nil clears the reference", func(t *testing.T) {
		require.NoError(t, c.SetTransferValidator(ctx, owner, nil))
	})
}

func TestTransferFrom_WithoutValidatorIsUnconditional(t *testing.T) {
	ctx := context.Background()
	owner := testutil.TestAddrs.Creator
	holder := testutil.TestAddrs.Holder
	c := token.NewCollection(testutil.TestAddrs.Collection, owner)

	require.NoError(t, c.Mint(ctx, owner, holder, 1))
	require.NoError(t, c.TransferFrom(ctx, holder, holder, testutil.TestAddrs.Receiver, 1))

	got, ok := c.HolderOf(1)
	require.True(t, ok)
	assert.Equal(t, testutil.TestAddrs.Receiver, got)
}

func TestTransferFrom_DenialAbortsWithNoStateChange(t *testing.T) {
	ctx := context.Background()
	owner := testutil.TestAddrs.Creator
	holder := testutil.TestAddrs.Holder
	c := token.NewCollection(testutil.TestAddrs.Collection, owner)

	v := &stubValidator{
		caps:   map[capability.ID]bool{capability.TransferValidator: true},
		denial: validator.ErrCallerMustBeWhitelistedOperator,
	}
	require.NoError(t, c.SetTransferValidator(ctx, owner, v))
	require.NoError(t, c.Mint(ctx, owner, holder, 7))

	err := c.TransferFrom(ctx, holder, holder, testutil.TestAddrs.Receiver, 7)
	require.ErrorIs(t, err, validator.ErrCallerMustBeWhitelistedOperator)
	assert.Equal(t, 1, v.calls)

	got, ok := c.HolderOf(7)
	require.True(t, ok)
	assert.Equal(t, holder, got, "denied transfers must not move the token")
}

func TestTransferFrom_OwnershipAndApprovalChecks(t *testing.T) {
	ctx := context.Background()
	owner := testutil.TestAddrs.Creator
	holder := testutil.TestAddrs.Holder
	operator := testutil.TestAddrs.Operator
	c := token.NewCollection(testutil.TestAddrs.Collection, owner)

	require.NoError(t, c.Mint(ctx, owner, holder, 1))

	t.Run("unknown token", func(t *testing.T) {
		err := c.TransferFrom(ctx, holder, holder, testutil.TestAddrs.Receiver, 99)
		require.ErrorIs(t, err, token.ErrTokenNotFound)
	})

	t.Run("from is not the holder", func(t *testing.T) {
		err := c.TransferFrom(ctx, operator, operator, testutil.TestAddrs.Receiver, 1)
		require.ErrorIs(t, err, token.ErrNotTokenHolder)
	})

	t.Run("unapproved third party", func(t *testing.T) {
		err := c.TransferFrom(ctx, operator, holder, testutil.TestAddrs.Receiver, 1)
		require.ErrorIs(t, err, token.ErrCallerNotApproved)
	})

	t.Run("approved operator moves the token", func(t *testing.T) {
		c.SetApprovalForAll(ctx, holder, operator, true)
		require.NoError(t, c.TransferFrom(ctx, operator, holder, testutil.TestAddrs.Receiver, 1))
	})
}

func TestSetToCustomValidatorAndSecurityPolicy(t *testing.T) {
	ctx := context.Background()
	owner := testutil.TestAddrs.Creator
	svc, _, policies, directory := newStack(t)

	c := token.NewCollection(testutil.TestAddrs.Collection, owner)
	directory.Register(c)

	opsID, err := svc.CreateOperatorWhitelist(ctx, owner, "ops")
	require.NoError(t, err)

	require.NoError(t, c.SetToCustomValidatorAndSecurityPolicy(
		ctx, owner, svc, policy.LevelOne, opsID, domain.NoAllowlist))

	pol, err := policies.Get(ctx, c.Address())
	require.NoError(t, err)
	assert.Equal(t, policy.LevelOne, pol.Level)
	assert.Equal(t, opsID, pol.OperatorWhitelistID)
	assert.True(t, pol.PermittedContractReceiversID.IsNone())

	// The installed validator now gates transfers end to end.
	holder := testutil.TestAddrs.Holder
	require.NoError(t, c.Mint(ctx, owner, holder, 1))

	stranger := testutil.Addr(0x99)
	c.SetApprovalForAll(ctx, holder, stranger, true)
	err = c.TransferFrom(ctx, stranger, holder, testutil.TestAddrs.Receiver, 1)
	require.ErrorIs(t, err, validator.ErrCallerMustBeWhitelistedOperator)

	// OTC path stays open on level one.
	require.NoError(t, c.TransferFrom(ctx, holder, holder, testutil.TestAddrs.Receiver, 1))
}

func TestSetToCustomValidatorAndSecurityPolicy_RejectsPartialValidator(t *testing.T) {
	ctx := context.Background()
	owner := testutil.TestAddrs.Creator
	c := token.NewCollection(testutil.TestAddrs.Collection, owner)

	err := c.SetToCustomValidatorAndSecurityPolicy(ctx, owner, nil, policy.LevelOne, 0, 0)
	require.ErrorIs(t, err, token.ErrInvalidTransferValidatorContract)
}

func TestDirectory_IsAuthorized(t *testing.T) {
	ctx := context.Background()
	owner := testutil.TestAddrs.Creator
	directory := token.NewDirectory()

	ok, err := directory.IsAuthorized(ctx, testutil.TestAddrs.Collection, owner)
	require.NoError(t, err)
	assert.False(t, ok, "unknown collections authorize nobody")

	directory.Register(token.NewCollection(testutil.TestAddrs.Collection, owner))

	ok, err = directory.IsAuthorized(ctx, testutil.TestAddrs.Collection, owner)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = directory.IsAuthorized(ctx, testutil.TestAddrs.Collection, testutil.TestAddrs.Holder)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMint_OwnerOnlyAndUnique(t *testing.T) {
	ctx := context.Background()
	owner := testutil.TestAddrs.Creator
	c := token.NewCollection(testutil.TestAddrs.Collection, owner)

	err := c.Mint(ctx, testutil.TestAddrs.Holder, testutil.TestAddrs.Holder, 1)
	require.ErrorIs(t, err, token.ErrOnlyCollectionOwner)

	require.NoError(t, c.Mint(ctx, owner, testutil.TestAddrs.Holder, 1))
	err = c.Mint(ctx, owner, testutil.TestAddrs.Holder, 1)
	require.Error(t, err)
}
