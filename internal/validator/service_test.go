package validator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	capability "tokengate/contracts/capability"
	allowlistmodels "tokengate/internal/allowlist/models"
	allowlistsvc "tokengate/internal/allowlist/service"
	allowliststore "tokengate/internal/allowlist/store"
	"tokengate/internal/chainstate"
	"tokengate/internal/eoa"
	"tokengate/internal/policy"
	policystore "tokengate/internal/policy/store"
	"tokengate/internal/validator"
	"tokengate/internal/validator/mocks"
	"tokengate/pkg/domain"
	"tokengate/pkg/testutil"
)

func TestService_SupportsFullCapabilitySet(t *testing.T) {
	e := newEngine(t)

	for _, id := range []capability.ID{
		capability.TransferValidator,
		capability.TransferSecurityRegistry,
		capability.EOARegistry,
		capability.CreatorTokenValidator,
	} {
		assert.True(t, e.svc.Supports(id), "capability %v", id)
	}
	assert.False(t, e.svc.Supports(capability.ID("unknown")))
}

func TestSetTransferSecurityLevel_RequiresElevatedPermissions(t *testing.T) {
	ctrl := gomock.NewController(t)
	authority := mocks.NewMockCollectionAuthority(ctrl)
	policies := policystore.NewInMemory()

	svc := validator.New(policies,
		allowlistsvc.New(allowliststore.NewInMemory()),
		eoa.NewRegistry(),
		chainstate.NewInMemory(),
		authority,
	)

	ctx := context.Background()
	caller := testutil.TestAddrs.Holder
	collection := testutil.TestAddrs.Collection

	authority.EXPECT().IsAuthorized(gomock.Any(), collection, caller).Return(false, nil)

	err := svc.SetTransferSecurityLevelOfCollection(ctx, caller, collection, policy.LevelTwo)
	require.ErrorIs(t, err, validator.ErrCallerMustHaveElevatedPermissionsForSpecifiedNFT)

	// Denied mutations leave the policy untouched.
	pol, getErr := policies.Get(ctx, collection)
	require.NoError(t, getErr)
	assert.Equal(t, policy.LevelRecommended, pol.Level)
}

func TestSetTransferSecurityLevel_StoresLevel(t *testing.T) {
	ctrl := gomock.NewController(t)
	authority := mocks.NewMockCollectionAuthority(ctrl)
	policies := policystore.NewInMemory()

	svc := validator.New(policies,
		allowlistsvc.New(allowliststore.NewInMemory()),
		eoa.NewRegistry(),
		chainstate.NewInMemory(),
		authority,
	)

	ctx := context.Background()
	creator := testutil.TestAddrs.Creator
	collection := testutil.TestAddrs.Collection

	authority.EXPECT().IsAuthorized(gomock.Any(), collection, creator).Return(true, nil)

	require.NoError(t, svc.SetTransferSecurityLevelOfCollection(ctx, creator, collection, policy.LevelSix))

	pol, err := svc.GetCollectionSecurityPolicy(ctx, collection)
	require.NoError(t, err)
	assert.Equal(t, policy.LevelSix, pol.Level)
}

func TestBindAllowlist_RejectsNeverIssuedID(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	creator := testutil.TestAddrs.Creator
	collection := testutil.TestAddrs.Collection

	err := e.svc.SetOperatorWhitelistOfCollection(ctx, creator, collection, 42)
	require.Error(t, err)

	pol, getErr := e.svc.GetCollectionSecurityPolicy(ctx, collection)
	require.NoError(t, getErr)
	assert.True(t, pol.OperatorWhitelistID.IsNone())
}

func TestBindAllowlist_SentinelZeroClearsBinding(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	creator := testutil.TestAddrs.Creator
	collection := testutil.TestAddrs.Collection

	id, err := e.svc.CreateOperatorWhitelist(ctx, creator, "ops")
	require.NoError(t, err)
	require.NoError(t, e.svc.SetOperatorWhitelistOfCollection(ctx, creator, collection, id))

	pol, err := e.svc.GetCollectionSecurityPolicy(ctx, collection)
	require.NoError(t, err)
	assert.Equal(t, id, pol.OperatorWhitelistID)

	// Id 0 is always bindable and unbinds the list.
	require.NoError(t, e.svc.SetOperatorWhitelistOfCollection(ctx, creator, collection, domain.NoAllowlist))

	pol, err = e.svc.GetCollectionSecurityPolicy(ctx, collection)
	require.NoError(t, err)
	assert.True(t, pol.OperatorWhitelistID.IsNone())
}

func TestBindAllowlist_KindsAreSeparateNamespaces(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	creator := testutil.TestAddrs.Creator
	collection := testutil.TestAddrs.Collection

	// Only an operator list with id 1 exists; binding receiver id 1 must
	// fail because receiver ids are issued independently.
	_, err := e.svc.CreateOperatorWhitelist(ctx, creator, "ops")
	require.NoError(t, err)

	err = e.svc.SetPermittedContractReceiverAllowlistOfCollection(ctx, creator, collection, 1)
	require.Error(t, err)
}

func TestEvaluate_ChainStateFailureIsNotADecision(t *testing.T) {
	ctrl := gomock.NewController(t)
	chain := mocks.NewMockChainState(ctrl)

	policies := policystore.NewInMemory()
	svc := validator.New(policies,
		allowlistsvc.New(allowliststore.NewInMemory()),
		eoa.NewRegistry(),
		chain,
		staticAuthority(true),
	)

	ctx := context.Background()
	collection := testutil.TestAddrs.Collection
	require.NoError(t, policies.SetLevel(ctx, collection, policy.LevelFive))

	chain.EXPECT().HasCode(gomock.Any(), gomock.Any()).Return(false, errors.New("rpc timeout"))

	allowed, err := svc.IsTransferAllowed(ctx, validator.TransferRequest{
		Collection: collection,
		Caller:     testutil.TestAddrs.Holder,
		From:       testutil.TestAddrs.Holder,
		To:         testutil.TestAddrs.Receiver,
	})
	require.Error(t, err)
	assert.False(t, allowed)
	assert.NotErrorIs(t, err, validator.ErrReceiverMustNotHaveDeployedCode)
}

func TestRegistry_ExposesAllowlistSurface(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	creator := testutil.TestAddrs.Creator

	id, err := e.svc.CreateOperatorWhitelist(ctx, creator, "ops")
	require.NoError(t, err)

	list, err := e.svc.Registry().Get(ctx, allowlistmodels.KindOperators, id)
	require.NoError(t, err)
	assert.Equal(t, creator, list.Owner)
}
