package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferSecurityLevel_Rules(t *testing.T) {
	cases := []struct {
		level TransferSecurityLevel
		want  LevelRules
	}{
		{LevelRecommended, LevelRules{}},
		{LevelOne, LevelRules{WhitelistEnforced: true, OTCExempt: true}},
		{LevelTwo, LevelRules{WhitelistEnforced: true}},
		{LevelThree, LevelRules{WhitelistEnforced: true, OTCExempt: true, Receiver: ReceiverNoCode}},
		{LevelFour, LevelRules{WhitelistEnforced: true, OTCExempt: true, Receiver: ReceiverVerifiedEOA}},
		{LevelFive, LevelRules{WhitelistEnforced: true, Receiver: ReceiverNoCode}},
		{LevelSix, LevelRules{WhitelistEnforced: true, Receiver: ReceiverVerifiedEOA}},
	}
	for _, tc := range cases {
		t.Run(tc.level.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.level.Rules())
		})
	}
}

func TestParseLevel(t *testing.T) {
	for v := uint8(0); v <= 6; v++ {
		level, err := ParseLevel(v)
		require.NoError(t, err)
		assert.Equal(t, TransferSecurityLevel(v), level)
		assert.True(t, level.Valid())
	}

	_, err := ParseLevel(7)
	require.Error(t, err)
	_, err = ParseLevel(255)
	require.Error(t, err)
}

func TestTransferSecurityLevel_String(t *testing.T) {
	assert.Equal(t, "recommended", LevelRecommended.String())
	assert.Equal(t, "level_4", LevelFour.String())
}

func TestCollectionSecurityPolicy_ZeroValueIsDefault(t *testing.T) {
	var p CollectionSecurityPolicy
	assert.Equal(t, LevelRecommended, p.Level)
	assert.True(t, p.OperatorWhitelistID.IsNone())
	assert.True(t, p.PermittedContractReceiversID.IsNone())
}
