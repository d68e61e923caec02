package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMintGovernanceRewardAccumulates(t *testing.T) {
	resetState()
	recipient := addr(7)

	require.NoError(t, MintGovernanceReward(&recipient, 1_000))
	require.NoError(t, MintGovernanceReward(&recipient, 500))
	require.EqualValues(t, 1_500, GovernanceBalanceOf(recipient))
}

func TestMintGovernanceRewardNoopOnNilRecipientOrZeroAmount(t *testing.T) {
	resetState()
	recipient := addr(7)
	require.NoError(t, MintGovernanceReward(nil, 1_000))
	require.NoError(t, MintGovernanceReward(&recipient, 0))
	require.EqualValues(t, 0, GovernanceBalanceOf(recipient))
}

func TestMintGovernanceRewardRejectsOverCap(t *testing.T) {
	resetState()
	recipient := addr(7)
	err := MintGovernanceReward(&recipient, MaxGovernanceSupply+1)
	require.ErrorIs(t, err, ErrExceedsTotalSupply)
}
