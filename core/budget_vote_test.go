package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubmitVoteRevoteDoesNotInflateVoterCount(t *testing.T) {
	task, ctx, ledger := setupTask(t)
	voter := addr(2)
	ledger.Credit(voter, 1_000_000_000)

	require.NoError(t, Contribute(ctxAt(voter, ctx.Now), task, voter, 20_000_000))
	require.NoError(t, SubmitVote(ctx, task, voter, 500, 20_000_000))
	require.NoError(t, SubmitVote(ctx, task, voter, 900, 20_000_000))

	agg, err := GetBudgetAggregate(task.PDA())
	require.NoError(t, err)
	require.EqualValues(t, 1, agg.TotalVoters)
	require.EqualValues(t, 20_000_000, agg.TotalWeight)
}

func TestSubmitVoteRejectsBelowMinimum(t *testing.T) {
	task, ctx, _ := setupTask(t)
	voter := addr(2)
	err := SubmitVote(ctx, task, voter, 500, MinContributionForVote-1)
	require.ErrorIs(t, err, ErrContributionTooSmall)
}

func TestFinalizeBudgetFailsQuorumWithTooFewVoters(t *testing.T) {
	task, ctx, ledger := setupTask(t)
	voter := addr(2)
	ledger.Credit(voter, 1_000_000_000)
	require.NoError(t, Contribute(ctxAt(voter, ctx.Now), task, voter, 20_000_000))
	require.NoError(t, SubmitVote(ctx, task, voter, 500, 20_000_000))

	err := FinalizeBudget(ctx, task, 20_000_000)
	require.ErrorIs(t, err, ErrQuorumNotMet)
}
