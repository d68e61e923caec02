package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestScenarioHappyPathPayout mirrors spec.md §8 scenario 1: three voters
// whose proposed budgets and contribution weights bracket the eventual
// finalized budget, full funding, proof submission, governance approval,
// and a payout that drains the vault to zero under invariant (E).
func TestScenarioHappyPathPayout(t *testing.T) {
	ledger := resetState()
	now := time.Now().UTC()

	creator := addr(1)
	voter1, voter2, voter3 := addr(2), addr(3), addr(4)
	recipient := addr(5)
	funder := addr(6)
	govAuthority := addr(9)
	gov := NewGovernanceAuthoritySet(govAuthority)

	for _, a := range []Address{voter1, voter2, voter3, funder} {
		ledger.Credit(a, 2_000_000_000)
	}

	creatorCtx := ctxAt(creator, now)
	campaign, err := CreateCampaign(creatorCtx, "c1", "Roof Repair", "desc", "ipfs://meta", "infra")
	require.NoError(t, err)
	campaign, err = PublishCampaign(creatorCtx, creator, campaign.CampaignID)
	require.NoError(t, err)

	task, err := CreateTask(creatorCtx, campaign, "t1", "Patch the roof", "photos + receipts", 1_000_000_000, nil)
	require.NoError(t, err)
	require.Equal(t, CampaignActive, campaign.State)

	require.NoError(t, StartVoting(creatorCtx, task))

	votes := []struct {
		voter  Address
		budget uint64
	}{
		{voter1, 900_000_000},
		{voter2, 1_000_000_000},
		{voter3, 1_100_000_000},
	}
	for _, v := range votes {
		require.NoError(t, Contribute(ctxAt(v.voter, now), task, v.voter, 50_000_000))
		require.NoError(t, SubmitVote(ctxAt(v.voter, now), task, v.voter, v.budget, 50_000_000))
	}

	esc, err := GetEscrow(task.PDA())
	require.NoError(t, err)
	require.EqualValues(t, 150_000_000, esc.TotalContributed)

	require.NoError(t, FinalizeBudget(creatorCtx, task, esc.TotalContributed))
	require.NotNil(t, task.FinalizedBudget)
	require.EqualValues(t, 1_000_000_000, *task.FinalizedBudget)
	require.Equal(t, TaskBudgetFinalized, task.State)

	require.NoError(t, OpenFunding(ctxAt(govAuthority, now), task, gov))
	require.NoError(t, Contribute(ctxAt(funder, now), task, funder, 850_000_000))

	esc, err = GetEscrow(task.PDA())
	require.NoError(t, err)
	require.EqualValues(t, 1_000_000_000, esc.TotalContributed)

	require.NoError(t, MarkFunded(ctxAt(govAuthority, now), task))
	require.Equal(t, TaskFunded, task.State)

	require.NoError(t, SetRecipient(creatorCtx, task, recipient))
	require.NoError(t, StartWork(ctxAt(govAuthority, now), task))
	require.NoError(t, SubmitForReview(ctxAt(recipient, now), task, "deadbeef", "ipfs://proof"))
	require.Equal(t, TaskSubmittedForReview, task.State)

	require.NoError(t, ApproveTask(ctxAt(govAuthority, now), task, gov))
	require.Equal(t, TaskApproved, task.State)

	require.NoError(t, ExecuteApprovedPayout(ctxAt(govAuthority, now), task, gov))
	require.Equal(t, TaskPaidOut, task.State)

	esc, err = GetEscrow(task.PDA())
	require.NoError(t, err)
	require.EqualValues(t, 1_000_000_000, esc.TotalPaidOut)
	require.EqualValues(t, 0, esc.TotalContributed-esc.TotalPaidOut-esc.TotalRefunded)
	require.EqualValues(t, 0, ledger.BalanceOf(vaultAddress(task.PDA())))

	require.Greater(t, GovernanceBalanceOf(recipient), uint64(0))
}

// TestScenarioRejectedRefundPath exercises Rejected -> Refunding -> Refunded:
// governance rejects the submitted work and every contributor is refunded
// in full before the task reaches its terminal state.
func TestScenarioRejectedRefundPath(t *testing.T) {
	ledger := resetState()
	now := time.Now().UTC()

	creator := addr(1)
	recipient := addr(2)
	contributorA, contributorB := addr(3), addr(4)
	govAuthority := addr(9)
	gov := NewGovernanceAuthoritySet(govAuthority)

	ledger.Credit(contributorA, 1_000_000_000)
	ledger.Credit(contributorB, 1_000_000_000)

	creatorCtx := ctxAt(creator, now)
	campaign, err := CreateCampaign(creatorCtx, "c2", "Repaint Hall", "desc", "", "")
	require.NoError(t, err)
	campaign, err = PublishCampaign(creatorCtx, creator, campaign.CampaignID)
	require.NoError(t, err)
	task, err := CreateTask(creatorCtx, campaign, "t1", "Paint it", "photos", 200_000_000, nil)
	require.NoError(t, err)

	require.NoError(t, StartVoting(creatorCtx, task))
	for _, v := range []Address{contributorA, contributorB} {
		require.NoError(t, Contribute(ctxAt(v, now), task, v, 60_000_000))
	}
	// A third distinct voter is required for quorum (spec.md §4.4: voters >= 3).
	thirdVoter := addr(5)
	ledger.Credit(thirdVoter, 1_000_000_000)
	require.NoError(t, Contribute(ctxAt(thirdVoter, now), task, thirdVoter, 80_000_000))
	for _, v := range []Address{contributorA, contributorB, thirdVoter} {
		require.NoError(t, SubmitVote(ctxAt(v, now), task, v, 200_000_000, ledgerWeightFor(task, v)))
	}

	esc, err := GetEscrow(task.PDA())
	require.NoError(t, err)
	require.NoError(t, FinalizeBudget(creatorCtx, task, esc.TotalContributed))

	require.NoError(t, OpenFunding(ctxAt(govAuthority, now), task, gov))
	require.NoError(t, MarkFunded(ctxAt(govAuthority, now), task))
	require.NoError(t, SetRecipient(creatorCtx, task, recipient))
	require.NoError(t, StartWork(ctxAt(govAuthority, now), task))
	require.NoError(t, SubmitForReview(ctxAt(recipient, now), task, "hash", "uri"))

	require.NoError(t, RejectTask(ctxAt(govAuthority, now), task, gov))
	require.Equal(t, TaskRejected, task.State)
	require.NoError(t, RejectedToRefunding(ctxAt(govAuthority, now), task))
	require.Equal(t, TaskRefunding, task.State)

	contributions, err := ListContributors(task.PDA())
	require.NoError(t, err)
	refundMode := RefundMode{Kind: RefundToDonors}
	for _, c := range contributions {
		require.NoError(t, ExecuteRefund(task, c.Contributor, refundMode))
	}

	require.NoError(t, FinishRefunding(ctxAt(govAuthority, now), task))
	require.Equal(t, TaskRefunded, task.State)

	esc, err = GetEscrow(task.PDA())
	require.NoError(t, err)
	require.Equal(t, esc.TotalContributed, esc.TotalRefunded)
	require.EqualValues(t, 0, ledger.BalanceOf(vaultAddress(task.PDA())))
}

// TestScenarioDisputePartialSplit exercises the dispute controller's
// PartialPayoutPartialRefund path: residue from integer division is folded
// into the recipient's payout so (E) holds with equality.
func TestScenarioDisputePartialSplit(t *testing.T) {
	ledger := resetState()
	now := time.Now().UTC()

	creator := addr(1)
	recipient := addr(2)
	contributorA, contributorB, contributorC := addr(3), addr(4), addr(5)
	govAuthority := addr(9)
	gov := NewGovernanceAuthoritySet(govAuthority)

	for _, a := range []Address{contributorA, contributorB, contributorC} {
		ledger.Credit(a, 1_000_000_000)
	}

	creatorCtx := ctxAt(creator, now)
	campaign, err := CreateCampaign(creatorCtx, "c3", "Disputed Build", "desc", "", "")
	require.NoError(t, err)
	campaign, err = PublishCampaign(creatorCtx, creator, campaign.CampaignID)
	require.NoError(t, err)
	task, err := CreateTask(creatorCtx, campaign, "t1", "Build it", "spec doc", 300_000_000, nil)
	require.NoError(t, err)

	require.NoError(t, Contribute(ctxAt(contributorA, now), task, contributorA, 100_000_000))
	require.NoError(t, Contribute(ctxAt(contributorB, now), task, contributorB, 100_000_000))
	require.NoError(t, Contribute(ctxAt(contributorC, now), task, contributorC, 100_000_007))

	require.NoError(t, SetRecipient(creatorCtx, task, recipient))

	dispute, err := OpenDispute(ctxAt(contributorA, now), task, "deliverable incomplete")
	require.NoError(t, err)
	require.Equal(t, TaskDisputed, task.State)
	require.Equal(t, TaskDraft, dispute.PreDisputeState)

	esc, err := GetEscrow(task.PDA())
	require.NoError(t, err)
	require.True(t, esc.IsFrozen)

	resolution := Resolution{Kind: PartialPayoutPartialRefund, PayoutPercent: 70}
	require.NoError(t, ResolveDispute(ctxAt(govAuthority, now), task, resolution, gov))
	require.Equal(t, TaskPaidOut, task.State)

	esc, err = GetEscrow(task.PDA())
	require.NoError(t, err)
	require.False(t, esc.IsFrozen)
	require.EqualValues(t, esc.TotalContributed, esc.TotalPaidOut+esc.TotalRefunded)
	require.EqualValues(t, 0, ledger.BalanceOf(vaultAddress(task.PDA())))
}

// ledgerWeightFor is a test helper returning a voter's recorded contribution
// amount, so votes can be submitted with a weight matching what was actually
// transferred into escrow.
func ledgerWeightFor(t *Task, voter Address) uint64 {
	contributions, err := ListContributors(t.PDA())
	if err != nil {
		return 0
	}
	for _, c := range contributions {
		if c.Contributor == voter {
			return c.Amount
		}
	}
	return 0
}
