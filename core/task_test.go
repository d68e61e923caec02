package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setupTask(t *testing.T) (*Task, *Context, *MemoryLedger) {
	t.Helper()
	ledger := resetState()
	now := time.Now().UTC()
	creator := addr(1)
	ctx := ctxAt(creator, now)

	c, err := CreateCampaign(ctx, "camp", "Title", "Description", "", "")
	require.NoError(t, err)
	c, err = PublishCampaign(ctx, creator, c.CampaignID)
	require.NoError(t, err)
	task, err := CreateTask(ctx, c, "t1", "Task", "deliverables", 1_000, nil)
	require.NoError(t, err)
	return task, ctx, ledger
}

func TestTaskIllegalTransitionRejected(t *testing.T) {
	task, ctx, _ := setupTask(t)
	require.Equal(t, TaskDraft, task.State)
	err := transition(ctx, task, TaskApproved)
	require.ErrorIs(t, err, ErrInvalidStateTransition)
	require.Equal(t, TaskDraft, task.State)
}

func TestTaskAnyToDisputedExceptTerminal(t *testing.T) {
	task, _, _ := setupTask(t)
	require.True(t, canTransition(task.State, TaskDisputed))

	task.State = TaskPaidOut
	require.False(t, canTransition(task.State, TaskDisputed))
	task.State = TaskRefunded
	require.False(t, canTransition(task.State, TaskDisputed))
}

func TestSetRecipientBlockedAfterReview(t *testing.T) {
	task, ctx, ledger := setupTask(t)
	recipient := addr(2)
	require.NoError(t, SetRecipient(ctx, task, recipient))

	ledger.Credit(recipient, 1_000_000)
	task.State = TaskFunded
	require.NoError(t, putTask(task))
	require.NoError(t, StartWork(ctx, task))
	require.NoError(t, SubmitForReview(ctxAt(recipient, ctx.Now), task, "hash", "uri"))

	err := SetRecipient(ctx, task, addr(4))
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestDeadlinePassedBlocksSubmission(t *testing.T) {
	ledger := resetState()
	now := time.Now().UTC()
	creator := addr(1)
	recipient := addr(2)
	ctx := ctxAt(creator, now)

	c, err := CreateCampaign(ctx, "camp", "Title", "Description", "", "")
	require.NoError(t, err)
	c, err = PublishCampaign(ctx, creator, c.CampaignID)
	require.NoError(t, err)
	deadline := now.Add(-1 * time.Hour).Unix()
	task, err := CreateTask(ctx, c, "t1", "Task", "deliverables", 1_000, &deadline)
	require.NoError(t, err)
	require.NoError(t, SetRecipient(ctx, task, recipient))

	_ = ledger
	err = SubmitForReview(ctxAt(recipient, now), task, "hash", "uri")
	require.ErrorIs(t, err, ErrDeadlinePassed)
}
