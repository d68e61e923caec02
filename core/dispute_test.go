package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDisputeExpireRestoresPreDisputeState(t *testing.T) {
	task, ctx, _ := setupTask(t)
	initiator := addr(5)

	d, err := OpenDispute(ctxAt(initiator, ctx.Now), task, "no reason given")
	require.NoError(t, err)
	require.Equal(t, TaskDisputed, task.State)

	late := ctxAt(initiator, d.ResolutionDeadline.Add(time.Hour))
	require.NoError(t, ExpireDispute(late, task))
	require.Equal(t, TaskDraft, task.State)

	esc, err := GetEscrow(task.PDA())
	require.NoError(t, err)
	require.False(t, esc.IsFrozen)
}

func TestDisputeCannotExpireBeforeDeadline(t *testing.T) {
	task, ctx, _ := setupTask(t)
	initiator := addr(5)
	_, err := OpenDispute(ctxAt(initiator, ctx.Now), task, "reason")
	require.NoError(t, err)

	err = ExpireDispute(ctx, task)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestDisputeCancelOnlyByInitiator(t *testing.T) {
	task, ctx, _ := setupTask(t)
	initiator := addr(5)
	other := addr(6)

	_, err := OpenDispute(ctxAt(initiator, ctx.Now), task, "reason")
	require.NoError(t, err)

	err = CancelDispute(ctxAt(other, ctx.Now), task)
	require.ErrorIs(t, err, ErrUnauthorizedCreator)

	require.NoError(t, CancelDispute(ctxAt(initiator, ctx.Now), task))
	require.Equal(t, TaskDraft, task.State)
}

func TestResolveDisputeRejectsWhenNotOpen(t *testing.T) {
	task, ctx, _ := setupTask(t)
	initiator := addr(5)
	govAuthority := addr(9)
	gov := NewGovernanceAuthoritySet(govAuthority)

	_, err := OpenDispute(ctxAt(initiator, ctx.Now), task, "reason")
	require.NoError(t, err)
	require.NoError(t, CancelDispute(ctxAt(initiator, ctx.Now), task))

	err = ResolveDispute(ctxAt(govAuthority, ctx.Now), task, Resolution{Kind: RefundToDonors}, gov)
	require.ErrorIs(t, err, ErrDisputeNotOpen)
}
