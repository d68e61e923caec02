package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCampaignLifecycleGates(t *testing.T) {
	resetState()
	now := time.Now().UTC()
	creator := addr(1)
	other := addr(2)
	ctx := ctxAt(creator, now)

	c, err := CreateCampaign(ctx, "camp", "Title", "Description", "", "")
	require.NoError(t, err)
	require.Equal(t, CampaignDraft, c.State)

	_, err = CreateCampaign(ctx, "camp", "Title", "Description", "", "")
	require.Error(t, err)

	_, err = UpdateCampaign(ctxAt(other, now), creator, "camp", "New", "Description", "", "")
	require.ErrorIs(t, err, ErrUnauthorizedCreator)

	c, err = PublishCampaign(ctx, creator, "camp")
	require.NoError(t, err)
	require.Equal(t, CampaignPublished, c.State)

	_, err = UpdateCampaign(ctx, creator, "camp", "New", "Description", "", "")
	require.ErrorIs(t, err, ErrNotEditable)

	_, err = PublishCampaign(ctx, creator, "camp")
	require.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestCampaignArchiveForbiddenWithActiveTasks(t *testing.T) {
	resetState()
	now := time.Now().UTC()
	creator := addr(1)
	ctx := ctxAt(creator, now)

	c, err := CreateCampaign(ctx, "camp", "Title", "Description", "", "")
	require.NoError(t, err)
	c, err = PublishCampaign(ctx, creator, c.CampaignID)
	require.NoError(t, err)

	task, err := CreateTask(ctx, c, "t1", "Task", "deliverables", 100, nil)
	require.NoError(t, err)
	require.Equal(t, CampaignActive, c.State)

	_, err = ArchiveCampaign(ctx, creator, c.CampaignID, []*Task{task})
	require.ErrorIs(t, err, ErrHasActiveTasks)
}
