package services

import (
	"testing"

	"chancery/contexts/correspondence/workflow-service/domain/entities"
	domainerrors "chancery/contexts/correspondence/workflow-service/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingCorrespondence() entities.Correspondence {
	return entities.Correspondence{
		CorrespondenceID:  "corr-1",
		Status:            entities.StatusPending,
		CurrentApproverID: "exec-1",
		RoutingPlan:       []string{"exec-1"},
		RoutingIndex:      0,
	}
}

func draftCorrespondence() entities.Correspondence {
	return entities.Correspondence{
		CorrespondenceID: "corr-2",
		Status:           entities.StatusDraft,
		RoutingIndex:     -1,
	}
}

func TestApplyForwardSetsApproverAndStatus(t *testing.T) {
	next, err := Apply(pendingCorrespondence(), entities.ActionForward, "manager-1")
	require.NoError(t, err)

	assert.Equal(t, entities.StatusInProgress, next.Status)
	assert.Equal(t, "manager-1", next.CurrentApproverID)
	assert.Equal(t, []string{"exec-1", "manager-1"}, next.RoutingPlan)
	assert.Equal(t, 1, next.RoutingIndex)
	assert.False(t, next.Completed)
}

func TestApplyForwardRequiresTarget(t *testing.T) {
	_, err := Apply(pendingCorrespondence(), entities.ActionForward, "  ")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidRequest)
}

func TestApplyForwardDiscardsRemainingPlan(t *testing.T) {
	c := pendingCorrespondence()
	c.RoutingPlan = []string{"exec-1", "manager-1", "director-1"}
	c.RoutingIndex = 0

	next, err := Apply(c, entities.ActionForward, "officer-9")
	require.NoError(t, err)
	assert.Equal(t, []string{"exec-1", "officer-9"}, next.RoutingPlan)
	assert.Equal(t, "officer-9", next.CurrentApproverID)
}

func TestApplyForwardFromDraftStartsPending(t *testing.T) {
	next, err := Apply(draftCorrespondence(), entities.ActionForward, "exec-1")
	require.NoError(t, err)

	assert.Equal(t, entities.StatusPending, next.Status)
	assert.Equal(t, "exec-1", next.CurrentApproverID)
	assert.Equal(t, []string{"exec-1"}, next.RoutingPlan)
	assert.Equal(t, 0, next.RoutingIndex)
}

func TestApplyDraftRefusesApprovalActions(t *testing.T) {
	for _, action := range []entities.MinuteAction{entities.ActionApprove, entities.ActionReject, entities.ActionTreat} {
		_, err := Apply(draftCorrespondence(), action, "exec-1")
		assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition, string(action))
	}
}

func TestApplyMinuteOnDraftChangesNothing(t *testing.T) {
	next, err := Apply(draftCorrespondence(), entities.ActionMinute, "")
	require.NoError(t, err)
	assert.Equal(t, entities.StatusDraft, next.Status)
	assert.Empty(t, next.CurrentApproverID)
}

func TestApplyApproveAtFinalStepCompletes(t *testing.T) {
	c := pendingCorrespondence()
	next, err := Apply(c, entities.ActionApprove, "")
	require.NoError(t, err)

	assert.Equal(t, entities.StatusCompleted, next.Status)
	assert.Empty(t, next.CurrentApproverID)
	assert.True(t, next.Completed)
}

func TestApplyApproveAdvancesWhenNotFinal(t *testing.T) {
	c := pendingCorrespondence()
	c.RoutingPlan = []string{"exec-1", "director-1"}
	c.RoutingIndex = 0

	next, err := Apply(c, entities.ActionApprove, "")
	require.NoError(t, err)

	assert.Equal(t, entities.StatusInProgress, next.Status)
	assert.Equal(t, "director-1", next.CurrentApproverID)
	assert.Equal(t, 1, next.RoutingIndex)
	assert.False(t, next.Completed)
}

func TestApplyRejectClearsApprover(t *testing.T) {
	next, err := Apply(pendingCorrespondence(), entities.ActionReject, "")
	require.NoError(t, err)

	assert.Equal(t, entities.StatusRejected, next.Status)
	assert.Empty(t, next.CurrentApproverID)
}

func TestApplyTreatKeepsApproverWithoutTarget(t *testing.T) {
	c := pendingCorrespondence()
	c.Status = entities.StatusInProgress

	next, err := Apply(c, entities.ActionTreat, "")
	require.NoError(t, err)
	assert.Equal(t, entities.StatusInProgress, next.Status)
	assert.Equal(t, "exec-1", next.CurrentApproverID)
}

func TestApplyTreatReroutesWithExplicitTarget(t *testing.T) {
	next, err := Apply(pendingCorrespondence(), entities.ActionTreat, "manager-2")
	require.NoError(t, err)
	assert.Equal(t, "manager-2", next.CurrentApproverID)
	assert.Equal(t, []string{"manager-2"}, next.RoutingPlan)
}

func TestApplyMinuteChangesNothing(t *testing.T) {
	c := pendingCorrespondence()
	next, err := Apply(c, entities.ActionMinute, "")
	require.NoError(t, err)
	assert.Equal(t, c.Status, next.Status)
	assert.Equal(t, c.CurrentApproverID, next.CurrentApproverID)
	assert.Equal(t, c.RoutingIndex, next.RoutingIndex)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	c := pendingCorrespondence()
	c.RoutingPlan = []string{"exec-1", "director-1"}

	_, err := Apply(c, entities.ActionForward, "officer-9")
	require.NoError(t, err)
	assert.Equal(t, []string{"exec-1", "director-1"}, c.RoutingPlan)
}
