package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"chancery/contexts/correspondence/workflow-service/adapters/memory"
	"chancery/contexts/correspondence/workflow-service/application/commands"
	"chancery/contexts/correspondence/workflow-service/domain/entities"
	domainerrors "chancery/contexts/correspondence/workflow-service/domain/errors"
	"chancery/contexts/correspondence/workflow-service/ports"
	"chancery/internal/shared/events"
	"chancery/internal/shared/keylock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingPublisher struct {
	mu        sync.Mutex
	envelopes []events.Envelope
}

func (p *capturingPublisher) Publish(_ context.Context, _ string, envelope events.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.envelopes = append(p.envelopes, envelope)
	return nil
}

func (p *capturingPublisher) published() []events.Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Envelope(nil), p.envelopes...)
}

type profileGatewayStub struct {
	profiles map[string]ports.EffectiveProfile
}

func (s profileGatewayStub) EffectiveProfile(_ context.Context, userID string, _ string) (ports.EffectiveProfile, error) {
	return s.profiles[userID], nil
}

type recordingDelegations struct {
	mu        sync.Mutex
	completed []string
}

func (d *recordingDelegations) Complete(_ context.Context, delegationID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.completed = append(d.completed, delegationID)
	return nil
}

func (d *recordingDelegations) completedIDs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.completed...)
}

type workflowFixture struct {
	store       *memory.Store
	publisher   *capturingPublisher
	delegations *recordingDelegations
	register    commands.RegisterUseCase
	applyMinute commands.ApplyMinuteUseCase
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()
	store := memory.NewStore()
	publisher := &capturingPublisher{}
	delegations := &recordingDelegations{}

	officer := ports.EffectiveProfile{
		GradeLevel:                  "GL-14",
		CanAccessApprovals:          true,
		CanDistribute:               true,
		CanAccessDocumentManagement: true,
	}
	profiles := profileGatewayStub{profiles: map[string]ports.EffectiveProfile{
		"registrar-1": {
			GradeLevel:                  "GL-10",
			CanRegisterCorrespondence:   true,
			CanDistribute:               true,
			CanViewRegistry:             true,
			CanAccessDocumentManagement: true,
		},
		"approver-1": officer,
		"approver-2": officer,
		"director-1": officer,
		"staff-1": {
			GradeLevel:                  "GL-06",
			CanAccessDocumentManagement: true,
		},
		"clerk-1": {
			GradeLevel:                  "GL-08",
			CanRegisterCorrespondence:   true,
			CanAccessDocumentManagement: true,
		},
		"assistant-1": {
			GradeLevel:                  "GL-12",
			CanAccessApprovals:          true,
			CanDistribute:               true,
			CanAccessDocumentManagement: true,
			ActingAsAssistant:           true,
			AssistantType:               "technical",
			DelegationID:                "dele-1",
			ExecutiveID:                 "approver-1",
		},
	}}

	locker := keylock.NewRegistry()
	return &workflowFixture{
		store:       store,
		publisher:   publisher,
		delegations: delegations,
		register: commands.RegisterUseCase{
			Repository: store,
			Profiles:   profiles,
			Clock:      store,
			IDGen:      store,
			References: store,
			Publisher:  publisher,
		},
		applyMinute: commands.ApplyMinuteUseCase{
			Repository:  store,
			Profiles:    profiles,
			Delegations: delegations,
			Locker:      locker,
			Clock:       store,
			IDGen:       store,
			Publisher:   publisher,
			LockWait:    500 * time.Millisecond,
		},
	}
}

func registerPending(t *testing.T, fixture *workflowFixture, plan ...string) entities.Correspondence {
	t.Helper()
	created, err := fixture.register.Execute(context.Background(), commands.RegisterCommand{
		ActorID:     "registrar-1",
		Subject:     "Budget approval request",
		SenderName:  "Ministry of Finance",
		Direction:   entities.DirectionInbound,
		RoutingPlan: plan,
	})
	require.NoError(t, err)
	return created
}

func TestForwardRoutesToNamedTarget(t *testing.T) {
	fixture := newWorkflowFixture(t)
	created := registerPending(t, fixture, "approver-1", "approver-2")

	result, err := fixture.applyMinute.Execute(context.Background(), commands.ApplyMinuteCommand{
		CorrespondenceID: created.CorrespondenceID,
		ActorID:          "approver-1",
		Action:           entities.ActionForward,
		ToUserID:         "director-1",
		Content:          "Please advise",
	})
	require.NoError(t, err)

	assert.Equal(t, entities.StatusInProgress, result.Correspondence.Status)
	assert.Equal(t, "director-1", result.Correspondence.CurrentApproverID)
	assert.Equal(t, []string{"approver-1", "director-1"}, result.Correspondence.RoutingPlan)
	assert.Equal(t, 2, result.Minute.StepNumber)
}

func TestApproveAdvancesThenCompletes(t *testing.T) {
	fixture := newWorkflowFixture(t)
	created := registerPending(t, fixture, "approver-1", "approver-2")

	first, err := fixture.applyMinute.Execute(context.Background(), commands.ApplyMinuteCommand{
		CorrespondenceID: created.CorrespondenceID,
		ActorID:          "approver-1",
		Action:           entities.ActionApprove,
	})
	require.NoError(t, err)
	assert.Equal(t, entities.StatusInProgress, first.Correspondence.Status)
	assert.Equal(t, "approver-2", first.Correspondence.CurrentApproverID)
	assert.Equal(t, 2, first.Minute.StepNumber)

	final, err := fixture.applyMinute.Execute(context.Background(), commands.ApplyMinuteCommand{
		CorrespondenceID: created.CorrespondenceID,
		ActorID:          "approver-2",
		Action:           entities.ActionApprove,
	})
	require.NoError(t, err)
	assert.Equal(t, entities.StatusCompleted, final.Correspondence.Status)
	assert.Empty(t, final.Correspondence.CurrentApproverID)
	require.NotNil(t, final.Correspondence.CompletedAt)
	assert.Equal(t, 3, final.Minute.StepNumber)

	_, err = fixture.applyMinute.Execute(context.Background(), commands.ApplyMinuteCommand{
		CorrespondenceID: created.CorrespondenceID,
		ActorID:          "approver-2",
		Action:           entities.ActionMinute,
		Content:          "afterthought",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
}

func TestRejectConcludesRouting(t *testing.T) {
	fixture := newWorkflowFixture(t)
	created := registerPending(t, fixture, "approver-1")

	result, err := fixture.applyMinute.Execute(context.Background(), commands.ApplyMinuteCommand{
		CorrespondenceID: created.CorrespondenceID,
		ActorID:          "approver-1",
		Action:           entities.ActionReject,
		Content:          "Missing attachments",
	})
	require.NoError(t, err)
	assert.Equal(t, entities.StatusRejected, result.Correspondence.Status)
	assert.Empty(t, result.Correspondence.CurrentApproverID)
}

func TestDelegatedForwardActsForExecutive(t *testing.T) {
	fixture := newWorkflowFixture(t)
	created := registerPending(t, fixture, "approver-1", "approver-2")

	result, err := fixture.applyMinute.Execute(context.Background(), commands.ApplyMinuteCommand{
		CorrespondenceID: created.CorrespondenceID,
		ActorID:          "assistant-1",
		Action:           entities.ActionForward,
		ToUserID:         "director-1",
	})
	require.NoError(t, err)

	assert.True(t, result.Minute.ActedByAssistant)
	assert.Equal(t, "technical", result.Minute.AssistantType)
	assert.Equal(t, "assistant-1", result.Minute.AuthorID)
	assert.Equal(t, "director-1", result.Correspondence.CurrentApproverID)
	assert.Equal(t, []string{"dele-1"}, fixture.delegations.completedIDs())
}

func TestDelegatedMinuteKeepsDelegationOpen(t *testing.T) {
	fixture := newWorkflowFixture(t)
	created := registerPending(t, fixture, "approver-1")

	result, err := fixture.applyMinute.Execute(context.Background(), commands.ApplyMinuteCommand{
		CorrespondenceID: created.CorrespondenceID,
		ActorID:          "assistant-1",
		Action:           entities.ActionMinute,
		Content:          "Background gathered",
	})
	require.NoError(t, err)

	assert.True(t, result.Minute.ActedByAssistant)
	assert.Empty(t, fixture.delegations.completedIDs())
}

func TestForwardWithoutDistributeCapabilityForbidden(t *testing.T) {
	fixture := newWorkflowFixture(t)
	created := registerPending(t, fixture, "approver-1")
	before := len(fixture.publisher.published())

	_, err := fixture.applyMinute.Execute(context.Background(), commands.ApplyMinuteCommand{
		CorrespondenceID: created.CorrespondenceID,
		ActorID:          "staff-1",
		Action:           entities.ActionForward,
		ToUserID:         "director-1",
	})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	minutes, listErr := fixture.store.ListMinutes(context.Background(), created.CorrespondenceID)
	require.NoError(t, listErr)
	assert.Len(t, minutes, 1)
	assert.Len(t, fixture.publisher.published(), before)
}

func TestRoutingActionRequiresCurrentApprover(t *testing.T) {
	fixture := newWorkflowFixture(t)
	created := registerPending(t, fixture, "approver-1", "approver-2")

	_, err := fixture.applyMinute.Execute(context.Background(), commands.ApplyMinuteCommand{
		CorrespondenceID: created.CorrespondenceID,
		ActorID:          "approver-2",
		Action:           entities.ActionApprove,
	})
	assert.ErrorIs(t, err, domainerrors.ErrNotCurrentApprover)
}

func TestMinuteByNonApproverIsAccepted(t *testing.T) {
	fixture := newWorkflowFixture(t)
	created := registerPending(t, fixture, "approver-1")

	result, err := fixture.applyMinute.Execute(context.Background(), commands.ApplyMinuteCommand{
		CorrespondenceID: created.CorrespondenceID,
		ActorID:          "staff-1",
		Action:           entities.ActionMinute,
		Content:          "Earlier file attached for context",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Minute.StepNumber)
	assert.Equal(t, entities.StatusPending, result.Correspondence.Status)
	assert.Equal(t, "approver-1", result.Correspondence.CurrentApproverID)
}

func TestStepNumbersStayGapFree(t *testing.T) {
	fixture := newWorkflowFixture(t)
	created := registerPending(t, fixture, "approver-1")

	actions := []commands.ApplyMinuteCommand{
		{CorrespondenceID: created.CorrespondenceID, ActorID: "staff-1", Action: entities.ActionMinute, Content: "note"},
		{CorrespondenceID: created.CorrespondenceID, ActorID: "approver-1", Action: entities.ActionForward, ToUserID: "approver-2"},
		{CorrespondenceID: created.CorrespondenceID, ActorID: "approver-2", Action: entities.ActionTreat, Content: "handled"},
		{CorrespondenceID: created.CorrespondenceID, ActorID: "approver-2", Action: entities.ActionApprove},
	}
	for _, cmd := range actions {
		_, err := fixture.applyMinute.Execute(context.Background(), cmd)
		require.NoError(t, err)
	}

	minutes, err := fixture.store.ListMinutes(context.Background(), created.CorrespondenceID)
	require.NoError(t, err)
	require.Len(t, minutes, 5)
	for i, minute := range minutes {
		assert.Equal(t, i+1, minute.StepNumber)
	}
}

func TestCreatorRoutesDraftToFirstApprover(t *testing.T) {
	fixture := newWorkflowFixture(t)
	created := registerPending(t, fixture)
	require.Equal(t, entities.StatusDraft, created.Status)
	require.Empty(t, created.CurrentApproverID)

	result, err := fixture.applyMinute.Execute(context.Background(), commands.ApplyMinuteCommand{
		CorrespondenceID: created.CorrespondenceID,
		ActorID:          "registrar-1",
		Action:           entities.ActionForward,
		ToUserID:         "approver-1",
	})
	require.NoError(t, err)

	assert.Equal(t, entities.StatusPending, result.Correspondence.Status)
	assert.Equal(t, "approver-1", result.Correspondence.CurrentApproverID)
	assert.Equal(t, []string{"approver-1"}, result.Correspondence.RoutingPlan)
	assert.Equal(t, 2, result.Minute.StepNumber)
}

func TestDraftRoutableOnlyByItsCreator(t *testing.T) {
	fixture := newWorkflowFixture(t)
	created := registerPending(t, fixture)

	_, err := fixture.applyMinute.Execute(context.Background(), commands.ApplyMinuteCommand{
		CorrespondenceID: created.CorrespondenceID,
		ActorID:          "approver-1",
		Action:           entities.ActionForward,
		ToUserID:         "director-1",
	})
	assert.ErrorIs(t, err, domainerrors.ErrNotCurrentApprover)
}

func TestRegisterCapabilityCoversDraftHandOff(t *testing.T) {
	fixture := newWorkflowFixture(t)
	created, err := fixture.register.Execute(context.Background(), commands.RegisterCommand{
		ActorID:    "clerk-1",
		Subject:    "Leave roster for ratification",
		SenderName: "Human Resources",
		Direction:  entities.DirectionInbound,
	})
	require.NoError(t, err)
	require.Equal(t, entities.StatusDraft, created.Status)

	result, err := fixture.applyMinute.Execute(context.Background(), commands.ApplyMinuteCommand{
		CorrespondenceID: created.CorrespondenceID,
		ActorID:          "clerk-1",
		Action:           entities.ActionForward,
		ToUserID:         "approver-1",
	})
	require.NoError(t, err)
	assert.Equal(t, entities.StatusPending, result.Correspondence.Status)
	assert.Equal(t, "approver-1", result.Correspondence.CurrentApproverID)
}

func TestApplyMinuteBusyWhenCorrespondenceLocked(t *testing.T) {
	fixture := newWorkflowFixture(t)
	created := registerPending(t, fixture, "approver-1")

	registry := fixture.applyMinute.Locker.(*keylock.Registry)
	release, err := registry.Acquire(context.Background(), created.CorrespondenceID)
	require.NoError(t, err)
	defer release()

	fixture.applyMinute.LockWait = 50 * time.Millisecond
	_, err = fixture.applyMinute.Execute(context.Background(), commands.ApplyMinuteCommand{
		CorrespondenceID: created.CorrespondenceID,
		ActorID:          "approver-1",
		Action:           entities.ActionApprove,
	})
	assert.ErrorIs(t, err, domainerrors.ErrBusy)
}
