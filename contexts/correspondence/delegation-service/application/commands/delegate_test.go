package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"chancery/contexts/correspondence/delegation-service/adapters/memory"
	"chancery/contexts/correspondence/delegation-service/application/commands"
	"chancery/contexts/correspondence/delegation-service/domain/entities"
	domainerrors "chancery/contexts/correspondence/delegation-service/domain/errors"
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

func newDelegateFixture(t *testing.T) (*memory.Store, *capturingPublisher, commands.DelegateUseCase) {
	t.Helper()
	store := memory.NewStore()
	publisher := &capturingPublisher{}
	useCase := commands.DelegateUseCase{
		Repository: store,
		Locker:     keylock.NewRegistry(),
		Clock:      store,
		IDGen:      store,
		Publisher:  publisher,
		LockWait:   500 * time.Millisecond,
	}
	return store, publisher, useCase
}

func seedAssignment(t *testing.T, store *memory.Store, executiveID, assistantID string) entities.AssistantAssignment {
	t.Helper()
	assignment, err := store.CreateAssignment(context.Background(), createAssignmentInput(executiveID, assistantID))
	require.NoError(t, err)
	return assignment
}

func TestDelegateRequiresAssignment(t *testing.T) {
	_, _, useCase := newDelegateFixture(t)

	_, err := useCase.Execute(context.Background(), commands.DelegateCommand{
		CorrespondenceID: "corr-1",
		ExecutiveID:      "exec-1",
		AssistantID:      "assistant-1",
	})
	assert.ErrorIs(t, err, domainerrors.ErrNotAssigned)
}

func TestDelegateCreatesActiveDelegation(t *testing.T) {
	store, publisher, useCase := newDelegateFixture(t)
	seedAssignment(t, store, "exec-1", "assistant-1")

	result, err := useCase.Execute(context.Background(), commands.DelegateCommand{
		CorrespondenceID: "corr-1",
		ExecutiveID:      "exec-1",
		AssistantID:      "assistant-1",
		Notes:            "handle while travelling",
	})
	require.NoError(t, err)

	assert.Equal(t, entities.DelegationStatusActive, result.Delegation.Status)
	assert.Equal(t, "corr-1", result.Delegation.CorrespondenceID)
	assert.Equal(t, entities.AssistantTypeTechnical, result.Delegation.AssistantType)
	assert.Nil(t, result.Superseded)

	envelopes := publisher.published()
	require.Len(t, envelopes, 1)
	assert.Equal(t, commands.EventTypeDelegationAssigned, envelopes[0].EventType)
	assert.Equal(t, "corr-1", envelopes[0].CorrelationID)

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestDelegateSupersedesPriorActiveDelegation(t *testing.T) {
	store, _, useCase := newDelegateFixture(t)
	seedAssignment(t, store, "exec-1", "assistant-1")
	seedAssignment(t, store, "exec-1", "assistant-2")

	first, err := useCase.Execute(context.Background(), commands.DelegateCommand{
		CorrespondenceID: "corr-1",
		ExecutiveID:      "exec-1",
		AssistantID:      "assistant-1",
	})
	require.NoError(t, err)

	second, err := useCase.Execute(context.Background(), commands.DelegateCommand{
		CorrespondenceID: "corr-1",
		ExecutiveID:      "exec-1",
		AssistantID:      "assistant-2",
	})
	require.NoError(t, err)

	require.NotNil(t, second.Superseded)
	assert.Equal(t, first.Delegation.DelegationID, second.Superseded.DelegationID)
	assert.Equal(t, entities.DelegationStatusRevoked, second.Superseded.Status)

	active, found, err := store.ActiveForCorrespondence(context.Background(), "corr-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, second.Delegation.DelegationID, active.DelegationID)

	prior, err := store.GetDelegation(context.Background(), first.Delegation.DelegationID)
	require.NoError(t, err)
	assert.Equal(t, entities.DelegationStatusRevoked, prior.Status)
}

func TestDelegateRejectsSelfDelegation(t *testing.T) {
	_, _, useCase := newDelegateFixture(t)

	_, err := useCase.Execute(context.Background(), commands.DelegateCommand{
		CorrespondenceID: "corr-1",
		ExecutiveID:      "exec-1",
		AssistantID:      "exec-1",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidRequest)
}

func TestDelegateReturnsBusyWhenCorrespondenceLocked(t *testing.T) {
	store, _, useCase := newDelegateFixture(t)
	seedAssignment(t, store, "exec-1", "assistant-1")

	registry := useCase.Locker.(*keylock.Registry)
	release, err := registry.Acquire(context.Background(), "corr-1")
	require.NoError(t, err)
	defer release()

	useCase.LockWait = 50 * time.Millisecond
	_, err = useCase.Execute(context.Background(), commands.DelegateCommand{
		CorrespondenceID: "corr-1",
		ExecutiveID:      "exec-1",
		AssistantID:      "assistant-1",
	})
	assert.ErrorIs(t, err, domainerrors.ErrBusy)
}
