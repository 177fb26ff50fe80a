package commands_test

import (
	"context"
	"testing"
	"time"

	"chancery/contexts/correspondence/delegation-service/adapters/memory"
	"chancery/contexts/correspondence/delegation-service/application/commands"
	"chancery/contexts/correspondence/delegation-service/domain/entities"
	domainerrors "chancery/contexts/correspondence/delegation-service/domain/errors"
	"chancery/contexts/correspondence/delegation-service/ports"
	"chancery/internal/shared/keylock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createAssignmentInput(executiveID, assistantID string) ports.CreateAssignmentInput {
	return ports.CreateAssignmentInput{
		AssignmentID: "assign-" + executiveID + "-" + assistantID,
		ExecutiveID:  executiveID,
		AssistantID:  assistantID,
		Type:         entities.AssistantTypeTechnical,
		Permissions:  []string{"view", "draft", "forward"},
		CreatedAt:    time.Now().UTC(),
	}
}

type lifecycleFixture struct {
	store    *memory.Store
	delegate commands.DelegateUseCase
	revoke   commands.RevokeUseCase
	complete commands.CompleteUseCase
}

func newLifecycleFixture(t *testing.T) lifecycleFixture {
	t.Helper()
	store := memory.NewStore()
	locker := keylock.NewRegistry()
	wait := 500 * time.Millisecond
	return lifecycleFixture{
		store: store,
		delegate: commands.DelegateUseCase{
			Repository: store, Locker: locker, Clock: store, IDGen: store, LockWait: wait,
		},
		revoke: commands.RevokeUseCase{
			Repository: store, Locker: locker, Clock: store, IDGen: store, LockWait: wait,
		},
		complete: commands.CompleteUseCase{
			Repository: store, Locker: locker, Clock: store, IDGen: store, LockWait: wait,
		},
	}
}

func (f lifecycleFixture) delegateOne(t *testing.T) entities.Delegation {
	t.Helper()
	_, err := f.store.CreateAssignment(context.Background(), createAssignmentInput("exec-1", "assistant-1"))
	require.NoError(t, err)
	result, err := f.delegate.Execute(context.Background(), commands.DelegateCommand{
		CorrespondenceID: "corr-1",
		ExecutiveID:      "exec-1",
		AssistantID:      "assistant-1",
	})
	require.NoError(t, err)
	return result.Delegation
}

func TestRevokeTransitionsActiveDelegation(t *testing.T) {
	fixture := newLifecycleFixture(t)
	delegation := fixture.delegateOne(t)

	revoked, err := fixture.revoke.Execute(context.Background(), commands.RevokeCommand{
		DelegationID: delegation.DelegationID,
	})
	require.NoError(t, err)
	assert.Equal(t, entities.DelegationStatusRevoked, revoked.Status)

	_, found, err := fixture.store.ActiveForCorrespondence(context.Background(), "corr-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRevokeTerminalDelegationIsNoOp(t *testing.T) {
	fixture := newLifecycleFixture(t)
	delegation := fixture.delegateOne(t)

	completed, err := fixture.complete.Execute(context.Background(), commands.CompleteCommand{
		DelegationID: delegation.DelegationID,
	})
	require.NoError(t, err)
	require.Equal(t, entities.DelegationStatusCompleted, completed.Status)

	again, err := fixture.revoke.Execute(context.Background(), commands.RevokeCommand{
		DelegationID: delegation.DelegationID,
	})
	require.NoError(t, err)
	assert.Equal(t, entities.DelegationStatusCompleted, again.Status)
	assert.NotNil(t, again.CompletedAt)
}

func TestCompleteStampsCompletionTime(t *testing.T) {
	fixture := newLifecycleFixture(t)
	delegation := fixture.delegateOne(t)

	completed, err := fixture.complete.Execute(context.Background(), commands.CompleteCommand{
		DelegationID: delegation.DelegationID,
	})
	require.NoError(t, err)
	assert.Equal(t, entities.DelegationStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	assert.False(t, completed.CompletedAt.Before(delegation.DelegatedAt))
}

func TestRevokeUnknownDelegation(t *testing.T) {
	fixture := newLifecycleFixture(t)

	_, err := fixture.revoke.Execute(context.Background(), commands.RevokeCommand{
		DelegationID: "missing",
	})
	assert.ErrorIs(t, err, domainerrors.ErrDelegationNotFound)
}

func TestAssignAssistantValidation(t *testing.T) {
	store := memory.NewStore()
	useCase := commands.AssignAssistantUseCase{Repository: store, Clock: store, IDGen: store}

	_, err := useCase.Execute(context.Background(), commands.AssignAssistantCommand{
		ExecutiveID: "exec-1",
		AssistantID: "assistant-1",
		Type:        "XX",
		Permissions: []string{"view"},
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidAssistantType)

	_, err = useCase.Execute(context.Background(), commands.AssignAssistantCommand{
		ExecutiveID: "exec-1",
		AssistantID: "assistant-1",
		Type:        entities.AssistantTypePersonal,
		Permissions: []string{"approve"},
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidPermission)

	assignment, err := useCase.Execute(context.Background(), commands.AssignAssistantCommand{
		ExecutiveID: "exec-1",
		AssistantID: "assistant-1",
		Type:        entities.AssistantTypePersonal,
		Permissions: []string{"view", "view", "draft"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"view", "draft"}, assignment.Permissions)

	_, err = useCase.Execute(context.Background(), commands.AssignAssistantCommand{
		ExecutiveID: "exec-1",
		AssistantID: "assistant-1",
		Type:        entities.AssistantTypePersonal,
		Permissions: []string{"view"},
	})
	assert.ErrorIs(t, err, domainerrors.ErrAssignmentExists)
}
