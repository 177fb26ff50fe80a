package commands_test

import (
	"context"
	"testing"
	"time"

	"chancery/contexts/correspondence/workflow-service/application/commands"
	"chancery/contexts/correspondence/workflow-service/domain/entities"
	domainerrors "chancery/contexts/correspondence/workflow-service/domain/errors"
	"chancery/internal/shared/keylock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *workflowFixture) archiveUseCase() commands.ArchiveUseCase {
	return commands.ArchiveUseCase{
		Repository: f.store,
		Profiles:   f.register.Profiles,
		Locker:     keylock.NewRegistry(),
		Clock:      f.store,
		IDGen:      f.store,
		Publisher:  f.publisher,
		LockWait:   500 * time.Millisecond,
	}
}

func TestArchiveRequiresConcludedStatus(t *testing.T) {
	fixture := newWorkflowFixture(t)
	created := registerPending(t, fixture, "approver-1")

	_, err := fixture.archiveUseCase().Execute(context.Background(), commands.ArchiveCommand{
		CorrespondenceID: created.CorrespondenceID,
		ActorID:          "registrar-1",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
}

func TestArchiveCompletedCorrespondence(t *testing.T) {
	fixture := newWorkflowFixture(t)
	created := registerPending(t, fixture, "approver-1")

	_, err := fixture.applyMinute.Execute(context.Background(), commands.ApplyMinuteCommand{
		CorrespondenceID: created.CorrespondenceID,
		ActorID:          "approver-1",
		Action:           entities.ActionApprove,
	})
	require.NoError(t, err)

	archived, err := fixture.archiveUseCase().Execute(context.Background(), commands.ArchiveCommand{
		CorrespondenceID: created.CorrespondenceID,
		ActorID:          "registrar-1",
	})
	require.NoError(t, err)
	assert.Equal(t, entities.StatusArchived, archived.Status)
}

func TestArchiveRequiresRegistryCapability(t *testing.T) {
	fixture := newWorkflowFixture(t)
	created := registerPending(t, fixture, "approver-1")

	_, err := fixture.applyMinute.Execute(context.Background(), commands.ApplyMinuteCommand{
		CorrespondenceID: created.CorrespondenceID,
		ActorID:          "approver-1",
		Action:           entities.ActionReject,
	})
	require.NoError(t, err)

	_, err = fixture.archiveUseCase().Execute(context.Background(), commands.ArchiveCommand{
		CorrespondenceID: created.CorrespondenceID,
		ActorID:          "approver-1",
	})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestDistributeRecordsEveryRecipient(t *testing.T) {
	fixture := newWorkflowFixture(t)
	created := registerPending(t, fixture, "approver-1")

	distribute := commands.DistributeUseCase{
		Repository: fixture.store,
		Profiles:   fixture.register.Profiles,
		Clock:      fixture.store,
		IDGen:      fixture.store,
		Publisher:  fixture.publisher,
	}
	before := len(fixture.publisher.published())

	distributions, err := distribute.Execute(context.Background(), commands.DistributeCommand{
		CorrespondenceID: created.CorrespondenceID,
		ActorID:          "registrar-1",
		RecipientIDs:     []string{"staff-1", "director-1"},
		Purpose:          entities.PurposeInformation,
	})
	require.NoError(t, err)
	require.Len(t, distributions, 2)
	assert.Len(t, fixture.publisher.published(), before+2)

	listed, err := fixture.store.ListDistributions(context.Background(), created.CorrespondenceID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestDistributeRejectsUnknownPurpose(t *testing.T) {
	fixture := newWorkflowFixture(t)
	created := registerPending(t, fixture, "approver-1")

	distribute := commands.DistributeUseCase{
		Repository: fixture.store,
		Profiles:   fixture.register.Profiles,
		Clock:      fixture.store,
		IDGen:      fixture.store,
		Publisher:  fixture.publisher,
	}
	_, err := distribute.Execute(context.Background(), commands.DistributeCommand{
		CorrespondenceID: created.CorrespondenceID,
		ActorID:          "registrar-1",
		RecipientIDs:     []string{"staff-1"},
		Purpose:          entities.DistributionPurpose("broadcast"),
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidRequest)
}

func TestLinkDocumentIsIdempotent(t *testing.T) {
	fixture := newWorkflowFixture(t)
	created := registerPending(t, fixture, "approver-1")

	link := commands.LinkDocumentUseCase{
		Repository: fixture.store,
		Profiles:   fixture.register.Profiles,
		Clock:      fixture.store,
	}
	first, err := link.Execute(context.Background(), commands.LinkDocumentCommand{
		CorrespondenceID: created.CorrespondenceID,
		ActorID:          "registrar-1",
		DocumentID:       "doc-1",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-1"}, first.LinkedDocumentIDs)

	second, err := link.Execute(context.Background(), commands.LinkDocumentCommand{
		CorrespondenceID: created.CorrespondenceID,
		ActorID:          "registrar-1",
		DocumentID:       "doc-1",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-1"}, second.LinkedDocumentIDs)
}

func TestMarkMinuteReadKeepsFirstStamp(t *testing.T) {
	fixture := newWorkflowFixture(t)
	created := registerPending(t, fixture, "approver-1")

	minutes, err := fixture.store.ListMinutes(context.Background(), created.CorrespondenceID)
	require.NoError(t, err)
	require.Len(t, minutes, 1)

	markRead := commands.MarkMinuteReadUseCase{Repository: fixture.store, Clock: fixture.store}
	first, err := markRead.Execute(context.Background(), commands.MarkMinuteReadCommand{MinuteID: minutes[0].MinuteID})
	require.NoError(t, err)
	require.NotNil(t, first.ReadAt)

	second, err := markRead.Execute(context.Background(), commands.MarkMinuteReadCommand{MinuteID: minutes[0].MinuteID})
	require.NoError(t, err)
	require.NotNil(t, second.ReadAt)
	assert.True(t, second.ReadAt.Equal(*first.ReadAt))
}
