package commands_test

import (
	"context"
	"testing"

	"chancery/contexts/notifications/notification-service/adapters/memory"
	"chancery/contexts/notifications/notification-service/application/commands"
	"chancery/contexts/notifications/notification-service/domain/entities"
	domainerrors "chancery/contexts/notifications/notification-service/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNotification(t *testing.T, store *memory.Store) entities.Notification {
	t.Helper()
	create := commands.CreateNotificationUseCase{Repository: store, Clock: store, IDGen: store}
	notification, err := create.Execute(context.Background(), commands.CreateNotificationCommand{
		RecipientID: "director-1",
		Title:       "Correspondence forwarded to you",
		Type:        entities.TypeCorrespondence,
	})
	require.NoError(t, err)
	return notification
}

func TestMarkReadKeepsFirstStamp(t *testing.T) {
	store := memory.NewStore()
	notification := seedNotification(t, store)

	markRead := commands.MarkReadUseCase{Repository: store, Clock: store}
	first, err := markRead.Execute(context.Background(), commands.MarkReadCommand{NotificationID: notification.NotificationID})
	require.NoError(t, err)
	require.NotNil(t, first.ReadAt)
	assert.Equal(t, entities.StatusRead, first.Status)

	second, err := markRead.Execute(context.Background(), commands.MarkReadCommand{NotificationID: notification.NotificationID})
	require.NoError(t, err)
	require.NotNil(t, second.ReadAt)
	assert.True(t, second.ReadAt.Equal(*first.ReadAt))
}

func TestMarkArchivedIsIdempotent(t *testing.T) {
	store := memory.NewStore()
	notification := seedNotification(t, store)

	markArchived := commands.MarkArchivedUseCase{Repository: store, Clock: store}
	first, err := markArchived.Execute(context.Background(), commands.MarkArchivedCommand{NotificationID: notification.NotificationID})
	require.NoError(t, err)
	assert.Equal(t, entities.StatusArchived, first.Status)
	assert.Nil(t, first.ReadAt)

	second, err := markArchived.Execute(context.Background(), commands.MarkArchivedCommand{NotificationID: notification.NotificationID})
	require.NoError(t, err)
	assert.Equal(t, entities.StatusArchived, second.Status)
}

func TestMarkArchivedKeepsReadStamp(t *testing.T) {
	store := memory.NewStore()
	notification := seedNotification(t, store)

	markRead := commands.MarkReadUseCase{Repository: store, Clock: store}
	read, err := markRead.Execute(context.Background(), commands.MarkReadCommand{NotificationID: notification.NotificationID})
	require.NoError(t, err)

	markArchived := commands.MarkArchivedUseCase{Repository: store, Clock: store}
	archived, err := markArchived.Execute(context.Background(), commands.MarkArchivedCommand{NotificationID: notification.NotificationID})
	require.NoError(t, err)
	require.NotNil(t, archived.ReadAt)
	assert.True(t, archived.ReadAt.Equal(*read.ReadAt))
}

func TestMarkReadUnknownNotification(t *testing.T) {
	store := memory.NewStore()

	markRead := commands.MarkReadUseCase{Repository: store, Clock: store}
	_, err := markRead.Execute(context.Background(), commands.MarkReadCommand{NotificationID: "missing"})
	assert.ErrorIs(t, err, domainerrors.ErrNotificationNotFound)
}

func TestCreateRejectsUnknownType(t *testing.T) {
	store := memory.NewStore()

	create := commands.CreateNotificationUseCase{Repository: store, Clock: store, IDGen: store}
	_, err := create.Execute(context.Background(), commands.CreateNotificationCommand{
		RecipientID: "director-1",
		Title:       "Broken",
		Type:        entities.NotificationType("gossip"),
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidRequest)
}
