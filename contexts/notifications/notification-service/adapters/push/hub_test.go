package push_test

import (
	"testing"
	"time"

	"chancery/contexts/notifications/notification-service/adapters/push"
	"chancery/contexts/notifications/notification-service/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversToSubscriber(t *testing.T) {
	hub := push.NewHub(4, nil)
	ch, cancel := hub.Subscribe("director-1")
	defer cancel()

	hub.Push(entities.Notification{NotificationID: "n-1", RecipientID: "director-1"})

	select {
	case notification := <-ch:
		assert.Equal(t, "n-1", notification.NotificationID)
	case <-time.After(time.Second):
		t.Fatal("expected a pushed notification")
	}
}

func TestHubIgnoresOtherRecipients(t *testing.T) {
	hub := push.NewHub(4, nil)
	ch, cancel := hub.Subscribe("director-1")
	defer cancel()

	hub.Push(entities.Notification{NotificationID: "n-1", RecipientID: "staff-1"})

	select {
	case <-ch:
		t.Fatal("notification leaked to the wrong recipient")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	hub := push.NewHub(1, nil)
	ch, cancel := hub.Subscribe("director-1")
	defer cancel()

	hub.Push(entities.Notification{NotificationID: "n-1", RecipientID: "director-1"})
	hub.Push(entities.Notification{NotificationID: "n-2", RecipientID: "director-1"})

	first := <-ch
	assert.Equal(t, "n-1", first.NotificationID)
	select {
	case leftover := <-ch:
		t.Fatalf("expected the second push dropped, got %s", leftover.NotificationID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubCancelRemovesSubscription(t *testing.T) {
	hub := push.NewHub(4, nil)
	_, cancel := hub.Subscribe("director-1")
	require.Equal(t, 1, hub.SubscriberCount("director-1"))

	cancel()
	cancel()
	assert.Zero(t, hub.SubscriberCount("director-1"))
}
