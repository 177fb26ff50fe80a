package workers_test

import (
	"context"
	"testing"
	"time"

	"chancery/contexts/notifications/notification-service/adapters/memory"
	"chancery/contexts/notifications/notification-service/application/commands"
	"chancery/contexts/notifications/notification-service/application/workers"
	"chancery/contexts/notifications/notification-service/domain/entities"
	"chancery/contexts/notifications/notification-service/ports"
	"chancery/internal/shared/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConsumer(t *testing.T) (*memory.Store, workers.WorkflowEventConsumer) {
	t.Helper()
	store := memory.NewStore()
	return store, workers.WorkflowEventConsumer{
		Create: commands.CreateNotificationUseCase{
			Repository: store,
			Clock:      store,
			IDGen:      store,
		},
	}
}

func minutedEnvelope(eventID string) events.Envelope {
	return events.Envelope{
		EventID:       eventID,
		EventType:     "correspondence.minuted",
		SourceService: "correspondence/workflow-service",
		OccurredAtUTC: time.Now().UTC(),
		CorrelationID: "corr-1",
		EntityType:    "correspondence",
		EntityID:      "corr-1",
		Payload: map[string]any{
			"correspondence_id": "corr-1",
			"reference_number":  "REF-2026-01ABC",
			"subject":           "Budget approval request",
			"status":            "in-progress",
			"priority":          "high",
			"action":            "forward",
			"actor_id":          "approver-1",
			"recipient_id":      "director-1",
		},
	}
}

func TestConsumerProjectsMinutedEvent(t *testing.T) {
	store, consumer := newConsumer(t)

	require.NoError(t, consumer.Handle(context.Background(), minutedEnvelope("evt-1")))

	notifications, err := store.ListForRecipient(context.Background(), "director-1", ports.ListFilter{})
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Correspondence forwarded to you", notifications[0].Title)
	assert.Equal(t, entities.TypeCorrespondence, notifications[0].Type)
	assert.Equal(t, entities.PriorityHigh, notifications[0].Priority)
	assert.Equal(t, "corr-1", notifications[0].RelatedObjectID)
	assert.Equal(t, "evt-1", notifications[0].SourceEventID)
}

func TestConsumerDeduplicatesReplayedEvent(t *testing.T) {
	store, consumer := newConsumer(t)

	require.NoError(t, consumer.Handle(context.Background(), minutedEnvelope("evt-1")))
	require.NoError(t, consumer.Handle(context.Background(), minutedEnvelope("evt-1")))

	notifications, err := store.ListForRecipient(context.Background(), "director-1", ports.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, notifications, 1)
}

func TestConsumerSkipsSelfAddressedEvent(t *testing.T) {
	store, consumer := newConsumer(t)

	envelope := minutedEnvelope("evt-2")
	envelope.Payload = map[string]any{
		"correspondence_id": "corr-1",
		"action":            "minute",
		"actor_id":          "approver-1",
		"recipient_id":      "approver-1",
	}
	require.NoError(t, consumer.Handle(context.Background(), envelope))

	notifications, err := store.ListForRecipient(context.Background(), "approver-1", ports.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestConsumerProjectsDelegationAssigned(t *testing.T) {
	store, consumer := newConsumer(t)

	require.NoError(t, consumer.Handle(context.Background(), events.Envelope{
		EventID:       "evt-3",
		EventType:     "delegation.assigned",
		SourceService: "correspondence/delegation-service",
		OccurredAtUTC: time.Now().UTC(),
		CorrelationID: "corr-1",
		EntityType:    "delegation",
		EntityID:      "dele-1",
		Payload: map[string]any{
			"delegation_id":     "dele-1",
			"correspondence_id": "corr-1",
			"executive_id":      "exec-1",
			"assistant_id":      "assistant-1",
			"assistant_type":    "TA",
			"notes":             "handle while travelling",
		},
	}))

	notifications, err := store.ListForRecipient(context.Background(), "assistant-1", ports.ListFilter{})
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Correspondence delegated to you", notifications[0].Title)
	assert.Equal(t, entities.TypeWorkflow, notifications[0].Type)
	assert.Equal(t, "exec-1", notifications[0].SenderID)
}

func TestConsumerIgnoresUnknownEventType(t *testing.T) {
	store, consumer := newConsumer(t)

	require.NoError(t, consumer.Handle(context.Background(), events.Envelope{
		EventID:   "evt-4",
		EventType: "billing.invoiced",
	}))

	count, err := store.UnreadCount(context.Background(), "director-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}
