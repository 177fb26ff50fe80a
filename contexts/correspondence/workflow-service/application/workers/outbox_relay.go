package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "chancery/contexts/correspondence/workflow-service/application"
	"chancery/contexts/correspondence/workflow-service/application/commands"
	"chancery/contexts/correspondence/workflow-service/ports"
	"chancery/internal/shared/events"
)

// OutboxRelay publishes persisted outbox records to the event bus.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes a bounded batch of pending outbox rows and marks each row
// published only after bus publish succeeds. It stops on the first failure so
// the retry loop can reprocess remaining rows safely.
func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("correspondence outbox list failed",
			"event", "correspondence_outbox_list_failed",
			"module", "correspondence/workflow-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		logger.Debug("correspondence outbox relay found no pending rows",
			"event", "correspondence_outbox_relay_noop",
			"module", "correspondence/workflow-service",
			"layer", "worker",
			"batch_size", limit,
		)
		return nil
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, row := range pending {
		var event events.Envelope
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			logger.Error("correspondence outbox decode failed",
				"event", "correspondence_outbox_decode_failed",
				"module", "correspondence/workflow-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Publisher.Publish(ctx, commands.TopicCorrespondenceEvents, event); err != nil {
			logger.Error("correspondence outbox publish failed",
				"event", "correspondence_outbox_publish_failed",
				"module", "correspondence/workflow-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"event_id", event.EventID,
				"event_type", event.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			logger.Error("correspondence outbox mark published failed",
				"event", "correspondence_outbox_mark_published_failed",
				"module", "correspondence/workflow-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	logger.Info("correspondence outbox relay cycle completed",
		"event", "correspondence_outbox_relay_completed",
		"module", "correspondence/workflow-service",
		"layer", "worker",
		"published_count", len(pending),
	)
	return nil
}
