package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "chancery/contexts/correspondence/delegation-service/application"
	"chancery/contexts/correspondence/delegation-service/application/commands"
	"chancery/contexts/correspondence/delegation-service/ports"
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
// the retry loop can reprocess remaining rows safely. Consumers dedup by
// event id, so a row published here and by the best-effort inline push is
// delivered at least once, never applied twice.
func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("delegation outbox list failed",
			"event", "delegation_outbox_list_failed",
			"module", "correspondence/delegation-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		logger.Debug("delegation outbox relay found no pending rows",
			"event", "delegation_outbox_relay_noop",
			"module", "correspondence/delegation-service",
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
			logger.Error("delegation outbox decode failed",
				"event", "delegation_outbox_decode_failed",
				"module", "correspondence/delegation-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Publisher.Publish(ctx, commands.TopicDelegationEvents, event); err != nil {
			logger.Error("delegation outbox publish failed",
				"event", "delegation_outbox_publish_failed",
				"module", "correspondence/delegation-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"event_id", event.EventID,
				"event_type", event.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			logger.Error("delegation outbox mark published failed",
				"event", "delegation_outbox_mark_published_failed",
				"module", "correspondence/delegation-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	logger.Info("delegation outbox relay cycle completed",
		"event", "delegation_outbox_relay_completed",
		"module", "correspondence/delegation-service",
		"layer", "worker",
		"published_count", len(pending),
	)
	return nil
}
