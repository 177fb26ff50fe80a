package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainerrors "chancery/contexts/correspondence/workflow-service/domain/errors"
	"chancery/contexts/correspondence/workflow-service/ports"
	"chancery/internal/shared/events"
)

const defaultLockWait = 3 * time.Second

// acquireAggregate waits a bounded time for the correspondence lock and maps
// exhaustion to the retryable busy error.
func acquireAggregate(
	ctx context.Context,
	locker ports.Locker,
	correspondenceID string,
	wait time.Duration,
) (func(), error) {
	if wait <= 0 {
		wait = defaultLockWait
	}
	lockCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	release, err := locker.Acquire(lockCtx, correspondenceID)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, domainerrors.ErrBusy
	}
	return release, nil
}

// publishBestEffort pushes the event to the bus without affecting the
// committed mutation; the outbox relay guarantees eventual delivery.
func publishBestEffort(
	ctx context.Context,
	publisher ports.EventPublisher,
	logger *slog.Logger,
	envelope events.Envelope,
) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, TopicCorrespondenceEvents, envelope); err != nil && logger != nil {
		logger.Warn("correspondence event push deferred to outbox relay",
			"event", "correspondence_event_push_deferred",
			"module", "correspondence/workflow-service",
			"layer", "application",
			"event_id", envelope.EventID,
			"event_type", envelope.EventType,
			"error", err.Error(),
		)
	}
}
