package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "chancery/contexts/correspondence/delegation-service/application"
	"chancery/contexts/correspondence/delegation-service/domain/entities"
	domainerrors "chancery/contexts/correspondence/delegation-service/domain/errors"
	"chancery/contexts/correspondence/delegation-service/ports"
)

// CompleteCommand closes an active delegation once its work is done.
type CompleteCommand struct {
	DelegationID string
}

// CompleteUseCase transitions a delegation to completed and stamps the
// completion time. Terminal delegations are left untouched.
type CompleteUseCase struct {
	Repository ports.Repository
	Locker     ports.Locker
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Publisher  ports.EventPublisher
	LockWait   time.Duration
	Logger     *slog.Logger
}

func (u CompleteUseCase) Execute(ctx context.Context, cmd CompleteCommand) (entities.Delegation, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.DelegationID) == "" {
		return entities.Delegation{}, domainerrors.ErrInvalidRequest
	}

	current, err := u.Repository.GetDelegation(ctx, cmd.DelegationID)
	if err != nil {
		return entities.Delegation{}, err
	}

	release, err := acquireAggregate(ctx, u.Locker, current.CorrespondenceID, u.LockWait)
	if err != nil {
		return entities.Delegation{}, err
	}
	defer release()

	current, err = u.Repository.GetDelegation(ctx, cmd.DelegationID)
	if err != nil {
		return entities.Delegation{}, err
	}
	if current.IsTerminal() {
		return current, nil
	}

	outboxID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return entities.Delegation{}, err
	}
	now := u.Clock.Now().UTC()

	completed := current
	completed.Status = entities.DelegationStatusCompleted
	completed.CompletedAt = &now
	envelope := newDelegationEnvelope(outboxID, EventTypeDelegationCompleted, completed, "", now)
	payload, err := json.Marshal(envelope)
	if err != nil {
		return entities.Delegation{}, err
	}

	updated, err := u.Repository.SetDelegationStatus(ctx, ports.SetStatusInput{
		DelegationID:  cmd.DelegationID,
		Status:        entities.DelegationStatusCompleted,
		At:            now,
		OutboxID:      outboxID,
		EventType:     EventTypeDelegationCompleted,
		OutboxPayload: payload,
	})
	if err != nil {
		return entities.Delegation{}, err
	}

	publishBestEffort(ctx, u.Publisher, logger,
		newDelegationEnvelope(outboxID, EventTypeDelegationCompleted, updated, "", now))

	logger.Info("delegation completed",
		"event", "delegation_completed",
		"module", "correspondence/delegation-service",
		"layer", "application",
		"delegation_id", updated.DelegationID,
		"correspondence_id", updated.CorrespondenceID,
	)
	return updated, nil
}
