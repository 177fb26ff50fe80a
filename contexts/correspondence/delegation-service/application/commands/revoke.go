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

// RevokeCommand withdraws an active delegation.
type RevokeCommand struct {
	DelegationID string
}

// RevokeUseCase transitions a delegation to revoked. Revoking a delegation
// that is already terminal is a no-op and returns the current state.
type RevokeUseCase struct {
	Repository ports.Repository
	Locker     ports.Locker
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Publisher  ports.EventPublisher
	LockWait   time.Duration
	Logger     *slog.Logger
}

func (u RevokeUseCase) Execute(ctx context.Context, cmd RevokeCommand) (entities.Delegation, error) {
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
		logger.Info("revoke skipped on terminal delegation",
			"event", "delegation_revoke_noop",
			"module", "correspondence/delegation-service",
			"layer", "application",
			"delegation_id", current.DelegationID,
			"status", string(current.Status),
		)
		return current, nil
	}

	outboxID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return entities.Delegation{}, err
	}
	now := u.Clock.Now().UTC()

	revoked := current
	revoked.Status = entities.DelegationStatusRevoked
	envelope := newDelegationEnvelope(outboxID, EventTypeDelegationRevoked, revoked, "", now)
	payload, err := json.Marshal(envelope)
	if err != nil {
		return entities.Delegation{}, err
	}

	updated, err := u.Repository.SetDelegationStatus(ctx, ports.SetStatusInput{
		DelegationID:  cmd.DelegationID,
		Status:        entities.DelegationStatusRevoked,
		At:            now,
		OutboxID:      outboxID,
		EventType:     EventTypeDelegationRevoked,
		OutboxPayload: payload,
	})
	if err != nil {
		return entities.Delegation{}, err
	}

	publishBestEffort(ctx, u.Publisher, logger,
		newDelegationEnvelope(outboxID, EventTypeDelegationRevoked, updated, "", now))

	logger.Info("delegation revoked",
		"event", "delegation_revoked",
		"module", "correspondence/delegation-service",
		"layer", "application",
		"delegation_id", updated.DelegationID,
		"correspondence_id", updated.CorrespondenceID,
	)
	return updated, nil
}
