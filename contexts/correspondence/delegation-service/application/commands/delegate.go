package commands

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "chancery/contexts/correspondence/delegation-service/application"
	"chancery/contexts/correspondence/delegation-service/domain/entities"
	domainerrors "chancery/contexts/correspondence/delegation-service/domain/errors"
	"chancery/contexts/correspondence/delegation-service/ports"
)

// DelegateCommand activates an assistant assignment's authority for one
// correspondence.
type DelegateCommand struct {
	CorrespondenceID string
	ExecutiveID      string
	AssistantID      string
	Notes            string
}

// DelegateResult reports the created delegation and any superseded one.
type DelegateResult struct {
	Delegation entities.Delegation  `json:"delegation"`
	Superseded *entities.Delegation `json:"superseded,omitempty"`
}

// DelegateUseCase creates an active delegation under the per-correspondence
// critical section, revoking any prior active delegation atomically.
type DelegateUseCase struct {
	Repository ports.Repository
	Locker     ports.Locker
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Publisher  ports.EventPublisher
	LockWait   time.Duration
	Logger     *slog.Logger
}

func (u DelegateUseCase) Execute(ctx context.Context, cmd DelegateCommand) (DelegateResult, error) {
	logger := application.ResolveLogger(u.Logger)
	logger.Info("delegate started",
		"event", "delegation_delegate_started",
		"module", "correspondence/delegation-service",
		"layer", "application",
		"correspondence_id", cmd.CorrespondenceID,
		"executive_id", cmd.ExecutiveID,
		"assistant_id", cmd.AssistantID,
	)

	if strings.TrimSpace(cmd.CorrespondenceID) == "" ||
		strings.TrimSpace(cmd.ExecutiveID) == "" ||
		strings.TrimSpace(cmd.AssistantID) == "" {
		return DelegateResult{}, domainerrors.ErrInvalidRequest
	}
	if cmd.ExecutiveID == cmd.AssistantID {
		return DelegateResult{}, domainerrors.ErrInvalidRequest
	}

	release, err := acquireAggregate(ctx, u.Locker, cmd.CorrespondenceID, u.LockWait)
	if err != nil {
		return DelegateResult{}, err
	}
	defer release()

	assignment, err := u.Repository.GetAssignment(ctx, cmd.ExecutiveID, cmd.AssistantID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrAssignmentNotFound) {
			return DelegateResult{}, domainerrors.ErrNotAssigned
		}
		return DelegateResult{}, err
	}

	delegationID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return DelegateResult{}, err
	}
	outboxID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return DelegateResult{}, err
	}

	now := u.Clock.Now().UTC()
	pending := entities.Delegation{
		DelegationID:     delegationID,
		CorrespondenceID: cmd.CorrespondenceID,
		ExecutiveID:      cmd.ExecutiveID,
		AssistantID:      cmd.AssistantID,
		AssistantType:    assignment.Type,
		Notes:            cmd.Notes,
		Status:           entities.DelegationStatusActive,
		DelegatedAt:      now,
	}
	envelope := newDelegationEnvelope(outboxID, EventTypeDelegationAssigned, pending, "", now)
	payload, err := json.Marshal(envelope)
	if err != nil {
		return DelegateResult{}, err
	}

	mutation, err := u.Repository.CreateDelegation(ctx, ports.CreateDelegationInput{
		DelegationID:     delegationID,
		OutboxID:         outboxID,
		EventType:        EventTypeDelegationAssigned,
		OutboxPayload:    payload,
		CorrespondenceID: cmd.CorrespondenceID,
		ExecutiveID:      cmd.ExecutiveID,
		AssistantID:      cmd.AssistantID,
		AssistantType:    assignment.Type,
		Notes:            cmd.Notes,
		DelegatedAt:      now,
	})
	if err != nil {
		logger.Error("delegate write failed",
			"event", "delegation_delegate_write_failed",
			"module", "correspondence/delegation-service",
			"layer", "application",
			"correspondence_id", cmd.CorrespondenceID,
			"error", err.Error(),
		)
		return DelegateResult{}, err
	}

	supersededID := ""
	if mutation.Superseded != nil {
		supersededID = mutation.Superseded.DelegationID
	}
	publishBestEffort(ctx, u.Publisher, logger,
		newDelegationEnvelope(outboxID, EventTypeDelegationAssigned, mutation.Delegation, supersededID, now))

	logger.Info("delegate completed",
		"event", "delegation_delegate_completed",
		"module", "correspondence/delegation-service",
		"layer", "application",
		"delegation_id", mutation.Delegation.DelegationID,
		"correspondence_id", cmd.CorrespondenceID,
		"superseded_delegation_id", supersededID,
	)

	return DelegateResult{
		Delegation: mutation.Delegation,
		Superseded: mutation.Superseded,
	}, nil
}
