package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "chancery/contexts/correspondence/workflow-service/application"
	"chancery/contexts/correspondence/workflow-service/domain/entities"
	domainerrors "chancery/contexts/correspondence/workflow-service/domain/errors"
	"chancery/contexts/correspondence/workflow-service/ports"
)

// ArchiveCommand moves a concluded correspondence into the archive. Archival
// is an explicit manual action, not a minute.
type ArchiveCommand struct {
	CorrespondenceID string
	ActorID          string
}

// ArchiveUseCase transitions completed or rejected correspondence to
// archived.
type ArchiveUseCase struct {
	Repository ports.Repository
	Profiles   ports.ProfileGateway
	Locker     ports.Locker
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Publisher  ports.EventPublisher
	LockWait   time.Duration
	Logger     *slog.Logger
}

func (u ArchiveUseCase) Execute(ctx context.Context, cmd ArchiveCommand) (entities.Correspondence, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.CorrespondenceID) == "" || strings.TrimSpace(cmd.ActorID) == "" {
		return entities.Correspondence{}, domainerrors.ErrInvalidRequest
	}

	release, err := acquireAggregate(ctx, u.Locker, cmd.CorrespondenceID, u.LockWait)
	if err != nil {
		return entities.Correspondence{}, err
	}
	defer release()

	correspondence, err := u.Repository.GetCorrespondence(ctx, cmd.CorrespondenceID)
	if err != nil {
		return entities.Correspondence{}, err
	}
	if correspondence.Status != entities.StatusCompleted && correspondence.Status != entities.StatusRejected {
		return entities.Correspondence{}, domainerrors.ErrInvalidTransition
	}

	profile, err := u.Profiles.EffectiveProfile(ctx, cmd.ActorID, cmd.CorrespondenceID)
	if err != nil {
		return entities.Correspondence{}, err
	}
	if !profile.CanViewRegistry {
		return entities.Correspondence{}, domainerrors.ErrForbidden
	}

	outboxID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return entities.Correspondence{}, err
	}
	now := u.Clock.Now().UTC()

	projected := correspondence
	projected.Status = entities.StatusArchived
	envelope := newCorrespondenceEnvelope(outboxID, EventTypeCorrespondenceArchived, projected, CorrespondenceEventPayload{
		CorrespondenceID: correspondence.CorrespondenceID,
		ReferenceNumber:  correspondence.ReferenceNumber,
		Subject:          correspondence.Subject,
		Status:           string(entities.StatusArchived),
		Priority:         string(correspondence.Priority),
		ActorID:          cmd.ActorID,
		RecipientID:      correspondence.CreatorID,
	}, now)
	payload, err := json.Marshal(envelope)
	if err != nil {
		return entities.Correspondence{}, err
	}

	archived, err := u.Repository.SetArchived(ctx, cmd.CorrespondenceID, outboxID, EventTypeCorrespondenceArchived, payload, now)
	if err != nil {
		return entities.Correspondence{}, err
	}

	publishBestEffort(ctx, u.Publisher, logger, envelope)

	logger.Info("correspondence archived",
		"event", "correspondence_archived",
		"module", "correspondence/workflow-service",
		"layer", "application",
		"correspondence_id", archived.CorrespondenceID,
		"actor_id", cmd.ActorID,
	)
	return archived, nil
}
