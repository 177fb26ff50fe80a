package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	application "chancery/contexts/correspondence/workflow-service/application"
	"chancery/contexts/correspondence/workflow-service/domain/entities"
	domainerrors "chancery/contexts/correspondence/workflow-service/domain/errors"
	"chancery/contexts/correspondence/workflow-service/ports"
)

// DistributeCommand fans a correspondence copy out to recipients. It never
// changes routing state.
type DistributeCommand struct {
	CorrespondenceID string
	ActorID          string
	RecipientIDs     []string
	Purpose          entities.DistributionPurpose
}

// DistributeUseCase records distribution entries and emits one notification
// event per recipient.
type DistributeUseCase struct {
	Repository ports.Repository
	Profiles   ports.ProfileGateway
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Publisher  ports.EventPublisher
	Logger     *slog.Logger
}

func (u DistributeUseCase) Execute(ctx context.Context, cmd DistributeCommand) ([]entities.Distribution, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.CorrespondenceID) == "" || strings.TrimSpace(cmd.ActorID) == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	if len(cmd.RecipientIDs) == 0 || !cmd.Purpose.Valid() {
		return nil, domainerrors.ErrInvalidRequest
	}

	correspondence, err := u.Repository.GetCorrespondence(ctx, cmd.CorrespondenceID)
	if err != nil {
		return nil, err
	}

	profile, err := u.Profiles.EffectiveProfile(ctx, cmd.ActorID, cmd.CorrespondenceID)
	if err != nil {
		return nil, err
	}
	if !profile.CanDistribute {
		return nil, domainerrors.ErrForbidden
	}

	now := u.Clock.Now().UTC()
	created := make([]entities.Distribution, 0, len(cmd.RecipientIDs))
	for _, recipientID := range cmd.RecipientIDs {
		recipient := strings.TrimSpace(recipientID)
		if recipient == "" {
			return nil, domainerrors.ErrInvalidRequest
		}

		distributionID, err := u.IDGen.NewID(ctx)
		if err != nil {
			return nil, err
		}
		outboxID, err := u.IDGen.NewID(ctx)
		if err != nil {
			return nil, err
		}

		envelope := newCorrespondenceEnvelope(outboxID, EventTypeCorrespondenceDistributed, correspondence, CorrespondenceEventPayload{
			CorrespondenceID: correspondence.CorrespondenceID,
			ReferenceNumber:  correspondence.ReferenceNumber,
			Subject:          correspondence.Subject,
			Status:           string(correspondence.Status),
			Priority:         string(correspondence.Priority),
			ActorID:          cmd.ActorID,
			RecipientID:      recipient,
		}, now)
		payload, err := json.Marshal(envelope)
		if err != nil {
			return nil, err
		}

		distribution, err := u.Repository.AddDistribution(ctx, entities.Distribution{
			DistributionID:   distributionID,
			CorrespondenceID: cmd.CorrespondenceID,
			RecipientID:      recipient,
			Purpose:          cmd.Purpose,
			CreatedBy:        cmd.ActorID,
			CreatedAt:        now,
		}, outboxID, EventTypeCorrespondenceDistributed, payload)
		if err != nil {
			return nil, err
		}
		created = append(created, distribution)

		publishBestEffort(ctx, u.Publisher, logger, envelope)
	}

	logger.Info("correspondence distributed",
		"event", "correspondence_distributed",
		"module", "correspondence/workflow-service",
		"layer", "application",
		"correspondence_id", cmd.CorrespondenceID,
		"recipient_count", len(created),
		"purpose", string(cmd.Purpose),
	)
	return created, nil
}
