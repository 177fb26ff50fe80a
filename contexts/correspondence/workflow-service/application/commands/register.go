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

// RegisterCommand creates a correspondence aggregate. RoutingPlan is the
// ordered approver chain; with an empty plan the correspondence stays a
// draft until forwarded.
type RegisterCommand struct {
	ActorID         string
	ReferenceNumber string
	Subject         string
	SenderName      string
	Source          string
	Direction       entities.Direction
	Flow            entities.Flow
	Priority        entities.Priority
	DivisionID      string
	DepartmentID    string
	ReceivedDate    *time.Time
	LetterDate      *time.Time
	RoutingPlan     []string
	Content         string
}

// RegisterUseCase validates registration against the actor's profile and
// persists the aggregate with its step-1 registration minute.
type RegisterUseCase struct {
	Repository ports.Repository
	Profiles   ports.ProfileGateway
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	References ports.ReferenceGenerator
	Publisher  ports.EventPublisher
	Logger     *slog.Logger
}

func (u RegisterUseCase) Execute(ctx context.Context, cmd RegisterCommand) (entities.Correspondence, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.ActorID) == "" || strings.TrimSpace(cmd.Subject) == "" {
		return entities.Correspondence{}, domainerrors.ErrInvalidRequest
	}
	if cmd.Direction != entities.DirectionInbound && cmd.Direction != entities.DirectionOutbound {
		return entities.Correspondence{}, domainerrors.ErrInvalidRequest
	}
	if cmd.Priority == "" {
		cmd.Priority = entities.PriorityNormal
	}
	if !cmd.Priority.Valid() {
		return entities.Correspondence{}, domainerrors.ErrInvalidRequest
	}
	plan := make([]string, 0, len(cmd.RoutingPlan))
	for _, approver := range cmd.RoutingPlan {
		if strings.TrimSpace(approver) == "" {
			return entities.Correspondence{}, domainerrors.ErrInvalidRequest
		}
		plan = append(plan, strings.TrimSpace(approver))
	}

	profile, err := u.Profiles.EffectiveProfile(ctx, cmd.ActorID, "")
	if err != nil {
		return entities.Correspondence{}, err
	}
	if !profile.CanRegisterCorrespondence {
		return entities.Correspondence{}, domainerrors.ErrForbidden
	}

	now := u.Clock.Now().UTC()
	reference := strings.TrimSpace(cmd.ReferenceNumber)
	if reference == "" {
		reference, err = u.References.NewReference(ctx, now)
		if err != nil {
			return entities.Correspondence{}, err
		}
	}

	correspondenceID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return entities.Correspondence{}, err
	}
	minuteID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return entities.Correspondence{}, err
	}
	outboxID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return entities.Correspondence{}, err
	}

	correspondence := entities.Correspondence{
		CorrespondenceID: correspondenceID,
		ReferenceNumber:  reference,
		Subject:          strings.TrimSpace(cmd.Subject),
		SenderName:       strings.TrimSpace(cmd.SenderName),
		Source:           strings.TrimSpace(cmd.Source),
		Direction:        cmd.Direction,
		Flow:             cmd.Flow,
		Priority:         cmd.Priority,
		Status:           entities.StatusDraft,
		DivisionID:       strings.TrimSpace(cmd.DivisionID),
		DepartmentID:     strings.TrimSpace(cmd.DepartmentID),
		CreatorID:        cmd.ActorID,
		ReceivedDate:     cmd.ReceivedDate,
		LetterDate:       cmd.LetterDate,
		RoutingPlan:      plan,
		RoutingIndex:     -1,
		LastStep:         1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if len(plan) > 0 {
		correspondence.Status = entities.StatusPending
		correspondence.RoutingIndex = 0
		correspondence.CurrentApproverID = plan[0]
	}

	minute := entities.Minute{
		MinuteID:         minuteID,
		CorrespondenceID: correspondenceID,
		AuthorID:         cmd.ActorID,
		Action:           entities.ActionMinute,
		Direction:        cmd.Direction,
		Content:          registrationContent(cmd.Content),
		StepNumber:       1,
		CreatedAt:        now,
	}

	envelope := newCorrespondenceEnvelope(outboxID, EventTypeCorrespondenceRegistered, correspondence, CorrespondenceEventPayload{
		CorrespondenceID: correspondenceID,
		ReferenceNumber:  reference,
		Subject:          correspondence.Subject,
		Status:           string(correspondence.Status),
		Priority:         string(correspondence.Priority),
		StepNumber:       1,
		ActorID:          cmd.ActorID,
		RecipientID:      correspondence.CurrentApproverID,
	}, now)
	payload, err := json.Marshal(envelope)
	if err != nil {
		return entities.Correspondence{}, err
	}

	created, err := u.Repository.CreateCorrespondence(ctx, ports.CreateCorrespondenceInput{
		Correspondence: correspondence,
		Minute:         minute,
		OutboxID:       outboxID,
		EventType:      EventTypeCorrespondenceRegistered,
		OutboxPayload:  payload,
	})
	if err != nil {
		logger.Error("correspondence registration failed",
			"event", "correspondence_register_failed",
			"module", "correspondence/workflow-service",
			"layer", "application",
			"reference_number", reference,
			"error", err.Error(),
		)
		return entities.Correspondence{}, err
	}

	publishBestEffort(ctx, u.Publisher, logger, envelope)

	logger.Info("correspondence registered",
		"event", "correspondence_registered",
		"module", "correspondence/workflow-service",
		"layer", "application",
		"correspondence_id", created.CorrespondenceID,
		"reference_number", created.ReferenceNumber,
		"status", string(created.Status),
		"current_approver_id", created.CurrentApproverID,
	)
	return created, nil
}

func registrationContent(content string) string {
	if strings.TrimSpace(content) != "" {
		return strings.TrimSpace(content)
	}
	return "Correspondence registered"
}
