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
	"chancery/contexts/correspondence/workflow-service/domain/services"
	"chancery/contexts/correspondence/workflow-service/ports"
)

// ApplyMinuteCommand submits one minute action against a correspondence.
type ApplyMinuteCommand struct {
	CorrespondenceID string
	ActorID          string
	Action           entities.MinuteAction
	Content          string
	ToUserID         string
	FromOffice       string
	ToOffice         string
	Mentions         []string
	Signature        string
	ActedBySecretary bool
}

// ApplyMinuteResult reports the appended minute and the correspondence after
// the transition.
type ApplyMinuteResult struct {
	Minute         entities.Minute         `json:"minute"`
	Correspondence entities.Correspondence `json:"correspondence"`
}

// ApplyMinuteUseCase is the routing engine entry point. Validation runs in a
// fixed order: aggregate exists and is non-terminal, capability, approver,
// action precondition. Any failure aborts with no side effects.
type ApplyMinuteUseCase struct {
	Repository  ports.Repository
	Profiles    ports.ProfileGateway
	Delegations ports.DelegationGateway
	Locker      ports.Locker
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Publisher   ports.EventPublisher
	LockWait    time.Duration
	Logger      *slog.Logger
}

func (u ApplyMinuteUseCase) Execute(ctx context.Context, cmd ApplyMinuteCommand) (ApplyMinuteResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.CorrespondenceID) == "" || strings.TrimSpace(cmd.ActorID) == "" {
		return ApplyMinuteResult{}, domainerrors.ErrInvalidRequest
	}
	if !cmd.Action.Valid() {
		return ApplyMinuteResult{}, domainerrors.ErrInvalidRequest
	}

	result, delegationID, err := u.applyLocked(ctx, logger, cmd)
	if err != nil {
		return ApplyMinuteResult{}, err
	}

	// The delegation service takes the same correspondence lock, so the
	// delegated task is closed only after the minute's critical section ends.
	if delegationID != "" {
		if err := u.Delegations.Complete(ctx, delegationID); err != nil {
			logger.Warn("delegation completion after delegated action failed",
				"event", "correspondence_delegation_complete_failed",
				"module", "correspondence/workflow-service",
				"layer", "application",
				"correspondence_id", cmd.CorrespondenceID,
				"delegation_id", delegationID,
				"error", err.Error(),
			)
		}
	}
	return result, nil
}

// applyLocked runs validation, the transition, and the atomic append under
// the correspondence keyed lock. It returns the delegation to complete, if
// the action was a delegated routing decision.
func (u ApplyMinuteUseCase) applyLocked(
	ctx context.Context,
	logger *slog.Logger,
	cmd ApplyMinuteCommand,
) (ApplyMinuteResult, string, error) {
	release, err := acquireAggregate(ctx, u.Locker, cmd.CorrespondenceID, u.LockWait)
	if err != nil {
		return ApplyMinuteResult{}, "", err
	}
	defer release()

	correspondence, err := u.Repository.GetCorrespondence(ctx, cmd.CorrespondenceID)
	if err != nil {
		return ApplyMinuteResult{}, "", err
	}
	if correspondence.Status.IsTerminal() {
		return ApplyMinuteResult{}, "", domainerrors.ErrInvalidTransition
	}

	profile, err := u.Profiles.EffectiveProfile(ctx, cmd.ActorID, cmd.CorrespondenceID)
	if err != nil {
		return ApplyMinuteResult{}, "", err
	}
	if !actionAllowed(profile, cmd.Action, correspondence.Status) {
		logger.Warn("minute action denied by profile",
			"event", "correspondence_minute_forbidden",
			"module", "correspondence/workflow-service",
			"layer", "application",
			"correspondence_id", cmd.CorrespondenceID,
			"actor_id", cmd.ActorID,
			"action", string(cmd.Action),
		)
		return ApplyMinuteResult{}, "", domainerrors.ErrForbidden
	}

	actingDelegated := profile.ActingAsAssistant && profile.ExecutiveID == correspondence.CurrentApproverID
	if cmd.Action.RoutesCorrespondence() {
		if correspondence.Status == entities.StatusDraft {
			// A draft has no approver yet; its creator routes it out.
			if cmd.ActorID != correspondence.CreatorID {
				return ApplyMinuteResult{}, "", domainerrors.ErrNotCurrentApprover
			}
		} else if cmd.ActorID != correspondence.CurrentApproverID && !actingDelegated {
			return ApplyMinuteResult{}, "", domainerrors.ErrNotCurrentApprover
		}
	}

	transition, err := services.Apply(correspondence, cmd.Action, cmd.ToUserID)
	if err != nil {
		return ApplyMinuteResult{}, "", err
	}

	minuteID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return ApplyMinuteResult{}, "", err
	}
	outboxID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return ApplyMinuteResult{}, "", err
	}

	now := u.Clock.Now().UTC()
	minute := entities.Minute{
		MinuteID:         minuteID,
		CorrespondenceID: cmd.CorrespondenceID,
		AuthorID:         cmd.ActorID,
		AuthorGradeLevel: profile.GradeLevel,
		Action:           cmd.Action,
		Direction:        correspondence.Direction,
		Content:          cmd.Content,
		StepNumber:       correspondence.LastStep + 1,
		FromOffice:       strings.TrimSpace(cmd.FromOffice),
		ToOffice:         strings.TrimSpace(cmd.ToOffice),
		ToUserID:         strings.TrimSpace(cmd.ToUserID),
		Mentions:         cmd.Mentions,
		Signature:        cmd.Signature,
		ActedBySecretary: cmd.ActedBySecretary,
		ActedByAssistant: actingDelegated,
		CreatedAt:        now,
	}
	if actingDelegated {
		minute.AssistantType = profile.AssistantType
	}

	update := ports.CorrespondenceUpdate{
		Status:            transition.Status,
		CurrentApproverID: transition.CurrentApproverID,
		RoutingPlan:       transition.RoutingPlan,
		RoutingIndex:      transition.RoutingIndex,
		UpdatedAt:         now,
	}
	if transition.Completed {
		completedAt := now
		update.CompletedAt = &completedAt
	}

	projected := correspondence
	projected.Status = transition.Status
	projected.CurrentApproverID = transition.CurrentApproverID
	envelope := newCorrespondenceEnvelope(outboxID, EventTypeCorrespondenceMinuted, projected, CorrespondenceEventPayload{
		CorrespondenceID: cmd.CorrespondenceID,
		ReferenceNumber:  correspondence.ReferenceNumber,
		Subject:          correspondence.Subject,
		Status:           string(transition.Status),
		Priority:         string(correspondence.Priority),
		Action:           string(cmd.Action),
		StepNumber:       minute.StepNumber,
		ActorID:          cmd.ActorID,
		RecipientID:      eventRecipient(correspondence, transition),
	}, now)
	payload, err := json.Marshal(envelope)
	if err != nil {
		return ApplyMinuteResult{}, "", err
	}

	appended, updated, err := u.Repository.AppendMinute(ctx, ports.AppendMinuteInput{
		CorrespondenceID: cmd.CorrespondenceID,
		Minute:           minute,
		Update:           update,
		OutboxID:         outboxID,
		EventType:        EventTypeCorrespondenceMinuted,
		OutboxPayload:    payload,
	})
	if err != nil {
		logger.Error("minute append failed",
			"event", "correspondence_minute_append_failed",
			"module", "correspondence/workflow-service",
			"layer", "application",
			"correspondence_id", cmd.CorrespondenceID,
			"action", string(cmd.Action),
			"error", err.Error(),
		)
		return ApplyMinuteResult{}, "", err
	}

	publishBestEffort(ctx, u.Publisher, logger, envelope)

	// A delegated routing decision concludes the delegated task; plain
	// minutes and treatments leave the delegation open.
	completeDelegationID := ""
	if actingDelegated && cmd.Action != entities.ActionTreat && cmd.Action != entities.ActionMinute {
		completeDelegationID = profile.DelegationID
	}

	logger.Info("minute applied",
		"event", "correspondence_minute_applied",
		"module", "correspondence/workflow-service",
		"layer", "application",
		"correspondence_id", cmd.CorrespondenceID,
		"minute_id", appended.MinuteID,
		"action", string(cmd.Action),
		"step_number", appended.StepNumber,
		"status", string(updated.Status),
		"current_approver_id", updated.CurrentApproverID,
		"acted_by_assistant", actingDelegated,
	)

	return ApplyMinuteResult{Minute: appended, Correspondence: updated}, completeDelegationID, nil
}

func actionAllowed(profile ports.EffectiveProfile, action entities.MinuteAction, status entities.Status) bool {
	switch action {
	case entities.ActionForward:
		// Registration capability covers handing a draft to its first
		// approver, so registry staff can route what they register.
		if status == entities.StatusDraft && profile.CanRegisterCorrespondence {
			return true
		}
		return profile.CanDistribute
	case entities.ActionApprove, entities.ActionReject, entities.ActionTreat:
		return profile.CanAccessApprovals
	case entities.ActionMinute:
		return profile.CanAccessDocumentManagement
	}
	return false
}

// eventRecipient picks who is notified: the next approver when routing
// continues, otherwise the creator learning about the outcome.
func eventRecipient(c entities.Correspondence, transition services.Transition) string {
	if transition.CurrentApproverID != "" {
		return transition.CurrentApproverID
	}
	return c.CreatorID
}
