package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	application "chancery/contexts/notifications/notification-service/application"
	"chancery/contexts/notifications/notification-service/application/commands"
	"chancery/contexts/notifications/notification-service/domain/entities"
	"chancery/internal/shared/events"
)

// Topics the consumer subscribes to.
const (
	TopicCorrespondenceEvents = "correspondence.events"
	TopicDelegationEvents     = "delegation.events"
)

// correspondencePayload mirrors the workflow service's event payload.
type correspondencePayload struct {
	CorrespondenceID string `json:"correspondence_id"`
	ReferenceNumber  string `json:"reference_number"`
	Subject          string `json:"subject"`
	Status           string `json:"status"`
	Priority         string `json:"priority"`
	Action           string `json:"action,omitempty"`
	StepNumber       int    `json:"step_number,omitempty"`
	ActorID          string `json:"actor_id"`
	RecipientID      string `json:"recipient_id,omitempty"`
}

// delegationPayload mirrors the delegation service's event payload.
type delegationPayload struct {
	DelegationID     string `json:"delegation_id"`
	CorrespondenceID string `json:"correspondence_id"`
	ExecutiveID      string `json:"executive_id"`
	AssistantID      string `json:"assistant_id"`
	AssistantType    string `json:"assistant_type"`
	Notes            string `json:"notes,omitempty"`
}

// WorkflowEventConsumer projects workflow and delegation events into
// notifications. Replays are harmless: creation deduplicates on the source
// event id.
type WorkflowEventConsumer struct {
	Create commands.CreateNotificationUseCase
	Logger *slog.Logger
}

// Handle consumes one envelope. Unknown event types and events with no
// addressable recipient are skipped without error.
func (c WorkflowEventConsumer) Handle(ctx context.Context, event events.Envelope) error {
	logger := application.ResolveLogger(c.Logger)

	cmd, ok, err := c.project(event)
	if err != nil {
		logger.Error("event projection failed",
			"event", "notification_projection_failed",
			"module", "notifications/notification-service",
			"layer", "worker",
			"event_id", event.EventID,
			"event_type", event.EventType,
			"error", err.Error(),
		)
		return err
	}
	if !ok {
		logger.Debug("event skipped",
			"event", "notification_projection_skipped",
			"module", "notifications/notification-service",
			"layer", "worker",
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
		return nil
	}

	cmd.SourceEventID = event.EventID
	if _, err := c.Create.Execute(ctx, cmd); err != nil {
		return err
	}
	return nil
}

func (c WorkflowEventConsumer) project(event events.Envelope) (commands.CreateNotificationCommand, bool, error) {
	switch event.EventType {
	case "correspondence.registered", "correspondence.minuted",
		"correspondence.archived", "correspondence.distributed":
		var payload correspondencePayload
		if err := decodePayload(event.Payload, &payload); err != nil {
			return commands.CreateNotificationCommand{}, false, err
		}
		return projectCorrespondence(event.EventType, payload)

	case "delegation.assigned", "delegation.revoked", "delegation.completed":
		var payload delegationPayload
		if err := decodePayload(event.Payload, &payload); err != nil {
			return commands.CreateNotificationCommand{}, false, err
		}
		return projectDelegation(event.EventType, payload)
	}
	return commands.CreateNotificationCommand{}, false, nil
}

func projectCorrespondence(eventType string, payload correspondencePayload) (commands.CreateNotificationCommand, bool, error) {
	if payload.RecipientID == "" || payload.RecipientID == payload.ActorID {
		return commands.CreateNotificationCommand{}, false, nil
	}

	title := ""
	switch eventType {
	case "correspondence.registered":
		title = "New correspondence awaiting your action"
	case "correspondence.minuted":
		switch payload.Action {
		case "forward":
			title = "Correspondence forwarded to you"
		case "approve":
			if payload.Status == "completed" {
				title = "Correspondence approval completed"
			} else {
				title = "Correspondence approved to your step"
			}
		case "reject":
			title = "Correspondence rejected"
		case "treat":
			title = "Correspondence treated"
		default:
			title = "New minute on correspondence"
		}
	case "correspondence.archived":
		title = "Correspondence archived"
	case "correspondence.distributed":
		title = "Correspondence copied to you"
	}

	return commands.CreateNotificationCommand{
		RecipientID:     payload.RecipientID,
		SenderID:        payload.ActorID,
		Title:           title,
		Message:         fmt.Sprintf("%s (%s)", payload.Subject, payload.ReferenceNumber),
		Type:            entities.TypeCorrespondence,
		Priority:        mapPriority(payload.Priority),
		Module:          "correspondence",
		RelatedObjectID: payload.CorrespondenceID,
	}, true, nil
}

func projectDelegation(eventType string, payload delegationPayload) (commands.CreateNotificationCommand, bool, error) {
	cmd := commands.CreateNotificationCommand{
		Type:            entities.TypeWorkflow,
		Priority:        entities.PriorityNormal,
		Module:          "correspondence",
		RelatedObjectID: payload.CorrespondenceID,
	}

	switch eventType {
	case "delegation.assigned":
		cmd.RecipientID = payload.AssistantID
		cmd.SenderID = payload.ExecutiveID
		cmd.Title = "Correspondence delegated to you"
		cmd.Message = payload.Notes
	case "delegation.revoked":
		cmd.RecipientID = payload.AssistantID
		cmd.SenderID = payload.ExecutiveID
		cmd.Title = "Delegation revoked"
	case "delegation.completed":
		cmd.RecipientID = payload.ExecutiveID
		cmd.SenderID = payload.AssistantID
		cmd.Title = "Delegated task completed"
	}

	if cmd.RecipientID == "" {
		return commands.CreateNotificationCommand{}, false, nil
	}
	return cmd, true, nil
}

// decodePayload round-trips the envelope payload through JSON so both typed
// in-process events and relayed map payloads decode the same way.
func decodePayload(payload any, target any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}

func mapPriority(priority string) entities.NotificationPriority {
	mapped := entities.NotificationPriority(priority)
	if mapped.Valid() {
		return mapped
	}
	return entities.PriorityNormal
}
