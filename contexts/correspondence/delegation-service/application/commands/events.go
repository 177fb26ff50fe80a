package commands

import (
	"time"

	"chancery/contexts/correspondence/delegation-service/domain/entities"
	"chancery/internal/shared/events"
)

// TopicDelegationEvents carries every committed delegation transition.
const TopicDelegationEvents = "delegation.events"

const (
	EventTypeDelegationAssigned  = "delegation.assigned"
	EventTypeDelegationRevoked   = "delegation.revoked"
	EventTypeDelegationCompleted = "delegation.completed"
)

// DelegationEventPayload is the payload for every delegation event type.
type DelegationEventPayload struct {
	DelegationID           string `json:"delegation_id"`
	CorrespondenceID       string `json:"correspondence_id"`
	ExecutiveID            string `json:"executive_id"`
	AssistantID            string `json:"assistant_id"`
	AssistantType          string `json:"assistant_type"`
	Notes                  string `json:"notes,omitempty"`
	SupersededDelegationID string `json:"superseded_delegation_id,omitempty"`
}

func newDelegationEnvelope(
	eventID string,
	eventType string,
	delegation entities.Delegation,
	supersededID string,
	occurredAt time.Time,
) events.Envelope {
	return events.Envelope{
		EventID:        eventID,
		EventType:      eventType,
		SourceService:  "correspondence/delegation-service",
		OccurredAtUTC:  occurredAt.UTC(),
		CorrelationID:  delegation.CorrespondenceID,
		EntityType:     "delegation",
		EntityID:       delegation.DelegationID,
		PayloadVersion: 1,
		Payload: DelegationEventPayload{
			DelegationID:           delegation.DelegationID,
			CorrespondenceID:       delegation.CorrespondenceID,
			ExecutiveID:            delegation.ExecutiveID,
			AssistantID:            delegation.AssistantID,
			AssistantType:          string(delegation.AssistantType),
			Notes:                  delegation.Notes,
			SupersededDelegationID: supersededID,
		},
	}
}
