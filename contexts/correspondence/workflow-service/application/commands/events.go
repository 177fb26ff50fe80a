package commands

import (
	"time"

	"chancery/contexts/correspondence/workflow-service/domain/entities"
	"chancery/internal/shared/events"
)

// TopicCorrespondenceEvents carries every committed workflow transition.
const TopicCorrespondenceEvents = "correspondence.events"

const (
	EventTypeCorrespondenceRegistered  = "correspondence.registered"
	EventTypeCorrespondenceMinuted     = "correspondence.minuted"
	EventTypeCorrespondenceArchived    = "correspondence.archived"
	EventTypeCorrespondenceDistributed = "correspondence.distributed"
)

// CorrespondenceEventPayload is the projection the notification dispatcher
// consumes. RecipientID is who should be told about the transition.
type CorrespondenceEventPayload struct {
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

func newCorrespondenceEnvelope(
	eventID string,
	eventType string,
	c entities.Correspondence,
	payload CorrespondenceEventPayload,
	occurredAt time.Time,
) events.Envelope {
	return events.Envelope{
		EventID:        eventID,
		EventType:      eventType,
		SourceService:  "correspondence/workflow-service",
		OccurredAtUTC:  occurredAt.UTC(),
		CorrelationID:  c.CorrespondenceID,
		EntityType:     "correspondence",
		EntityID:       c.CorrespondenceID,
		PayloadVersion: 1,
		Payload:        payload,
	}
}
