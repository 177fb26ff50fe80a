package ports

import (
	"context"
	"time"

	"chancery/contexts/correspondence/delegation-service/domain/entities"
	"chancery/internal/shared/events"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for commands/outbox rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Locker serializes mutations per correspondence id. The same lock registry
// is shared with the workflow engine so delegation changes and minute
// actions on one correspondence never interleave.
type Locker interface {
	Acquire(ctx context.Context, key string) (func(), error)
}

// CreateAssignmentInput is persisted as one assignment row.
type CreateAssignmentInput struct {
	AssignmentID   string
	ExecutiveID    string
	AssistantID    string
	Type           entities.AssistantType
	Specialization string
	Permissions    []string
	CreatedAt      time.Time
}

// CreateDelegationInput is persisted atomically with the supersede-revoke of
// any prior active delegation and the outbox record.
type CreateDelegationInput struct {
	DelegationID     string
	OutboxID         string
	EventType        string
	OutboxPayload    []byte
	CorrespondenceID string
	ExecutiveID      string
	AssistantID      string
	AssistantType    entities.AssistantType
	Notes            string
	DelegatedAt      time.Time
}

// DelegationMutationResult reports the created delegation and, when a prior
// active delegation existed, the one that was revoked.
type DelegationMutationResult struct {
	Delegation entities.Delegation
	Superseded *entities.Delegation
}

// SetStatusInput transitions one delegation and records the outbox row.
type SetStatusInput struct {
	DelegationID  string
	Status        entities.DelegationStatus
	At            time.Time
	OutboxID      string
	EventType     string
	OutboxPayload []byte
}

// Repository is the write/read boundary for assignment/delegation state.
type Repository interface {
	CreateAssignment(ctx context.Context, input CreateAssignmentInput) (entities.AssistantAssignment, error)
	RemoveAssignment(ctx context.Context, assignmentID string) error
	GetAssignment(ctx context.Context, executiveID string, assistantID string) (entities.AssistantAssignment, error)
	ListAssignmentsForExecutive(ctx context.Context, executiveID string) ([]entities.AssistantAssignment, error)
	ListAssignmentsForAssistant(ctx context.Context, assistantID string) ([]entities.AssistantAssignment, error)

	CreateDelegation(ctx context.Context, input CreateDelegationInput) (DelegationMutationResult, error)
	GetDelegation(ctx context.Context, delegationID string) (entities.Delegation, error)
	SetDelegationStatus(ctx context.Context, input SetStatusInput) (entities.Delegation, error)
	ActiveForCorrespondence(ctx context.Context, correspondenceID string) (entities.Delegation, bool, error)
	ListDelegationsForAssistant(ctx context.Context, assistantID string) ([]entities.Delegation, error)
}

// OutboxMessage represents a pending relay message.
type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// OutboxRepository supports worker relay polling and acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// EventPublisher emits delegation events to the bus adapter.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}
