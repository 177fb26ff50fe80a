package ports

import (
	"context"
	"time"

	"chancery/contexts/correspondence/workflow-service/domain/entities"
	"chancery/internal/shared/events"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for aggregate/outbox rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// ReferenceGenerator mints human-readable reference numbers for
// correspondences registered without one.
type ReferenceGenerator interface {
	NewReference(ctx context.Context, at time.Time) (string, error)
}

// Locker serializes mutations per correspondence id. The registry is shared
// with the delegation service.
type Locker interface {
	Acquire(ctx context.Context, key string) (func(), error)
}

// EffectiveProfile is the capability projection the engine authorizes
// against. When the actor holds the active delegation on the correspondence
// the delegated capabilities are already folded in, capped by the
// executive's own profile.
type EffectiveProfile struct {
	GradeLevel                  string
	CanAccessApprovals          bool
	CanRegisterCorrespondence   bool
	CanDistribute               bool
	CanViewRegistry             bool
	CanAccessDocumentManagement bool

	ActingAsAssistant bool
	AssistantType     string
	DelegationID      string
	ExecutiveID       string
}

// ProfileGateway re-derives the actor's effective profile on every call; the
// engine never trusts a client-supplied profile.
type ProfileGateway interface {
	EffectiveProfile(ctx context.Context, userID string, correspondenceID string) (EffectiveProfile, error)
}

// DelegationGateway closes a delegation when the delegated task concludes.
type DelegationGateway interface {
	Complete(ctx context.Context, delegationID string) error
}

// CreateCorrespondenceInput persists the aggregate, its step-1 registration
// minute, and the outbox record atomically.
type CreateCorrespondenceInput struct {
	Correspondence entities.Correspondence
	Minute         entities.Minute
	OutboxID       string
	EventType      string
	OutboxPayload  []byte
}

// CorrespondenceUpdate is the routing effect persisted with a minute.
type CorrespondenceUpdate struct {
	Status            entities.Status
	CurrentApproverID string
	RoutingPlan       []string
	RoutingIndex      int
	CompletedAt       *time.Time
	UpdatedAt         time.Time
}

// AppendMinuteInput persists one minute plus the correspondence update and
// the outbox record atomically.
type AppendMinuteInput struct {
	CorrespondenceID string
	Minute           entities.Minute
	Update           CorrespondenceUpdate
	OutboxID         string
	EventType        string
	OutboxPayload    []byte
}

// RegistryFilter narrows registry listings.
type RegistryFilter struct {
	Status   entities.Status
	Priority entities.Priority
	Limit    int
}

// Repository is the aggregate store boundary. Mutations are called only
// while the caller holds the correspondence's keyed lock.
type Repository interface {
	CreateCorrespondence(ctx context.Context, input CreateCorrespondenceInput) (entities.Correspondence, error)
	GetCorrespondence(ctx context.Context, correspondenceID string) (entities.Correspondence, error)
	AppendMinute(ctx context.Context, input AppendMinuteInput) (entities.Minute, entities.Correspondence, error)
	SetArchived(ctx context.Context, correspondenceID string, outboxID string, eventType string, payload []byte, at time.Time) (entities.Correspondence, error)
	LinkDocument(ctx context.Context, correspondenceID string, documentID string, at time.Time) (entities.Correspondence, error)
	AddDistribution(ctx context.Context, distribution entities.Distribution, outboxID string, eventType string, payload []byte) (entities.Distribution, error)

	ListMinutes(ctx context.Context, correspondenceID string) ([]entities.Minute, error)
	MarkMinuteRead(ctx context.Context, minuteID string, at time.Time) (entities.Minute, error)
	ListInbox(ctx context.Context, userID string) ([]entities.Correspondence, error)
	ListRegistry(ctx context.Context, filter RegistryFilter) ([]entities.Correspondence, error)
	ListDistributions(ctx context.Context, correspondenceID string) ([]entities.Distribution, error)
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

// EventPublisher emits correspondence events to the bus adapter.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}
