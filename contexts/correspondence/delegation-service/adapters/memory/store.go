package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"chancery/contexts/correspondence/delegation-service/domain/entities"
	domainerrors "chancery/contexts/correspondence/delegation-service/domain/errors"
	"chancery/contexts/correspondence/delegation-service/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store implements Repository, OutboxRepository, Clock and IDGenerator
// in-process for tests and local development.
type Store struct {
	mu sync.RWMutex

	assignments map[string]entities.AssistantAssignment
	delegations map[string]entities.Delegation
	outbox      map[string]outboxRecord
}

func NewStore() *Store {
	return &Store{
		assignments: make(map[string]entities.AssistantAssignment),
		delegations: make(map[string]entities.Delegation),
		outbox:      make(map[string]outboxRecord),
	}
}

func (s *Store) CreateAssignment(_ context.Context, input ports.CreateAssignmentInput) (entities.AssistantAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.assignments {
		if existing.ExecutiveID == input.ExecutiveID && existing.AssistantID == input.AssistantID {
			return entities.AssistantAssignment{}, domainerrors.ErrAssignmentExists
		}
	}
	assignment := entities.AssistantAssignment{
		AssignmentID:   input.AssignmentID,
		ExecutiveID:    input.ExecutiveID,
		AssistantID:    input.AssistantID,
		Type:           input.Type,
		Specialization: input.Specialization,
		Permissions:    append([]string(nil), input.Permissions...),
		CreatedAt:      input.CreatedAt,
	}
	s.assignments[assignment.AssignmentID] = assignment
	return assignment, nil
}

func (s *Store) RemoveAssignment(_ context.Context, assignmentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assignments[assignmentID]; !ok {
		return domainerrors.ErrAssignmentNotFound
	}
	delete(s.assignments, assignmentID)
	return nil
}

func (s *Store) GetAssignment(_ context.Context, executiveID string, assistantID string) (entities.AssistantAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, assignment := range s.assignments {
		if assignment.ExecutiveID == executiveID && assignment.AssistantID == assistantID {
			return assignment, nil
		}
	}
	return entities.AssistantAssignment{}, domainerrors.ErrAssignmentNotFound
}

func (s *Store) ListAssignmentsForExecutive(_ context.Context, executiveID string) ([]entities.AssistantAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]entities.AssistantAssignment, 0)
	for _, assignment := range s.assignments {
		if assignment.ExecutiveID == executiveID {
			result = append(result, assignment)
		}
	}
	sortAssignments(result)
	return result, nil
}

func (s *Store) ListAssignmentsForAssistant(_ context.Context, assistantID string) ([]entities.AssistantAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]entities.AssistantAssignment, 0)
	for _, assignment := range s.assignments {
		if assignment.AssistantID == assistantID {
			result = append(result, assignment)
		}
	}
	sortAssignments(result)
	return result, nil
}

// CreateDelegation revokes any active delegation on the correspondence,
// inserts the new one, and records the outbox row under one mutex hold so the
// single-active invariant cannot be observed violated.
func (s *Store) CreateDelegation(_ context.Context, input ports.CreateDelegationInput) (ports.DelegationMutationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var superseded *entities.Delegation
	for id, existing := range s.delegations {
		if existing.CorrespondenceID == input.CorrespondenceID && existing.Status == entities.DelegationStatusActive {
			existing.Status = entities.DelegationStatusRevoked
			s.delegations[id] = existing
			revoked := existing
			superseded = &revoked
			break
		}
	}

	delegation := entities.Delegation{
		DelegationID:     input.DelegationID,
		CorrespondenceID: input.CorrespondenceID,
		ExecutiveID:      input.ExecutiveID,
		AssistantID:      input.AssistantID,
		AssistantType:    input.AssistantType,
		Notes:            input.Notes,
		Status:           entities.DelegationStatusActive,
		DelegatedAt:      input.DelegatedAt,
	}
	s.delegations[delegation.DelegationID] = delegation
	s.outbox[input.OutboxID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:  input.OutboxID,
			EventType: input.EventType,
			Payload:   append([]byte(nil), input.OutboxPayload...),
			CreatedAt: input.DelegatedAt,
		},
	}

	return ports.DelegationMutationResult{Delegation: delegation, Superseded: superseded}, nil
}

func (s *Store) GetDelegation(_ context.Context, delegationID string) (entities.Delegation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	delegation, ok := s.delegations[delegationID]
	if !ok {
		return entities.Delegation{}, domainerrors.ErrDelegationNotFound
	}
	return delegation, nil
}

func (s *Store) SetDelegationStatus(_ context.Context, input ports.SetStatusInput) (entities.Delegation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delegation, ok := s.delegations[input.DelegationID]
	if !ok {
		return entities.Delegation{}, domainerrors.ErrDelegationNotFound
	}
	delegation.Status = input.Status
	if input.Status == entities.DelegationStatusCompleted {
		at := input.At
		delegation.CompletedAt = &at
	}
	s.delegations[input.DelegationID] = delegation
	s.outbox[input.OutboxID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:  input.OutboxID,
			EventType: input.EventType,
			Payload:   append([]byte(nil), input.OutboxPayload...),
			CreatedAt: input.At,
		},
	}
	return delegation, nil
}

func (s *Store) ActiveForCorrespondence(_ context.Context, correspondenceID string) (entities.Delegation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, delegation := range s.delegations {
		if delegation.CorrespondenceID == correspondenceID && delegation.Status == entities.DelegationStatusActive {
			return delegation, true, nil
		}
	}
	return entities.Delegation{}, false, nil
}

func (s *Store) ListDelegationsForAssistant(_ context.Context, assistantID string) ([]entities.Delegation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]entities.Delegation, 0)
	for _, delegation := range s.delegations {
		if delegation.AssistantID == assistantID {
			result = append(result, delegation)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DelegatedAt.Equal(result[j].DelegatedAt) {
			return result[i].DelegationID < result[j].DelegationID
		}
		return result[i].DelegatedAt.Before(result[j].DelegatedAt)
	})
	return result, nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pending := make([]ports.OutboxMessage, 0)
	for _, record := range s.outbox {
		if !record.published {
			pending = append(pending, record.message)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].OutboxID < pending[j].OutboxID
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.outbox[outboxID]
	if !ok {
		return nil
	}
	record.published = true
	s.outbox[outboxID] = record
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func sortAssignments(assignments []entities.AssistantAssignment) {
	sort.Slice(assignments, func(i, j int) bool {
		if assignments[i].CreatedAt.Equal(assignments[j].CreatedAt) {
			return assignments[i].AssignmentID < assignments[j].AssignmentID
		}
		return assignments[i].CreatedAt.Before(assignments[j].CreatedAt)
	})
}
