package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"chancery/contexts/correspondence/workflow-service/domain/entities"
	domainerrors "chancery/contexts/correspondence/workflow-service/domain/errors"
	"chancery/contexts/correspondence/workflow-service/ports"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store implements Repository, OutboxRepository, Clock, IDGenerator and
// ReferenceGenerator in-process for tests and local development.
type Store struct {
	mu sync.RWMutex

	correspondences map[string]entities.Correspondence
	minutes         map[string][]entities.Minute
	distributions   map[string][]entities.Distribution
	references      map[string]struct{}
	outbox          map[string]outboxRecord
}

func NewStore() *Store {
	return &Store{
		correspondences: make(map[string]entities.Correspondence),
		minutes:         make(map[string][]entities.Minute),
		distributions:   make(map[string][]entities.Distribution),
		references:      make(map[string]struct{}),
		outbox:          make(map[string]outboxRecord),
	}
}

func (s *Store) CreateCorrespondence(_ context.Context, input ports.CreateCorrespondenceInput) (entities.Correspondence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.references[input.Correspondence.ReferenceNumber]; exists {
		return entities.Correspondence{}, domainerrors.ErrReferenceExists
	}

	c := cloneCorrespondence(input.Correspondence)
	s.correspondences[c.CorrespondenceID] = c
	s.references[c.ReferenceNumber] = struct{}{}
	s.minutes[c.CorrespondenceID] = []entities.Minute{input.Minute}
	s.appendOutboxLocked(input.OutboxID, input.EventType, input.OutboxPayload, c.CreatedAt)
	return cloneCorrespondence(c), nil
}

func (s *Store) GetCorrespondence(_ context.Context, correspondenceID string) (entities.Correspondence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.correspondences[correspondenceID]
	if !ok {
		return entities.Correspondence{}, domainerrors.ErrCorrespondenceNotFound
	}
	return cloneCorrespondence(c), nil
}

func (s *Store) AppendMinute(_ context.Context, input ports.AppendMinuteInput) (entities.Minute, entities.Correspondence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.correspondences[input.CorrespondenceID]
	if !ok {
		return entities.Minute{}, entities.Correspondence{}, domainerrors.ErrCorrespondenceNotFound
	}

	minute := input.Minute
	minute.StepNumber = c.LastStep + 1
	s.minutes[input.CorrespondenceID] = append(s.minutes[input.CorrespondenceID], minute)

	c.Status = input.Update.Status
	c.CurrentApproverID = input.Update.CurrentApproverID
	c.RoutingPlan = append([]string(nil), input.Update.RoutingPlan...)
	c.RoutingIndex = input.Update.RoutingIndex
	c.LastStep = minute.StepNumber
	c.UpdatedAt = input.Update.UpdatedAt
	if input.Update.CompletedAt != nil {
		at := *input.Update.CompletedAt
		c.CompletedAt = &at
	}
	s.correspondences[input.CorrespondenceID] = c
	s.appendOutboxLocked(input.OutboxID, input.EventType, input.OutboxPayload, input.Update.UpdatedAt)

	return minute, cloneCorrespondence(c), nil
}

func (s *Store) SetArchived(_ context.Context, correspondenceID string, outboxID string, eventType string, payload []byte, at time.Time) (entities.Correspondence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.correspondences[correspondenceID]
	if !ok {
		return entities.Correspondence{}, domainerrors.ErrCorrespondenceNotFound
	}
	c.Status = entities.StatusArchived
	c.UpdatedAt = at
	s.correspondences[correspondenceID] = c
	s.appendOutboxLocked(outboxID, eventType, payload, at)
	return cloneCorrespondence(c), nil
}

func (s *Store) LinkDocument(_ context.Context, correspondenceID string, documentID string, at time.Time) (entities.Correspondence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.correspondences[correspondenceID]
	if !ok {
		return entities.Correspondence{}, domainerrors.ErrCorrespondenceNotFound
	}
	for _, existing := range c.LinkedDocumentIDs {
		if existing == documentID {
			return cloneCorrespondence(c), nil
		}
	}
	c.LinkedDocumentIDs = append(append([]string(nil), c.LinkedDocumentIDs...), documentID)
	c.UpdatedAt = at
	s.correspondences[correspondenceID] = c
	return cloneCorrespondence(c), nil
}

func (s *Store) AddDistribution(_ context.Context, distribution entities.Distribution, outboxID string, eventType string, payload []byte) (entities.Distribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.correspondences[distribution.CorrespondenceID]; !ok {
		return entities.Distribution{}, domainerrors.ErrCorrespondenceNotFound
	}
	s.distributions[distribution.CorrespondenceID] = append(s.distributions[distribution.CorrespondenceID], distribution)
	s.appendOutboxLocked(outboxID, eventType, payload, distribution.CreatedAt)
	return distribution, nil
}

func (s *Store) ListMinutes(_ context.Context, correspondenceID string) ([]entities.Minute, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	minutes := append([]entities.Minute(nil), s.minutes[correspondenceID]...)
	sort.Slice(minutes, func(i, j int) bool {
		return minutes[i].StepNumber < minutes[j].StepNumber
	})
	return minutes, nil
}

func (s *Store) MarkMinuteRead(_ context.Context, minuteID string, at time.Time) (entities.Minute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for correspondenceID, minutes := range s.minutes {
		for i, minute := range minutes {
			if minute.MinuteID != minuteID {
				continue
			}
			if minute.ReadAt == nil {
				stamp := at
				minute.ReadAt = &stamp
				s.minutes[correspondenceID][i] = minute
			} else {
				minute = s.minutes[correspondenceID][i]
			}
			return minute, nil
		}
	}
	return entities.Minute{}, domainerrors.ErrMinuteNotFound
}

func (s *Store) ListInbox(_ context.Context, userID string) ([]entities.Correspondence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]entities.Correspondence, 0)
	for _, c := range s.correspondences {
		if c.CurrentApproverID == userID && !c.Status.IsTerminal() {
			result = append(result, cloneCorrespondence(c))
		}
	}
	sortCorrespondences(result)
	return result, nil
}

func (s *Store) ListRegistry(_ context.Context, filter ports.RegistryFilter) ([]entities.Correspondence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]entities.Correspondence, 0, len(s.correspondences))
	for _, c := range s.correspondences {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && c.Priority != filter.Priority {
			continue
		}
		result = append(result, cloneCorrespondence(c))
	}
	sortCorrespondences(result)
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (s *Store) ListDistributions(_ context.Context, correspondenceID string) ([]entities.Distribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.Distribution(nil), s.distributions[correspondenceID]...), nil
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

// NewReference mints REF-<year>-<ULID> numbers; the ULID keeps them sortable
// by creation time.
func (s *Store) NewReference(_ context.Context, at time.Time) (string, error) {
	return "REF-" + at.UTC().Format("2006") + "-" + ulid.Make().String(), nil
}

func (s *Store) appendOutboxLocked(outboxID string, eventType string, payload []byte, at time.Time) {
	s.outbox[outboxID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:  outboxID,
			EventType: eventType,
			Payload:   append([]byte(nil), payload...),
			CreatedAt: at,
		},
	}
}

func cloneCorrespondence(c entities.Correspondence) entities.Correspondence {
	clone := c
	clone.LinkedDocumentIDs = append([]string(nil), c.LinkedDocumentIDs...)
	clone.RoutingPlan = append([]string(nil), c.RoutingPlan...)
	return clone
}

func sortCorrespondences(items []entities.Correspondence) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CorrespondenceID < items[j].CorrespondenceID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
