// Package memory is the in-memory notification store used by tests and the
// in-process development build.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"chancery/contexts/notifications/notification-service/domain/entities"
	domainerrors "chancery/contexts/notifications/notification-service/domain/errors"
	"chancery/contexts/notifications/notification-service/ports"
)

type Store struct {
	mu            sync.RWMutex
	notifications map[string]entities.Notification
	byEvent       map[string]string
}

func NewStore() *Store {
	return &Store{
		notifications: make(map[string]entities.Notification),
		byEvent:       make(map[string]string),
	}
}

func (s *Store) Create(_ context.Context, notification entities.Notification) (entities.Notification, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if notification.SourceEventID != "" {
		if existingID, ok := s.byEvent[eventKey(notification.SourceEventID, notification.RecipientID)]; ok {
			return s.notifications[existingID], false, nil
		}
	}

	s.notifications[notification.NotificationID] = notification
	if notification.SourceEventID != "" {
		s.byEvent[eventKey(notification.SourceEventID, notification.RecipientID)] = notification.NotificationID
	}
	return notification, true, nil
}

func (s *Store) Get(_ context.Context, notificationID string) (entities.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notification, ok := s.notifications[notificationID]
	if !ok {
		return entities.Notification{}, domainerrors.ErrNotificationNotFound
	}
	return notification, nil
}

func (s *Store) SetStatus(_ context.Context, notificationID string, status entities.NotificationStatus, readAt *time.Time) (entities.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notification, ok := s.notifications[notificationID]
	if !ok {
		return entities.Notification{}, domainerrors.ErrNotificationNotFound
	}
	notification.Status = status
	notification.ReadAt = readAt
	s.notifications[notificationID] = notification
	return notification, nil
}

func (s *Store) ListForRecipient(_ context.Context, recipientID string, filter ports.ListFilter) ([]entities.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Notification, 0)
	for _, notification := range s.notifications {
		if notification.RecipientID != recipientID {
			continue
		}
		if filter.Status != "" && notification.Status != filter.Status {
			continue
		}
		items = append(items, notification)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].NotificationID < items[j].NotificationID
	})
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

func (s *Store) UnreadCount(_ context.Context, recipientID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, notification := range s.notifications {
		if notification.RecipientID == recipientID && notification.Status == entities.StatusUnread {
			count++
		}
	}
	return count, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func eventKey(eventID string, recipientID string) string {
	return eventID + "|" + recipientID
}

var (
	_ ports.Repository  = (*Store)(nil)
	_ ports.Clock       = (*Store)(nil)
	_ ports.IDGenerator = (*Store)(nil)
)
