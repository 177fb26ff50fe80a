package ports

import (
	"context"
	"time"

	"chancery/contexts/notifications/notification-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// ListFilter narrows recipient listings. Empty status means every status.
type ListFilter struct {
	Status entities.NotificationStatus
	Limit  int
}

// Repository is the notification store boundary. Create deduplicates on
// (source event id, recipient): replaying a consumed event returns the
// existing row with created=false.
type Repository interface {
	Create(ctx context.Context, notification entities.Notification) (entities.Notification, bool, error)
	Get(ctx context.Context, notificationID string) (entities.Notification, error)
	SetStatus(ctx context.Context, notificationID string, status entities.NotificationStatus, readAt *time.Time) (entities.Notification, error)
	ListForRecipient(ctx context.Context, recipientID string, filter ListFilter) ([]entities.Notification, error)
	UnreadCount(ctx context.Context, recipientID string) (int, error)
}

// Pusher delivers a notification to live subscribers. Push never blocks and
// never fails the caller; missed deliveries surface through polling.
type Pusher interface {
	Push(notification entities.Notification)
}
