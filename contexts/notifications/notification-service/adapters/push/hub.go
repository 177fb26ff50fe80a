// Package push delivers notifications to live subscribers over in-process
// channels. The hub is best-effort: a slow subscriber loses the push and
// catches up by polling the store.
package push

import (
	"log/slog"
	"sync"

	"chancery/contexts/notifications/notification-service/domain/entities"
	"chancery/contexts/notifications/notification-service/ports"
)

const defaultBufferSize = 64

// Hub fans notifications out to per-recipient subscriptions.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string][]chan entities.Notification
	bufferSize  int
	logger      *slog.Logger
}

func NewHub(bufferSize int, logger *slog.Logger) *Hub {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Hub{
		subscribers: make(map[string][]chan entities.Notification),
		bufferSize:  bufferSize,
		logger:      logger,
	}
}

// Subscribe registers a live channel for the recipient. The caller must
// invoke the returned cancel func when done; the channel is closed then.
func (h *Hub) Subscribe(recipientID string) (<-chan entities.Notification, func()) {
	ch := make(chan entities.Notification, h.bufferSize)

	h.mu.Lock()
	h.subscribers[recipientID] = append(h.subscribers[recipientID], ch)
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.remove(recipientID, ch)
			close(ch)
		})
	}
	return ch, cancel
}

// Push delivers to every live subscription of the recipient. Full buffers
// drop the notification; the store remains the source of truth.
func (h *Hub) Push(notification entities.Notification) {
	h.mu.RLock()
	subs := append([]chan entities.Notification(nil), h.subscribers[notification.RecipientID]...)
	h.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub <- notification:
		default:
			if h.logger != nil {
				h.logger.Warn("dropping push for slow subscriber",
					"event", "notification_push_drop",
					"module", "notifications/notification-service",
					"layer", "adapter",
					"recipient_id", notification.RecipientID,
					"notification_id", notification.NotificationID,
				)
			}
		}
	}
}

// SubscriberCount reports live subscriptions for a recipient.
func (h *Hub) SubscriberCount(recipientID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[recipientID])
}

func (h *Hub) remove(recipientID string, target chan entities.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	items := h.subscribers[recipientID]
	filtered := make([]chan entities.Notification, 0, len(items))
	for _, item := range items {
		if item != target {
			filtered = append(filtered, item)
		}
	}
	if len(filtered) == 0 {
		delete(h.subscribers, recipientID)
		return
	}
	h.subscribers[recipientID] = filtered
}

var _ ports.Pusher = (*Hub)(nil)
