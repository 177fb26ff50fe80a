package httpadapter

import (
	"context"
	"log/slog"

	"chancery/contexts/notifications/notification-service/application/commands"
	"chancery/contexts/notifications/notification-service/application/queries"
	"chancery/contexts/notifications/notification-service/domain/entities"
	httptransport "chancery/contexts/notifications/notification-service/transport/http"
)

// Handler maps HTTP DTOs to notification commands and queries.
type Handler struct {
	MarkRead         commands.MarkReadUseCase
	MarkArchived     commands.MarkArchivedUseCase
	ListForRecipient queries.ListForRecipientUseCase
	UnreadCount      queries.UnreadCountUseCase
	Logger           *slog.Logger
}

// ListHandler returns the caller's notifications, optionally filtered by
// status.
func (h Handler) ListHandler(ctx context.Context, callerID string, status string, limit int) ([]httptransport.NotificationDTO, error) {
	notifications, err := h.ListForRecipient.Execute(ctx, queries.ListForRecipientQuery{
		RecipientID: callerID,
		Status:      entities.NotificationStatus(status),
		Limit:       limit,
	})
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.NotificationDTO, 0, len(notifications))
	for _, notification := range notifications {
		items = append(items, toNotificationDTO(notification))
	}
	return items, nil
}

// UnreadCountHandler reports pending notifications for the caller.
func (h Handler) UnreadCountHandler(ctx context.Context, callerID string) (httptransport.UnreadCountResponse, error) {
	count, err := h.UnreadCount.Execute(ctx, callerID)
	if err != nil {
		return httptransport.UnreadCountResponse{}, err
	}
	return httptransport.UnreadCountResponse{Count: count}, nil
}

// MarkReadHandler stamps a notification read.
func (h Handler) MarkReadHandler(ctx context.Context, notificationID string) (httptransport.NotificationDTO, error) {
	notification, err := h.MarkRead.Execute(ctx, commands.MarkReadCommand{NotificationID: notificationID})
	if err != nil {
		return httptransport.NotificationDTO{}, err
	}
	return toNotificationDTO(notification), nil
}

// MarkArchivedHandler archives a notification.
func (h Handler) MarkArchivedHandler(ctx context.Context, notificationID string) (httptransport.NotificationDTO, error) {
	notification, err := h.MarkArchived.Execute(ctx, commands.MarkArchivedCommand{NotificationID: notificationID})
	if err != nil {
		return httptransport.NotificationDTO{}, err
	}
	return toNotificationDTO(notification), nil
}

func toNotificationDTO(n entities.Notification) httptransport.NotificationDTO {
	return httptransport.NotificationDTO{
		NotificationID:  n.NotificationID,
		RecipientID:     n.RecipientID,
		SenderID:        n.SenderID,
		Title:           n.Title,
		Message:         n.Message,
		Type:            string(n.Type),
		Priority:        string(n.Priority),
		Status:          string(n.Status),
		Module:          n.Module,
		RelatedObjectID: n.RelatedObjectID,
		CreatedAt:       n.CreatedAt,
		ReadAt:          n.ReadAt,
	}
}
