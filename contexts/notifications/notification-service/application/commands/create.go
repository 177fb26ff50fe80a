package commands

import (
	"context"
	"log/slog"
	"strings"

	application "chancery/contexts/notifications/notification-service/application"
	"chancery/contexts/notifications/notification-service/domain/entities"
	domainerrors "chancery/contexts/notifications/notification-service/domain/errors"
	"chancery/contexts/notifications/notification-service/ports"
)

// CreateNotificationCommand addresses one message to one recipient.
// SourceEventID, when set, deduplicates replays of the same producing event.
type CreateNotificationCommand struct {
	RecipientID     string
	SenderID        string
	Title           string
	Message         string
	Type            entities.NotificationType
	Priority        entities.NotificationPriority
	Module          string
	RelatedObjectID string
	SourceEventID   string
}

// CreateNotificationUseCase persists the notification and pushes it to live
// subscribers. The push is fire-and-forget; the store is the delivery
// guarantee.
type CreateNotificationUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Pusher     ports.Pusher
	Logger     *slog.Logger
}

func (u CreateNotificationUseCase) Execute(ctx context.Context, cmd CreateNotificationCommand) (entities.Notification, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.RecipientID) == "" || strings.TrimSpace(cmd.Title) == "" {
		return entities.Notification{}, domainerrors.ErrInvalidRequest
	}
	if !cmd.Type.Valid() {
		return entities.Notification{}, domainerrors.ErrInvalidRequest
	}
	if cmd.Priority == "" {
		cmd.Priority = entities.PriorityNormal
	}
	if !cmd.Priority.Valid() {
		return entities.Notification{}, domainerrors.ErrInvalidRequest
	}

	notificationID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return entities.Notification{}, err
	}

	notification := entities.Notification{
		NotificationID:  notificationID,
		RecipientID:     strings.TrimSpace(cmd.RecipientID),
		SenderID:        strings.TrimSpace(cmd.SenderID),
		Title:           strings.TrimSpace(cmd.Title),
		Message:         strings.TrimSpace(cmd.Message),
		Type:            cmd.Type,
		Priority:        cmd.Priority,
		Status:          entities.StatusUnread,
		Module:          strings.TrimSpace(cmd.Module),
		RelatedObjectID: strings.TrimSpace(cmd.RelatedObjectID),
		SourceEventID:   strings.TrimSpace(cmd.SourceEventID),
		CreatedAt:       u.Clock.Now().UTC(),
	}

	stored, created, err := u.Repository.Create(ctx, notification)
	if err != nil {
		logger.Error("notification create failed",
			"event", "notification_create_failed",
			"module", "notifications/notification-service",
			"layer", "application",
			"recipient_id", notification.RecipientID,
			"error", err.Error(),
		)
		return entities.Notification{}, err
	}
	if !created {
		logger.Debug("notification create deduplicated",
			"event", "notification_create_deduplicated",
			"module", "notifications/notification-service",
			"layer", "application",
			"notification_id", stored.NotificationID,
			"source_event_id", stored.SourceEventID,
		)
		return stored, nil
	}

	if u.Pusher != nil {
		u.Pusher.Push(stored)
	}

	logger.Info("notification created",
		"event", "notification_created",
		"module", "notifications/notification-service",
		"layer", "application",
		"notification_id", stored.NotificationID,
		"recipient_id", stored.RecipientID,
		"type", string(stored.Type),
		"priority", string(stored.Priority),
	)
	return stored, nil
}
