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

// MarkReadCommand stamps a notification read. Repeated calls keep the first
// read time and succeed.
type MarkReadCommand struct {
	NotificationID string
}

type MarkReadUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (u MarkReadUseCase) Execute(ctx context.Context, cmd MarkReadCommand) (entities.Notification, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.NotificationID) == "" {
		return entities.Notification{}, domainerrors.ErrInvalidRequest
	}

	current, err := u.Repository.Get(ctx, cmd.NotificationID)
	if err != nil {
		return entities.Notification{}, err
	}
	if current.Status == entities.StatusRead || current.Status == entities.StatusArchived {
		return current, nil
	}

	now := u.Clock.Now().UTC()
	updated, err := u.Repository.SetStatus(ctx, cmd.NotificationID, entities.StatusRead, &now)
	if err != nil {
		return entities.Notification{}, err
	}

	logger.Debug("notification marked read",
		"event", "notification_marked_read",
		"module", "notifications/notification-service",
		"layer", "application",
		"notification_id", updated.NotificationID,
	)
	return updated, nil
}

// MarkArchivedCommand archives a notification. Archiving an archived
// notification is a no-op.
type MarkArchivedCommand struct {
	NotificationID string
}

type MarkArchivedUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (u MarkArchivedUseCase) Execute(ctx context.Context, cmd MarkArchivedCommand) (entities.Notification, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.NotificationID) == "" {
		return entities.Notification{}, domainerrors.ErrInvalidRequest
	}

	current, err := u.Repository.Get(ctx, cmd.NotificationID)
	if err != nil {
		return entities.Notification{}, err
	}
	if current.Status == entities.StatusArchived {
		return current, nil
	}

	// An unread notification archived directly keeps ReadAt unset.
	updated, err := u.Repository.SetStatus(ctx, cmd.NotificationID, entities.StatusArchived, current.ReadAt)
	if err != nil {
		return entities.Notification{}, err
	}

	logger.Debug("notification archived",
		"event", "notification_archived",
		"module", "notifications/notification-service",
		"layer", "application",
		"notification_id", updated.NotificationID,
	)
	return updated, nil
}
