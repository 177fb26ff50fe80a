package queries

import (
	"context"
	"log/slog"
	"strings"

	"chancery/contexts/notifications/notification-service/domain/entities"
	domainerrors "chancery/contexts/notifications/notification-service/domain/errors"
	"chancery/contexts/notifications/notification-service/ports"
)

// ListForRecipientQuery lists a recipient's notifications, newest first.
type ListForRecipientQuery struct {
	RecipientID string
	Status      entities.NotificationStatus
	Limit       int
}

type ListForRecipientUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (u ListForRecipientUseCase) Execute(ctx context.Context, query ListForRecipientQuery) ([]entities.Notification, error) {
	if strings.TrimSpace(query.RecipientID) == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	return u.Repository.ListForRecipient(ctx, query.RecipientID, ports.ListFilter{
		Status: query.Status,
		Limit:  query.Limit,
	})
}
