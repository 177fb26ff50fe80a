package queries

import (
	"context"
	"log/slog"
	"strings"

	domainerrors "chancery/contexts/notifications/notification-service/domain/errors"
	"chancery/contexts/notifications/notification-service/ports"
)

// UnreadCountUseCase reports how many notifications await the recipient.
type UnreadCountUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (u UnreadCountUseCase) Execute(ctx context.Context, recipientID string) (int, error) {
	if strings.TrimSpace(recipientID) == "" {
		return 0, domainerrors.ErrInvalidRequest
	}
	return u.Repository.UnreadCount(ctx, recipientID)
}
