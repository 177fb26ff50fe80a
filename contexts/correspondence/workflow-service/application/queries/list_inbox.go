package queries

import (
	"context"
	"log/slog"
	"strings"

	"chancery/contexts/correspondence/workflow-service/domain/entities"
	domainerrors "chancery/contexts/correspondence/workflow-service/domain/errors"
	"chancery/contexts/correspondence/workflow-service/ports"
)

// ListInboxUseCase returns the correspondences currently awaiting the user's
// action.
type ListInboxUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (u ListInboxUseCase) Execute(ctx context.Context, userID string) ([]entities.Correspondence, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	return u.Repository.ListInbox(ctx, userID)
}
