package queries

import (
	"context"
	"log/slog"
	"strings"

	"chancery/contexts/correspondence/workflow-service/domain/entities"
	domainerrors "chancery/contexts/correspondence/workflow-service/domain/errors"
	"chancery/contexts/correspondence/workflow-service/ports"
)

// ListMinutesUseCase returns the append-only minute log in step order.
type ListMinutesUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (u ListMinutesUseCase) Execute(ctx context.Context, correspondenceID string) ([]entities.Minute, error) {
	if strings.TrimSpace(correspondenceID) == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	if _, err := u.Repository.GetCorrespondence(ctx, correspondenceID); err != nil {
		return nil, err
	}
	return u.Repository.ListMinutes(ctx, correspondenceID)
}
