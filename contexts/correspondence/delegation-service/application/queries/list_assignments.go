package queries

import (
	"context"
	"log/slog"
	"strings"

	"chancery/contexts/correspondence/delegation-service/domain/entities"
	domainerrors "chancery/contexts/correspondence/delegation-service/domain/errors"
	"chancery/contexts/correspondence/delegation-service/ports"
)

// ListAssignmentsUseCase returns the standing assignments an executive has
// granted.
type ListAssignmentsUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (u ListAssignmentsUseCase) Execute(ctx context.Context, executiveID string) ([]entities.AssistantAssignment, error) {
	if strings.TrimSpace(executiveID) == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	return u.Repository.ListAssignmentsForExecutive(ctx, executiveID)
}
