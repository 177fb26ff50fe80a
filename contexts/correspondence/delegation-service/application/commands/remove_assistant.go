package commands

import (
	"context"
	"log/slog"
	"strings"

	application "chancery/contexts/correspondence/delegation-service/application"
	domainerrors "chancery/contexts/correspondence/delegation-service/domain/errors"
	"chancery/contexts/correspondence/delegation-service/ports"
)

// RemoveAssistantCommand withdraws a standing assignment. Existing
// delegations keep their own lifecycle and are not revoked here.
type RemoveAssistantCommand struct {
	AssignmentID string
}

// RemoveAssistantUseCase deletes one assistant assignment.
type RemoveAssistantUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (u RemoveAssistantUseCase) Execute(ctx context.Context, cmd RemoveAssistantCommand) error {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.AssignmentID) == "" {
		return domainerrors.ErrInvalidRequest
	}
	if err := u.Repository.RemoveAssignment(ctx, cmd.AssignmentID); err != nil {
		return err
	}

	logger.Info("assistant assignment removed",
		"event", "assistant_assignment_removed",
		"module", "correspondence/delegation-service",
		"layer", "application",
		"assignment_id", cmd.AssignmentID,
	)
	return nil
}
