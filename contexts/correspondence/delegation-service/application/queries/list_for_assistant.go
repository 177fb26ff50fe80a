package queries

import (
	"context"
	"log/slog"
	"strings"

	"chancery/contexts/correspondence/delegation-service/domain/entities"
	domainerrors "chancery/contexts/correspondence/delegation-service/domain/errors"
	"chancery/contexts/correspondence/delegation-service/ports"
)

// AssistantWorkload groups what an assistant holds: standing assignments from
// executives and per-correspondence delegations in any state.
type AssistantWorkload struct {
	Assignments []entities.AssistantAssignment `json:"assignments"`
	Delegations []entities.Delegation          `json:"delegations"`
}

// ListForAssistantUseCase returns the assistant's side of the delegation
// graph.
type ListForAssistantUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (u ListForAssistantUseCase) Execute(ctx context.Context, assistantID string) (AssistantWorkload, error) {
	if strings.TrimSpace(assistantID) == "" {
		return AssistantWorkload{}, domainerrors.ErrInvalidRequest
	}

	assignments, err := u.Repository.ListAssignmentsForAssistant(ctx, assistantID)
	if err != nil {
		return AssistantWorkload{}, err
	}
	delegations, err := u.Repository.ListDelegationsForAssistant(ctx, assistantID)
	if err != nil {
		return AssistantWorkload{}, err
	}
	return AssistantWorkload{Assignments: assignments, Delegations: delegations}, nil
}
