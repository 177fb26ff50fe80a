package commands

import (
	"context"
	"log/slog"
	"strings"

	application "chancery/contexts/correspondence/delegation-service/application"
	"chancery/contexts/correspondence/delegation-service/domain/entities"
	domainerrors "chancery/contexts/correspondence/delegation-service/domain/errors"
	"chancery/contexts/correspondence/delegation-service/ports"
)

// AssignAssistantCommand registers a standing assignment from an executive to
// an assistant with an explicit permission subset.
type AssignAssistantCommand struct {
	ExecutiveID    string
	AssistantID    string
	Type           entities.AssistantType
	Specialization string
	Permissions    []string
}

// AssignAssistantUseCase validates and persists one assistant assignment.
type AssignAssistantUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (u AssignAssistantUseCase) Execute(ctx context.Context, cmd AssignAssistantCommand) (entities.AssistantAssignment, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.ExecutiveID) == "" || strings.TrimSpace(cmd.AssistantID) == "" {
		return entities.AssistantAssignment{}, domainerrors.ErrInvalidRequest
	}
	if cmd.ExecutiveID == cmd.AssistantID {
		return entities.AssistantAssignment{}, domainerrors.ErrInvalidRequest
	}
	if !cmd.Type.Valid() {
		return entities.AssistantAssignment{}, domainerrors.ErrInvalidAssistantType
	}
	if len(cmd.Permissions) == 0 {
		return entities.AssistantAssignment{}, domainerrors.ErrInvalidPermission
	}
	granted := make([]string, 0, len(cmd.Permissions))
	seen := make(map[string]struct{}, len(cmd.Permissions))
	for _, permission := range cmd.Permissions {
		if !knownAssignmentPermission(permission) {
			return entities.AssistantAssignment{}, domainerrors.ErrInvalidPermission
		}
		if _, dup := seen[permission]; dup {
			continue
		}
		seen[permission] = struct{}{}
		granted = append(granted, permission)
	}

	assignmentID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return entities.AssistantAssignment{}, err
	}

	assignment, err := u.Repository.CreateAssignment(ctx, ports.CreateAssignmentInput{
		AssignmentID:   assignmentID,
		ExecutiveID:    cmd.ExecutiveID,
		AssistantID:    cmd.AssistantID,
		Type:           cmd.Type,
		Specialization: cmd.Specialization,
		Permissions:    granted,
		CreatedAt:      u.Clock.Now().UTC(),
	})
	if err != nil {
		return entities.AssistantAssignment{}, err
	}

	logger.Info("assistant assigned",
		"event", "assistant_assigned",
		"module", "correspondence/delegation-service",
		"layer", "application",
		"assignment_id", assignment.AssignmentID,
		"executive_id", assignment.ExecutiveID,
		"assistant_id", assignment.AssistantID,
		"assistant_type", string(assignment.Type),
	)
	return assignment, nil
}

func knownAssignmentPermission(permission string) bool {
	for _, known := range entities.AssignmentPermissions {
		if known == permission {
			return true
		}
	}
	return false
}
