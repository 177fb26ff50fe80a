package queries

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"chancery/contexts/correspondence/delegation-service/domain/entities"
	domainerrors "chancery/contexts/correspondence/delegation-service/domain/errors"
	"chancery/contexts/correspondence/delegation-service/ports"
)

// ActiveDelegation pairs the active delegation with the permission subset the
// backing assignment grants. The permission list is what the profile resolver
// consumes when computing an acting profile.
type ActiveDelegation struct {
	Delegation  entities.Delegation `json:"delegation"`
	Permissions []string            `json:"permissions"`
}

// ActiveForUseCase answers "who, if anyone, is delegated on this
// correspondence right now".
type ActiveForUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (u ActiveForUseCase) Execute(ctx context.Context, correspondenceID string) (ActiveDelegation, bool, error) {
	if strings.TrimSpace(correspondenceID) == "" {
		return ActiveDelegation{}, false, domainerrors.ErrInvalidRequest
	}

	delegation, found, err := u.Repository.ActiveForCorrespondence(ctx, correspondenceID)
	if err != nil || !found {
		return ActiveDelegation{}, false, err
	}

	assignment, err := u.Repository.GetAssignment(ctx, delegation.ExecutiveID, delegation.AssistantID)
	if err != nil {
		// The assignment may have been removed after delegation; the
		// delegation then carries no permissions.
		if errors.Is(err, domainerrors.ErrAssignmentNotFound) {
			return ActiveDelegation{Delegation: delegation}, true, nil
		}
		return ActiveDelegation{}, false, err
	}

	return ActiveDelegation{
		Delegation:  delegation,
		Permissions: assignment.Permissions,
	}, true, nil
}
