package queries

import (
	"context"
	"log/slog"
	"strings"

	application "chancery/contexts/identity-access/profile-service/application"
	domainerrors "chancery/contexts/identity-access/profile-service/domain/errors"
	"chancery/contexts/identity-access/profile-service/ports"
)

// OfficeHierarchyQuery resolves the chain of offices from the given office
// up to the top of its directorate.
type OfficeHierarchyQuery struct {
	OfficeID string
}

type OfficeHierarchyUseCase struct {
	Directory ports.Directory
	Logger    *slog.Logger
}

func (u OfficeHierarchyUseCase) Execute(ctx context.Context, query OfficeHierarchyQuery) ([]ports.Office, error) {
	logger := application.ResolveLogger(u.Logger)

	officeID := strings.TrimSpace(query.OfficeID)
	if officeID == "" {
		return nil, domainerrors.ErrOfficeNotFound
	}

	chain, err := u.Directory.ResolveOfficeHierarchy(ctx, officeID)
	if err != nil {
		logger.Error("office hierarchy lookup failed",
			"event", "profile_office_hierarchy_failed",
			"module", "identity-access/profile-service",
			"layer", "application",
			"office_id", officeID,
			"error", err.Error(),
		)
		return nil, err
	}
	return chain, nil
}
