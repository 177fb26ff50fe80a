package queries

import (
	"context"
	"log/slog"
	"strings"

	"chancery/contexts/correspondence/workflow-service/domain/entities"
	domainerrors "chancery/contexts/correspondence/workflow-service/domain/errors"
	"chancery/contexts/correspondence/workflow-service/ports"
)

// ListRegistryQuery narrows the full-registry listing.
type ListRegistryQuery struct {
	ActorID  string
	Status   entities.Status
	Priority entities.Priority
	Limit    int
}

// ListRegistryUseCase lists the full correspondence registry. The listing is
// gated on the registry capability; inbox and per-aggregate reads stay open
// to any authenticated user.
type ListRegistryUseCase struct {
	Repository ports.Repository
	Profiles   ports.ProfileGateway
	Logger     *slog.Logger
}

func (u ListRegistryUseCase) Execute(ctx context.Context, query ListRegistryQuery) ([]entities.Correspondence, error) {
	if strings.TrimSpace(query.ActorID) == "" {
		return nil, domainerrors.ErrInvalidRequest
	}

	profile, err := u.Profiles.EffectiveProfile(ctx, query.ActorID, "")
	if err != nil {
		return nil, err
	}
	if !profile.CanViewRegistry {
		return nil, domainerrors.ErrForbidden
	}

	return u.Repository.ListRegistry(ctx, ports.RegistryFilter{
		Status:   query.Status,
		Priority: query.Priority,
		Limit:    query.Limit,
	})
}
