package queries

import (
	"context"
	"log/slog"
	"strings"

	"chancery/contexts/correspondence/workflow-service/domain/entities"
	domainerrors "chancery/contexts/correspondence/workflow-service/domain/errors"
	"chancery/contexts/correspondence/workflow-service/ports"
)

// GetCorrespondenceUseCase returns one aggregate with its distributions.
type GetCorrespondenceUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

// CorrespondenceDetail pairs the aggregate with its distribution fan-out.
type CorrespondenceDetail struct {
	Correspondence entities.Correspondence `json:"correspondence"`
	Distributions  []entities.Distribution `json:"distributions"`
}

func (u GetCorrespondenceUseCase) Execute(ctx context.Context, correspondenceID string) (CorrespondenceDetail, error) {
	if strings.TrimSpace(correspondenceID) == "" {
		return CorrespondenceDetail{}, domainerrors.ErrInvalidRequest
	}
	correspondence, err := u.Repository.GetCorrespondence(ctx, correspondenceID)
	if err != nil {
		return CorrespondenceDetail{}, err
	}
	distributions, err := u.Repository.ListDistributions(ctx, correspondenceID)
	if err != nil {
		return CorrespondenceDetail{}, err
	}
	return CorrespondenceDetail{Correspondence: correspondence, Distributions: distributions}, nil
}
