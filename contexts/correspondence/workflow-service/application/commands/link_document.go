package commands

import (
	"context"
	"log/slog"
	"strings"

	application "chancery/contexts/correspondence/workflow-service/application"
	"chancery/contexts/correspondence/workflow-service/domain/entities"
	domainerrors "chancery/contexts/correspondence/workflow-service/domain/errors"
	"chancery/contexts/correspondence/workflow-service/ports"
)

// LinkDocumentCommand attaches a stored document id to a correspondence. The
// engine holds only the id; document content lives in the external store.
type LinkDocumentCommand struct {
	CorrespondenceID string
	ActorID          string
	DocumentID       string
}

type LinkDocumentUseCase struct {
	Repository ports.Repository
	Profiles   ports.ProfileGateway
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (u LinkDocumentUseCase) Execute(ctx context.Context, cmd LinkDocumentCommand) (entities.Correspondence, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.CorrespondenceID) == "" ||
		strings.TrimSpace(cmd.ActorID) == "" ||
		strings.TrimSpace(cmd.DocumentID) == "" {
		return entities.Correspondence{}, domainerrors.ErrInvalidRequest
	}

	profile, err := u.Profiles.EffectiveProfile(ctx, cmd.ActorID, cmd.CorrespondenceID)
	if err != nil {
		return entities.Correspondence{}, err
	}
	if !profile.CanAccessDocumentManagement {
		return entities.Correspondence{}, domainerrors.ErrForbidden
	}

	updated, err := u.Repository.LinkDocument(ctx, cmd.CorrespondenceID, strings.TrimSpace(cmd.DocumentID), u.Clock.Now().UTC())
	if err != nil {
		return entities.Correspondence{}, err
	}

	logger.Info("document linked",
		"event", "correspondence_document_linked",
		"module", "correspondence/workflow-service",
		"layer", "application",
		"correspondence_id", cmd.CorrespondenceID,
		"document_id", cmd.DocumentID,
	)
	return updated, nil
}
