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

// MarkMinuteReadCommand stamps a minute's read time. The stamp is set once;
// repeated calls keep the original time and succeed.
type MarkMinuteReadCommand struct {
	MinuteID string
}

type MarkMinuteReadUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (u MarkMinuteReadUseCase) Execute(ctx context.Context, cmd MarkMinuteReadCommand) (entities.Minute, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.MinuteID) == "" {
		return entities.Minute{}, domainerrors.ErrInvalidRequest
	}

	minute, err := u.Repository.MarkMinuteRead(ctx, cmd.MinuteID, u.Clock.Now().UTC())
	if err != nil {
		return entities.Minute{}, err
	}

	logger.Debug("minute marked read",
		"event", "correspondence_minute_read",
		"module", "correspondence/workflow-service",
		"layer", "application",
		"minute_id", minute.MinuteID,
	)
	return minute, nil
}
