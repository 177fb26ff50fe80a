package httpadapter

import (
	"context"
	"log/slog"

	"chancery/contexts/correspondence/workflow-service/application/commands"
	"chancery/contexts/correspondence/workflow-service/application/queries"
	"chancery/contexts/correspondence/workflow-service/domain/entities"
	httptransport "chancery/contexts/correspondence/workflow-service/transport/http"
)

// Handler maps HTTP DTOs to workflow commands and queries. Identity comes
// from the authenticated caller id the server extracts upstream.
type Handler struct {
	Register       commands.RegisterUseCase
	ApplyMinute    commands.ApplyMinuteUseCase
	Archive        commands.ArchiveUseCase
	Distribute     commands.DistributeUseCase
	LinkDocument   commands.LinkDocumentUseCase
	MarkMinuteRead commands.MarkMinuteReadUseCase
	Get            queries.GetCorrespondenceUseCase
	ListInbox      queries.ListInboxUseCase
	ListRegistry   queries.ListRegistryUseCase
	ListMinutes    queries.ListMinutesUseCase
	Logger         *slog.Logger
}

// RegisterHandler creates a correspondence aggregate for the caller.
func (h Handler) RegisterHandler(ctx context.Context, callerID string, req httptransport.RegisterCorrespondenceRequest) (httptransport.CorrespondenceDTO, error) {
	created, err := h.Register.Execute(ctx, commands.RegisterCommand{
		ActorID:         callerID,
		ReferenceNumber: req.ReferenceNumber,
		Subject:         req.Subject,
		SenderName:      req.SenderName,
		Source:          req.Source,
		Direction:       entities.Direction(req.Direction),
		Flow:            entities.Flow(req.Flow),
		Priority:        entities.Priority(req.Priority),
		DivisionID:      req.DivisionID,
		DepartmentID:    req.DepartmentID,
		ReceivedDate:    req.ReceivedDate,
		LetterDate:      req.LetterDate,
		RoutingPlan:     req.RoutingPlan,
		Content:         req.Content,
	})
	if err != nil {
		return httptransport.CorrespondenceDTO{}, err
	}
	return toCorrespondenceDTO(created), nil
}

// ApplyMinuteHandler submits one minute action by the caller.
func (h Handler) ApplyMinuteHandler(ctx context.Context, callerID string, correspondenceID string, req httptransport.ApplyMinuteRequest) (httptransport.ApplyMinuteResponse, error) {
	result, err := h.ApplyMinute.Execute(ctx, commands.ApplyMinuteCommand{
		CorrespondenceID: correspondenceID,
		ActorID:          callerID,
		Action:           entities.MinuteAction(req.Action),
		Content:          req.Content,
		ToUserID:         req.ToUserID,
		FromOffice:       req.FromOffice,
		ToOffice:         req.ToOffice,
		Mentions:         req.Mentions,
		Signature:        req.Signature,
		ActedBySecretary: req.ActedBySecretary,
	})
	if err != nil {
		return httptransport.ApplyMinuteResponse{}, err
	}
	return httptransport.ApplyMinuteResponse{
		Minute:         toMinuteDTO(result.Minute),
		Correspondence: toCorrespondenceDTO(result.Correspondence),
	}, nil
}

// ArchiveHandler moves a concluded correspondence into the archive.
func (h Handler) ArchiveHandler(ctx context.Context, callerID string, correspondenceID string) (httptransport.CorrespondenceDTO, error) {
	archived, err := h.Archive.Execute(ctx, commands.ArchiveCommand{
		CorrespondenceID: correspondenceID,
		ActorID:          callerID,
	})
	if err != nil {
		return httptransport.CorrespondenceDTO{}, err
	}
	return toCorrespondenceDTO(archived), nil
}

// DistributeHandler fans a correspondence copy out to recipients.
func (h Handler) DistributeHandler(ctx context.Context, callerID string, correspondenceID string, req httptransport.DistributeRequest) ([]httptransport.DistributionDTO, error) {
	created, err := h.Distribute.Execute(ctx, commands.DistributeCommand{
		CorrespondenceID: correspondenceID,
		ActorID:          callerID,
		RecipientIDs:     req.RecipientIDs,
		Purpose:          entities.DistributionPurpose(req.Purpose),
	})
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.DistributionDTO, 0, len(created))
	for _, distribution := range created {
		items = append(items, toDistributionDTO(distribution))
	}
	return items, nil
}

// LinkDocumentHandler attaches a stored document id to a correspondence.
func (h Handler) LinkDocumentHandler(ctx context.Context, callerID string, correspondenceID string, req httptransport.LinkDocumentRequest) (httptransport.CorrespondenceDTO, error) {
	updated, err := h.LinkDocument.Execute(ctx, commands.LinkDocumentCommand{
		CorrespondenceID: correspondenceID,
		ActorID:          callerID,
		DocumentID:       req.DocumentID,
	})
	if err != nil {
		return httptransport.CorrespondenceDTO{}, err
	}
	return toCorrespondenceDTO(updated), nil
}

// MarkMinuteReadHandler stamps a minute's read time.
func (h Handler) MarkMinuteReadHandler(ctx context.Context, minuteID string) (httptransport.MinuteDTO, error) {
	minute, err := h.MarkMinuteRead.Execute(ctx, commands.MarkMinuteReadCommand{MinuteID: minuteID})
	if err != nil {
		return httptransport.MinuteDTO{}, err
	}
	return toMinuteDTO(minute), nil
}

// GetHandler returns one aggregate with its distributions.
func (h Handler) GetHandler(ctx context.Context, correspondenceID string) (httptransport.CorrespondenceDetailResponse, error) {
	detail, err := h.Get.Execute(ctx, correspondenceID)
	if err != nil {
		return httptransport.CorrespondenceDetailResponse{}, err
	}
	response := httptransport.CorrespondenceDetailResponse{
		Correspondence: toCorrespondenceDTO(detail.Correspondence),
		Distributions:  make([]httptransport.DistributionDTO, 0, len(detail.Distributions)),
	}
	for _, distribution := range detail.Distributions {
		response.Distributions = append(response.Distributions, toDistributionDTO(distribution))
	}
	return response, nil
}

// ListInboxHandler returns the correspondences awaiting the caller's action.
func (h Handler) ListInboxHandler(ctx context.Context, callerID string) ([]httptransport.CorrespondenceDTO, error) {
	correspondences, err := h.ListInbox.Execute(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return toCorrespondenceDTOs(correspondences), nil
}

// ListRegistryHandler lists the full registry, gated on the registry
// capability.
func (h Handler) ListRegistryHandler(ctx context.Context, callerID string, status string, priority string, limit int) ([]httptransport.CorrespondenceDTO, error) {
	correspondences, err := h.ListRegistry.Execute(ctx, queries.ListRegistryQuery{
		ActorID:  callerID,
		Status:   entities.Status(status),
		Priority: entities.Priority(priority),
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}
	return toCorrespondenceDTOs(correspondences), nil
}

// ListMinutesHandler returns the minute log in step order.
func (h Handler) ListMinutesHandler(ctx context.Context, correspondenceID string) ([]httptransport.MinuteDTO, error) {
	minutes, err := h.ListMinutes.Execute(ctx, correspondenceID)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.MinuteDTO, 0, len(minutes))
	for _, minute := range minutes {
		items = append(items, toMinuteDTO(minute))
	}
	return items, nil
}

func toCorrespondenceDTO(c entities.Correspondence) httptransport.CorrespondenceDTO {
	return httptransport.CorrespondenceDTO{
		CorrespondenceID:  c.CorrespondenceID,
		ReferenceNumber:   c.ReferenceNumber,
		Subject:           c.Subject,
		SenderName:        c.SenderName,
		Source:            c.Source,
		Direction:         string(c.Direction),
		Flow:              string(c.Flow),
		Priority:          string(c.Priority),
		Status:            string(c.Status),
		CurrentApproverID: c.CurrentApproverID,
		DivisionID:        c.DivisionID,
		DepartmentID:      c.DepartmentID,
		CreatorID:         c.CreatorID,
		ReceivedDate:      c.ReceivedDate,
		LetterDate:        c.LetterDate,
		LinkedDocumentIDs: c.LinkedDocumentIDs,
		RoutingPlan:       c.RoutingPlan,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
		CompletedAt:       c.CompletedAt,
	}
}

func toCorrespondenceDTOs(correspondences []entities.Correspondence) []httptransport.CorrespondenceDTO {
	items := make([]httptransport.CorrespondenceDTO, 0, len(correspondences))
	for _, c := range correspondences {
		items = append(items, toCorrespondenceDTO(c))
	}
	return items
}

func toMinuteDTO(m entities.Minute) httptransport.MinuteDTO {
	return httptransport.MinuteDTO{
		MinuteID:         m.MinuteID,
		CorrespondenceID: m.CorrespondenceID,
		AuthorID:         m.AuthorID,
		AuthorGradeLevel: m.AuthorGradeLevel,
		Action:           string(m.Action),
		Content:          m.Content,
		StepNumber:       m.StepNumber,
		FromOffice:       m.FromOffice,
		ToOffice:         m.ToOffice,
		ToUserID:         m.ToUserID,
		Mentions:         m.Mentions,
		Signature:        m.Signature,
		ActedBySecretary: m.ActedBySecretary,
		ActedByAssistant: m.ActedByAssistant,
		AssistantType:    m.AssistantType,
		CreatedAt:        m.CreatedAt,
		ReadAt:           m.ReadAt,
	}
}

func toDistributionDTO(d entities.Distribution) httptransport.DistributionDTO {
	return httptransport.DistributionDTO{
		DistributionID:   d.DistributionID,
		CorrespondenceID: d.CorrespondenceID,
		RecipientID:      d.RecipientID,
		Purpose:          string(d.Purpose),
		CreatedBy:        d.CreatedBy,
		CreatedAt:        d.CreatedAt,
	}
}
