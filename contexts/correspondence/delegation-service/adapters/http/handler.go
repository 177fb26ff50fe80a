package httpadapter

import (
	"context"
	"log/slog"

	"chancery/contexts/correspondence/delegation-service/application/commands"
	"chancery/contexts/correspondence/delegation-service/application/queries"
	"chancery/contexts/correspondence/delegation-service/domain/entities"
	httptransport "chancery/contexts/correspondence/delegation-service/transport/http"
)

// Handler maps HTTP DTOs to delegation commands and queries. Identity comes
// from the authenticated caller id the server extracts upstream.
type Handler struct {
	AssignAssistant commands.AssignAssistantUseCase
	RemoveAssistant commands.RemoveAssistantUseCase
	Delegate        commands.DelegateUseCase
	Revoke          commands.RevokeUseCase
	Complete        commands.CompleteUseCase
	ActiveFor       queries.ActiveForUseCase
	ListAssignments queries.ListAssignmentsUseCase
	ListForAssist   queries.ListForAssistantUseCase
	Logger          *slog.Logger
}

// AssignAssistantHandler creates a standing assignment from the caller to an
// assistant.
func (h Handler) AssignAssistantHandler(ctx context.Context, callerID string, req httptransport.AssignAssistantRequest) (httptransport.AssignmentDTO, error) {
	assignment, err := h.AssignAssistant.Execute(ctx, commands.AssignAssistantCommand{
		ExecutiveID:    callerID,
		AssistantID:    req.AssistantID,
		Type:           entities.AssistantType(req.Type),
		Specialization: req.Specialization,
		Permissions:    req.Permissions,
	})
	if err != nil {
		return httptransport.AssignmentDTO{}, err
	}
	return toAssignmentDTO(assignment), nil
}

// RemoveAssistantHandler withdraws a standing assignment.
func (h Handler) RemoveAssistantHandler(ctx context.Context, assignmentID string) error {
	return h.RemoveAssistant.Execute(ctx, commands.RemoveAssistantCommand{AssignmentID: assignmentID})
}

// DelegateHandler activates the caller's assignment to the named assistant
// for one correspondence.
func (h Handler) DelegateHandler(ctx context.Context, callerID string, req httptransport.DelegateRequest) (httptransport.DelegateResponse, error) {
	result, err := h.Delegate.Execute(ctx, commands.DelegateCommand{
		CorrespondenceID: req.CorrespondenceID,
		ExecutiveID:      callerID,
		AssistantID:      req.AssistantID,
		Notes:            req.Notes,
	})
	if err != nil {
		return httptransport.DelegateResponse{}, err
	}
	response := httptransport.DelegateResponse{
		Delegation: toDelegationDTO(result.Delegation),
	}
	if result.Superseded != nil {
		superseded := toDelegationDTO(*result.Superseded)
		response.Superseded = &superseded
	}
	return response, nil
}

// RevokeHandler withdraws an active delegation.
func (h Handler) RevokeHandler(ctx context.Context, delegationID string) (httptransport.DelegationDTO, error) {
	delegation, err := h.Revoke.Execute(ctx, commands.RevokeCommand{DelegationID: delegationID})
	if err != nil {
		return httptransport.DelegationDTO{}, err
	}
	return toDelegationDTO(delegation), nil
}

// CompleteHandler closes an active delegation.
func (h Handler) CompleteHandler(ctx context.Context, delegationID string) (httptransport.DelegationDTO, error) {
	delegation, err := h.Complete.Execute(ctx, commands.CompleteCommand{DelegationID: delegationID})
	if err != nil {
		return httptransport.DelegationDTO{}, err
	}
	return toDelegationDTO(delegation), nil
}

// ActiveForHandler reports whether a correspondence currently has an active
// delegation and which permissions it carries.
func (h Handler) ActiveForHandler(ctx context.Context, correspondenceID string) (httptransport.ActiveDelegationResponse, error) {
	active, found, err := h.ActiveFor.Execute(ctx, correspondenceID)
	if err != nil {
		return httptransport.ActiveDelegationResponse{}, err
	}
	if !found {
		return httptransport.ActiveDelegationResponse{Active: false}, nil
	}
	delegation := toDelegationDTO(active.Delegation)
	return httptransport.ActiveDelegationResponse{
		Active:      true,
		Delegation:  &delegation,
		Permissions: active.Permissions,
	}, nil
}

// ListAssignmentsHandler returns the caller's standing assignments.
func (h Handler) ListAssignmentsHandler(ctx context.Context, executiveID string) ([]httptransport.AssignmentDTO, error) {
	assignments, err := h.ListAssignments.Execute(ctx, executiveID)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.AssignmentDTO, 0, len(assignments))
	for _, assignment := range assignments {
		items = append(items, toAssignmentDTO(assignment))
	}
	return items, nil
}

// ListForAssistantHandler returns the assistant's assignments and
// delegations.
func (h Handler) ListForAssistantHandler(ctx context.Context, assistantID string) (httptransport.AssistantWorkloadResponse, error) {
	workload, err := h.ListForAssist.Execute(ctx, assistantID)
	if err != nil {
		return httptransport.AssistantWorkloadResponse{}, err
	}
	response := httptransport.AssistantWorkloadResponse{
		Assignments: make([]httptransport.AssignmentDTO, 0, len(workload.Assignments)),
		Delegations: make([]httptransport.DelegationDTO, 0, len(workload.Delegations)),
	}
	for _, assignment := range workload.Assignments {
		response.Assignments = append(response.Assignments, toAssignmentDTO(assignment))
	}
	for _, delegation := range workload.Delegations {
		response.Delegations = append(response.Delegations, toDelegationDTO(delegation))
	}
	return response, nil
}

func toAssignmentDTO(assignment entities.AssistantAssignment) httptransport.AssignmentDTO {
	return httptransport.AssignmentDTO{
		AssignmentID:   assignment.AssignmentID,
		ExecutiveID:    assignment.ExecutiveID,
		AssistantID:    assignment.AssistantID,
		Type:           string(assignment.Type),
		Specialization: assignment.Specialization,
		Permissions:    assignment.Permissions,
		CreatedAt:      assignment.CreatedAt,
	}
}

func toDelegationDTO(delegation entities.Delegation) httptransport.DelegationDTO {
	return httptransport.DelegationDTO{
		DelegationID:     delegation.DelegationID,
		CorrespondenceID: delegation.CorrespondenceID,
		ExecutiveID:      delegation.ExecutiveID,
		AssistantID:      delegation.AssistantID,
		AssistantType:    string(delegation.AssistantType),
		Notes:            delegation.Notes,
		Status:           string(delegation.Status),
		DelegatedAt:      delegation.DelegatedAt,
		CompletedAt:      delegation.CompletedAt,
	}
}
