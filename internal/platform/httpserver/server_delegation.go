package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	delegationerrors "chancery/contexts/correspondence/delegation-service/domain/errors"
	delegationhttp "chancery/contexts/correspondence/delegation-service/transport/http"
)

func (s *Server) registerDelegationRoutes() {
	s.mux.HandleFunc("POST /api/delegation/v1/assignments", s.handleAssignAssistant)
	s.mux.HandleFunc("DELETE /api/delegation/v1/assignments/{assignment_id}", s.handleRemoveAssistant)
	s.mux.HandleFunc("GET /api/delegation/v1/assignments", s.handleListAssignments)
	s.mux.HandleFunc("GET /api/delegation/v1/workload", s.handleAssistantWorkload)
	s.mux.HandleFunc("POST /api/delegation/v1/delegations", s.handleDelegate)
	s.mux.HandleFunc("POST /api/delegation/v1/delegations/{delegation_id}/revoke", s.handleRevokeDelegation)
	s.mux.HandleFunc("POST /api/delegation/v1/delegations/{delegation_id}/complete", s.handleCompleteDelegation)
	s.mux.HandleFunc("GET /api/delegation/v1/correspondences/{correspondence_id}/active", s.handleActiveDelegation)
}

func (s *Server) handleAssignAssistant(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireDelegationUser(w, r)
	if !ok {
		return
	}
	var req delegationhttp.AssignAssistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDelegationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.delegation.Handler.AssignAssistantHandler(r.Context(), userID, req)
	if err != nil {
		writeDelegationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRemoveAssistant(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireDelegationUser(w, r); !ok {
		return
	}
	if err := s.delegation.Handler.RemoveAssistantHandler(r.Context(), r.PathValue("assignment_id")); err != nil {
		writeDelegationDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireDelegationUser(w, r)
	if !ok {
		return
	}
	resp, err := s.delegation.Handler.ListAssignmentsHandler(r.Context(), userID)
	if err != nil {
		writeDelegationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAssistantWorkload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireDelegationUser(w, r)
	if !ok {
		return
	}
	resp, err := s.delegation.Handler.ListForAssistantHandler(r.Context(), userID)
	if err != nil {
		writeDelegationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDelegate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireDelegationUser(w, r)
	if !ok {
		return
	}
	var req delegationhttp.DelegateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDelegationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.delegation.Handler.DelegateHandler(r.Context(), userID, req)
	if err != nil {
		writeDelegationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRevokeDelegation(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireDelegationUser(w, r); !ok {
		return
	}
	resp, err := s.delegation.Handler.RevokeHandler(r.Context(), r.PathValue("delegation_id"))
	if err != nil {
		writeDelegationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCompleteDelegation(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireDelegationUser(w, r); !ok {
		return
	}
	resp, err := s.delegation.Handler.CompleteHandler(r.Context(), r.PathValue("delegation_id"))
	if err != nil {
		writeDelegationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleActiveDelegation(w http.ResponseWriter, r *http.Request) {
	resp, err := s.delegation.Handler.ActiveForHandler(r.Context(), r.PathValue("correspondence_id"))
	if err != nil {
		writeDelegationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func requireDelegationUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := resolveUser(r)
	if userID == "" {
		writeDelegationError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return userID, true
}

func writeDelegationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, delegationerrors.ErrAssignmentNotFound),
		errors.Is(err, delegationerrors.ErrDelegationNotFound):
		writeDelegationError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, delegationerrors.ErrNotAssigned):
		writeDelegationError(w, http.StatusUnprocessableEntity, "not_assigned", err.Error())
	case errors.Is(err, delegationerrors.ErrAssignmentExists):
		writeDelegationError(w, http.StatusConflict, "assignment_exists", err.Error())
	case errors.Is(err, delegationerrors.ErrBusy):
		w.Header().Set("Retry-After", "1")
		writeDelegationError(w, http.StatusServiceUnavailable, "busy", err.Error())
	case errors.Is(err, delegationerrors.ErrInvalidRequest),
		errors.Is(err, delegationerrors.ErrInvalidAssistantType),
		errors.Is(err, delegationerrors.ErrInvalidPermission):
		writeDelegationError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeDelegationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeDelegationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, delegationhttp.ErrorResponse{Code: code, Message: message})
}
