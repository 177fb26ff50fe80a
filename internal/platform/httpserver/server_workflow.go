package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	workflowerrors "chancery/contexts/correspondence/workflow-service/domain/errors"
	workflowhttp "chancery/contexts/correspondence/workflow-service/transport/http"
)

func (s *Server) registerWorkflowRoutes() {
	s.mux.HandleFunc("POST /api/correspondence/v1/correspondences", s.handleRegisterCorrespondence)
	s.mux.HandleFunc("GET /api/correspondence/v1/correspondences/{correspondence_id}", s.handleGetCorrespondence)
	s.mux.HandleFunc("POST /api/correspondence/v1/correspondences/{correspondence_id}/minutes", s.handleApplyMinute)
	s.mux.HandleFunc("GET /api/correspondence/v1/correspondences/{correspondence_id}/minutes", s.handleListMinutes)
	s.mux.HandleFunc("POST /api/correspondence/v1/correspondences/{correspondence_id}/archive", s.handleArchiveCorrespondence)
	s.mux.HandleFunc("POST /api/correspondence/v1/correspondences/{correspondence_id}/distribute", s.handleDistributeCorrespondence)
	s.mux.HandleFunc("POST /api/correspondence/v1/correspondences/{correspondence_id}/documents", s.handleLinkDocument)
	s.mux.HandleFunc("POST /api/correspondence/v1/minutes/{minute_id}/read", s.handleMarkMinuteRead)
	s.mux.HandleFunc("GET /api/correspondence/v1/inbox", s.handleListInbox)
	s.mux.HandleFunc("GET /api/correspondence/v1/registry", s.handleListRegistry)
}

func (s *Server) handleRegisterCorrespondence(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireWorkflowUser(w, r)
	if !ok {
		return
	}
	var req workflowhttp.RegisterCorrespondenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWorkflowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.workflow.Handler.RegisterHandler(r.Context(), userID, req)
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetCorrespondence(w http.ResponseWriter, r *http.Request) {
	resp, err := s.workflow.Handler.GetHandler(r.Context(), r.PathValue("correspondence_id"))
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApplyMinute(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireWorkflowUser(w, r)
	if !ok {
		return
	}
	var req workflowhttp.ApplyMinuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWorkflowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.workflow.Handler.ApplyMinuteHandler(r.Context(), userID, r.PathValue("correspondence_id"), req)
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListMinutes(w http.ResponseWriter, r *http.Request) {
	resp, err := s.workflow.Handler.ListMinutesHandler(r.Context(), r.PathValue("correspondence_id"))
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleArchiveCorrespondence(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireWorkflowUser(w, r)
	if !ok {
		return
	}
	resp, err := s.workflow.Handler.ArchiveHandler(r.Context(), userID, r.PathValue("correspondence_id"))
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDistributeCorrespondence(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireWorkflowUser(w, r)
	if !ok {
		return
	}
	var req workflowhttp.DistributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWorkflowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.workflow.Handler.DistributeHandler(r.Context(), userID, r.PathValue("correspondence_id"), req)
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleLinkDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireWorkflowUser(w, r)
	if !ok {
		return
	}
	var req workflowhttp.LinkDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWorkflowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.workflow.Handler.LinkDocumentHandler(r.Context(), userID, r.PathValue("correspondence_id"), req)
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkMinuteRead(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireWorkflowUser(w, r); !ok {
		return
	}
	resp, err := s.workflow.Handler.MarkMinuteReadHandler(r.Context(), r.PathValue("minute_id"))
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListInbox(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireWorkflowUser(w, r)
	if !ok {
		return
	}
	resp, err := s.workflow.Handler.ListInboxHandler(r.Context(), userID)
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRegistry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireWorkflowUser(w, r)
	if !ok {
		return
	}
	limit, ok := parseLimit(r)
	if !ok {
		writeWorkflowError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
		return
	}
	query := r.URL.Query()
	resp, err := s.workflow.Handler.ListRegistryHandler(r.Context(), userID, query.Get("status"), query.Get("priority"), limit)
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func requireWorkflowUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := resolveUser(r)
	if userID == "" {
		writeWorkflowError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return userID, true
}

func writeWorkflowDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workflowerrors.ErrCorrespondenceNotFound),
		errors.Is(err, workflowerrors.ErrMinuteNotFound):
		writeWorkflowError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, workflowerrors.ErrForbidden):
		writeWorkflowError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, workflowerrors.ErrInvalidTransition):
		writeWorkflowError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, workflowerrors.ErrNotCurrentApprover):
		writeWorkflowError(w, http.StatusConflict, "not_current_approver", err.Error())
	case errors.Is(err, workflowerrors.ErrReferenceExists):
		writeWorkflowError(w, http.StatusConflict, "reference_exists", err.Error())
	case errors.Is(err, workflowerrors.ErrBusy):
		w.Header().Set("Retry-After", "1")
		writeWorkflowError(w, http.StatusServiceUnavailable, "busy", err.Error())
	case errors.Is(err, workflowerrors.ErrInvalidRequest):
		writeWorkflowError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeWorkflowError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeWorkflowError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, workflowhttp.ErrorResponse{Code: code, Message: message})
}
