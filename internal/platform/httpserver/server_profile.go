package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	profileerrors "chancery/contexts/identity-access/profile-service/domain/errors"
	profilehttp "chancery/contexts/identity-access/profile-service/transport/http"
)

func (s *Server) registerProfileRoutes() {
	s.mux.HandleFunc("GET /api/profile/v1/users/{user_id}/profile", s.handleGetProfile)
	s.mux.HandleFunc("GET /api/profile/v1/me/profile", s.handleGetOwnProfile)
	s.mux.HandleFunc("POST /api/profile/v1/effective-profile", s.handleEffectiveProfile)
	s.mux.HandleFunc("GET /api/profile/v1/offices/{office_id}/hierarchy", s.handleGetOfficeHierarchy)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	resp, err := s.profiles.Handler.GetProfileHandler(r.Context(), r.PathValue("user_id"))
	if err != nil {
		writeProfileDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetOwnProfile(w http.ResponseWriter, r *http.Request) {
	userID := resolveUser(r)
	if userID == "" {
		writeProfileError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.profiles.Handler.GetProfileHandler(r.Context(), userID)
	if err != nil {
		writeProfileDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleEffectiveProfile answers "what may this user do right now", folding
// in delegated authority when a correspondence id is supplied. The engine
// re-derives the same profile on every mutation; this endpoint only exists
// so clients can render the right controls.
func (s *Server) handleEffectiveProfile(w http.ResponseWriter, r *http.Request) {
	var req profilehttp.EffectiveProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProfileError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeProfileError(w, http.StatusBadRequest, "invalid_user_id", "user_id is required")
		return
	}

	effective, err := s.workflow.Profiles.EffectiveProfile(r.Context(), req.UserID, req.CorrespondenceID)
	if err != nil {
		writeProfileDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profilehttp.EffectiveProfileResponse{
		UserID:                      req.UserID,
		GradeLevel:                  effective.GradeLevel,
		CanAccessApprovals:          effective.CanAccessApprovals,
		CanRegisterCorrespondence:   effective.CanRegisterCorrespondence,
		CanDistribute:               effective.CanDistribute,
		CanViewRegistry:             effective.CanViewRegistry,
		CanAccessDocumentManagement: effective.CanAccessDocumentManagement,
		ActingAsAssistant:           effective.ActingAsAssistant,
		AssistantType:               effective.AssistantType,
		DelegationID:                effective.DelegationID,
		ExecutiveID:                 effective.ExecutiveID,
	})
}

func (s *Server) handleGetOfficeHierarchy(w http.ResponseWriter, r *http.Request) {
	resp, err := s.profiles.Handler.GetOfficeHierarchyHandler(r.Context(), r.PathValue("office_id"))
	if err != nil {
		writeProfileDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeProfileDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, profileerrors.ErrInvalidUserID):
		writeProfileError(w, http.StatusBadRequest, "invalid_user_id", err.Error())
	case errors.Is(err, profileerrors.ErrOfficeNotFound):
		writeProfileError(w, http.StatusNotFound, "office_not_found", err.Error())
	default:
		writeProfileError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeProfileError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, profilehttp.ErrorResponse{Code: code, Message: message})
}
