package httpadapter

import (
	"context"
	"log/slog"

	application "chancery/contexts/identity-access/profile-service/application"
	"chancery/contexts/identity-access/profile-service/application/queries"
	httptransport "chancery/contexts/identity-access/profile-service/transport/http"
)

// Handler maps HTTP DTOs to profile queries.
type Handler struct {
	ResolveProfile  queries.ResolveProfileUseCase
	OfficeHierarchy queries.OfficeHierarchyUseCase
	Logger          *slog.Logger
}

// GetProfileHandler derives the capability profile for one user.
func (h Handler) GetProfileHandler(ctx context.Context, userID string) (httptransport.ProfileResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Debug("http profile resolve received",
		"event", "profile_http_resolve_received",
		"module", "identity-access/profile-service",
		"layer", "transport",
		"user_id", userID,
	)

	resolved, err := h.ResolveProfile.Execute(ctx, queries.ResolveProfileQuery{UserID: userID})
	if err != nil {
		return httptransport.ProfileResponse{}, err
	}

	levels := make([]string, 0, len(resolved.Profile.AllowedArchiveLevels))
	for _, level := range resolved.Profile.AllowedArchiveLevels {
		levels = append(levels, string(level))
	}

	return httptransport.ProfileResponse{
		UserID:                      resolved.UserID,
		GradeLevel:                  resolved.GradeLevel,
		Role:                        resolved.Role,
		Tier:                        resolved.Tier,
		CanAccessApprovals:          resolved.Profile.CanAccessApprovals,
		CanAccessAnalytics:          resolved.Profile.CanAccessAnalytics,
		CanAccessExecutiveDashboard: resolved.Profile.CanAccessExecutiveDashboard,
		CanAccessAdministration:     resolved.Profile.CanAccessAdministration,
		CanAccessReports:            resolved.Profile.CanAccessReports,
		CanRegisterCorrespondence:   resolved.Profile.CanRegisterCorrespondence,
		CanViewRegistry:             resolved.Profile.CanViewRegistry,
		CanAccessDocumentManagement: resolved.Profile.CanAccessDocumentManagement,
		CanDistribute:               resolved.Profile.CanDistribute,
		AllowedArchiveLevels:        levels,
	}, nil
}

// GetOfficeHierarchyHandler resolves an office's chain to the top.
func (h Handler) GetOfficeHierarchyHandler(ctx context.Context, officeID string) (httptransport.OfficeHierarchyResponse, error) {
	chain, err := h.OfficeHierarchy.Execute(ctx, queries.OfficeHierarchyQuery{OfficeID: officeID})
	if err != nil {
		return httptransport.OfficeHierarchyResponse{}, err
	}

	items := make([]httptransport.OfficeDTO, 0, len(chain))
	for _, office := range chain {
		items = append(items, httptransport.OfficeDTO{
			OfficeID:       office.OfficeID,
			Name:           office.Name,
			DivisionID:     office.DivisionID,
			DepartmentID:   office.DepartmentID,
			ParentOfficeID: office.ParentOfficeID,
		})
	}
	return httptransport.OfficeHierarchyResponse{OfficeID: officeID, Chain: items}, nil
}
