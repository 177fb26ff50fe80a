package httptransport

// ProfileResponse is the derived capability set for one user.
type ProfileResponse struct {
	UserID                      string   `json:"user_id"`
	GradeLevel                  string   `json:"grade_level"`
	Role                        string   `json:"role"`
	Tier                        string   `json:"tier"`
	CanAccessApprovals          bool     `json:"can_access_approvals"`
	CanAccessAnalytics          bool     `json:"can_access_analytics"`
	CanAccessExecutiveDashboard bool     `json:"can_access_executive_dashboard"`
	CanAccessAdministration     bool     `json:"can_access_administration"`
	CanAccessReports            bool     `json:"can_access_reports"`
	CanRegisterCorrespondence   bool     `json:"can_register_correspondence"`
	CanViewRegistry             bool     `json:"can_view_registry"`
	CanAccessDocumentManagement bool     `json:"can_access_document_management"`
	CanDistribute               bool     `json:"can_distribute"`
	AllowedArchiveLevels        []string `json:"allowed_archive_levels"`
}

// OfficeDTO is one node of a resolved office hierarchy chain.
type OfficeDTO struct {
	OfficeID       string `json:"office_id"`
	Name           string `json:"name"`
	DivisionID     string `json:"division_id,omitempty"`
	DepartmentID   string `json:"department_id,omitempty"`
	ParentOfficeID string `json:"parent_office_id,omitempty"`
}

type OfficeHierarchyResponse struct {
	OfficeID string      `json:"office_id"`
	Chain    []OfficeDTO `json:"chain"`
}

// EffectiveProfileRequest asks what a user may do right now, optionally in
// the context of one correspondence so delegated authority is folded in.
type EffectiveProfileRequest struct {
	UserID           string `json:"user_id"`
	CorrespondenceID string `json:"correspondence_id,omitempty"`
}

// EffectiveProfileResponse is the capability set the engine would enforce
// for that user on that correspondence.
type EffectiveProfileResponse struct {
	UserID                      string `json:"user_id"`
	GradeLevel                  string `json:"grade_level"`
	CanAccessApprovals          bool   `json:"can_access_approvals"`
	CanRegisterCorrespondence   bool   `json:"can_register_correspondence"`
	CanDistribute               bool   `json:"can_distribute"`
	CanViewRegistry             bool   `json:"can_view_registry"`
	CanAccessDocumentManagement bool   `json:"can_access_document_management"`
	ActingAsAssistant           bool   `json:"acting_as_assistant"`
	AssistantType               string `json:"assistant_type,omitempty"`
	DelegationID                string `json:"delegation_id,omitempty"`
	ExecutiveID                 string `json:"executive_id,omitempty"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
