package entities

// RoleSuperAdmin overrides every grade-derived restriction.
const RoleSuperAdmin = "Super Admin"

// ArchiveLevel is an archive visibility scope a user may browse.
type ArchiveLevel string

const (
	ArchiveLevelDepartment  ArchiveLevel = "department"
	ArchiveLevelDivision    ArchiveLevel = "division"
	ArchiveLevelDirectorate ArchiveLevel = "directorate"
)

// PermissionProfile is the capability set derived from grade and role.
// It is never persisted; it is recomputed on every authorization check.
type PermissionProfile struct {
	CanAccessApprovals          bool           `json:"can_access_approvals"`
	CanAccessAnalytics          bool           `json:"can_access_analytics"`
	CanAccessExecutiveDashboard bool           `json:"can_access_executive_dashboard"`
	CanAccessAdministration     bool           `json:"can_access_administration"`
	CanAccessReports            bool           `json:"can_access_reports"`
	CanRegisterCorrespondence   bool           `json:"can_register_correspondence"`
	CanViewRegistry             bool           `json:"can_view_registry"`
	CanAccessDocumentManagement bool           `json:"can_access_document_management"`
	CanDistribute               bool           `json:"can_distribute"`
	AllowedArchiveLevels        []ArchiveLevel `json:"allowed_archive_levels"`
}

// AllowsArchiveLevel reports whether the profile may browse the given level.
func (p PermissionProfile) AllowsArchiveLevel(level ArchiveLevel) bool {
	for _, allowed := range p.AllowedArchiveLevels {
		if allowed == level {
			return true
		}
	}
	return false
}
