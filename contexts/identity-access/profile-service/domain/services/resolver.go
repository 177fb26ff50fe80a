package services

import (
	"chancery/contexts/identity-access/profile-service/domain/entities"
)

// Delegated permission names carried on an assistant assignment.
const (
	DelegatedPermissionView       = "view"
	DelegatedPermissionDraft      = "draft"
	DelegatedPermissionSchedule   = "schedule"
	DelegatedPermissionCoordinate = "coordinate"
	DelegatedPermissionForward    = "forward"
)

// capabilityRule is one row of the grade-tier capability table.
type capabilityRule struct {
	approvals      bool
	analytics      bool
	executiveBoard bool
	administration bool
	distribute     bool
	register       bool
	division       bool
	directorate    bool
}

// capabilityTable holds every grade-derived rule in one place. Management
// tiers approve and distribute but never register; registration belongs to
// registry and secretarial staff in the officer/staff tiers.
var capabilityTable = map[entities.GradeTier]capabilityRule{
	entities.TierManagingDirector:        {approvals: true, analytics: true, executiveBoard: true, administration: true, distribute: true, division: true, directorate: true},
	entities.TierExecutiveDirector:       {approvals: true, analytics: true, executiveBoard: true, administration: true, distribute: true, division: true, directorate: true},
	entities.TierGeneralManager:          {approvals: true, analytics: true, administration: true, distribute: true, division: true},
	entities.TierAssistantGeneralManager: {approvals: true, analytics: true, distribute: true},
	entities.TierPrincipalManager:        {approvals: true, distribute: true},
	entities.TierSeniorManager:           {approvals: true},
	entities.TierManager:                 {},
	entities.TierOfficer:                 {register: true},
	entities.TierStaff:                   {register: true},
}

// Resolve derives the capability profile for a grade/role pair. It never
// fails: unrecognized grades resolve to the minimal default profile
// (document-management view only).
func Resolve(gradeCode string, roleName string) entities.PermissionProfile {
	profile := entities.PermissionProfile{
		CanAccessDocumentManagement: true,
		AllowedArchiveLevels:        []entities.ArchiveLevel{entities.ArchiveLevelDepartment},
	}

	if roleName == entities.RoleSuperAdmin {
		return superAdminProfile()
	}

	tier := entities.TierForGrade(gradeCode)
	rule, ok := capabilityTable[tier]
	if !ok {
		return profile
	}

	profile.CanAccessApprovals = rule.approvals
	profile.CanAccessAnalytics = rule.analytics
	profile.CanAccessReports = rule.analytics
	profile.CanAccessExecutiveDashboard = rule.executiveBoard
	profile.CanAccessAdministration = rule.administration
	profile.CanDistribute = rule.distribute
	profile.CanRegisterCorrespondence = rule.register
	profile.CanViewRegistry = rule.register || rule.directorate
	if rule.division {
		profile.AllowedArchiveLevels = append(profile.AllowedArchiveLevels, entities.ArchiveLevelDivision)
	}
	if rule.directorate {
		profile.AllowedArchiveLevels = append(profile.AllowedArchiveLevels, entities.ArchiveLevelDirectorate)
	}
	return profile
}

// ResolveActing unions the assistant's own profile with the capabilities
// implied by the delegated permission subset, capped at what the delegating
// executive itself holds. Delegation can never escalate privilege beyond
// the delegator's profile; the assistant's own capabilities are untouched.
func ResolveActing(
	own entities.PermissionProfile,
	executive entities.PermissionProfile,
	delegated []string,
) entities.PermissionProfile {
	effective := own
	effective.AllowedArchiveLevels = append([]entities.ArchiveLevel(nil), own.AllowedArchiveLevels...)

	for _, permission := range delegated {
		switch permission {
		case DelegatedPermissionForward:
			if executive.CanDistribute {
				effective.CanDistribute = true
			}
			if executive.CanAccessApprovals {
				effective.CanAccessApprovals = true
			}
		case DelegatedPermissionDraft:
			if executive.CanRegisterCorrespondence {
				effective.CanRegisterCorrespondence = true
			}
		case DelegatedPermissionView, DelegatedPermissionCoordinate:
			if executive.CanAccessDocumentManagement {
				effective.CanAccessDocumentManagement = true
			}
		}
	}
	return effective
}

func superAdminProfile() entities.PermissionProfile {
	return entities.PermissionProfile{
		CanAccessApprovals:          true,
		CanAccessAnalytics:          true,
		CanAccessExecutiveDashboard: true,
		CanAccessAdministration:     true,
		CanAccessReports:            true,
		CanRegisterCorrespondence:   true,
		CanViewRegistry:             true,
		CanAccessDocumentManagement: true,
		CanDistribute:               true,
		AllowedArchiveLevels: []entities.ArchiveLevel{
			entities.ArchiveLevelDepartment,
			entities.ArchiveLevelDivision,
			entities.ArchiveLevelDirectorate,
		},
	}
}
