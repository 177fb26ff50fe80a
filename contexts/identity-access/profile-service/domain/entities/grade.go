package entities

import "strings"

// GradeTier is the closed enumeration of seniority tiers used as the primary
// axis for permission derivation. Grade codes follow the organization's
// scheme: MDCS/EDCS for the executive suite, MSS1-MSS5 for management,
// SSS* for senior (officer) staff, JSS* for junior staff.
type GradeTier int

const (
	TierUnknown GradeTier = iota
	TierManagingDirector
	TierExecutiveDirector
	TierGeneralManager
	TierAssistantGeneralManager
	TierPrincipalManager
	TierSeniorManager
	TierManager
	TierOfficer
	TierStaff
)

// TierForGrade maps a raw grade code to its tier. Unrecognized codes map to
// TierUnknown, which resolves to the minimal default profile.
func TierForGrade(code string) GradeTier {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	switch normalized {
	case "MDCS":
		return TierManagingDirector
	case "EDCS":
		return TierExecutiveDirector
	case "MSS1":
		return TierGeneralManager
	case "MSS2":
		return TierAssistantGeneralManager
	case "MSS3":
		return TierPrincipalManager
	case "MSS4":
		return TierSeniorManager
	case "MSS5":
		return TierManager
	}
	switch {
	case strings.HasPrefix(normalized, "SSS"):
		return TierOfficer
	case strings.HasPrefix(normalized, "JSS"):
		return TierStaff
	}
	return TierUnknown
}

// IsManagement reports whether the tier belongs to the management band
// (executive suite plus MSS grades). Management registers nothing itself;
// registration goes through registry and secretarial staff.
func (t GradeTier) IsManagement() bool {
	switch t {
	case TierManagingDirector, TierExecutiveDirector, TierGeneralManager,
		TierAssistantGeneralManager, TierPrincipalManager, TierSeniorManager, TierManager:
		return true
	}
	return false
}

func (t GradeTier) String() string {
	switch t {
	case TierManagingDirector:
		return "managing_director"
	case TierExecutiveDirector:
		return "executive_director"
	case TierGeneralManager:
		return "general_manager"
	case TierAssistantGeneralManager:
		return "assistant_general_manager"
	case TierPrincipalManager:
		return "principal_manager"
	case TierSeniorManager:
		return "senior_manager"
	case TierManager:
		return "manager"
	case TierOfficer:
		return "officer"
	case TierStaff:
		return "staff"
	}
	return "unknown"
}
