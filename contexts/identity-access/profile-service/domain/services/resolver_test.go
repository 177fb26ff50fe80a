package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chancery/contexts/identity-access/profile-service/domain/entities"
)

func TestResolveGradeTable(t *testing.T) {
	cases := []struct {
		name        string
		grade       string
		role        string
		approvals   bool
		analytics   bool
		executive   bool
		admin       bool
		distribute  bool
		register    bool
		registry    bool
		directorate bool
	}{
		{name: "managing director", grade: "MDCS", approvals: true, analytics: true, executive: true, admin: true, distribute: true, registry: true, directorate: true},
		{name: "executive director", grade: "EDCS", approvals: true, analytics: true, executive: true, admin: true, distribute: true, registry: true, directorate: true},
		{name: "general manager", grade: "MSS1", approvals: true, analytics: true, admin: true, distribute: true},
		{name: "assistant general manager", grade: "MSS2", approvals: true, analytics: true, distribute: true},
		{name: "principal manager", grade: "MSS3", approvals: true, distribute: true},
		{name: "senior manager", grade: "MSS4", approvals: true},
		{name: "manager", grade: "MSS5"},
		{name: "officer", grade: "SSS2", register: true, registry: true},
		{name: "junior staff", grade: "JSS1", register: true, registry: true},
		{name: "unknown grade", grade: "ZZ9"},
		{name: "blank grade", grade: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			profile := Resolve(tc.grade, tc.role)
			assert.Equal(t, tc.approvals, profile.CanAccessApprovals, "approvals")
			assert.Equal(t, tc.analytics, profile.CanAccessAnalytics, "analytics")
			assert.Equal(t, tc.analytics, profile.CanAccessReports, "reports follow analytics")
			assert.Equal(t, tc.executive, profile.CanAccessExecutiveDashboard, "executive dashboard")
			assert.Equal(t, tc.admin, profile.CanAccessAdministration, "administration")
			assert.Equal(t, tc.distribute, profile.CanDistribute, "distribute")
			assert.Equal(t, tc.register, profile.CanRegisterCorrespondence, "register")
			assert.Equal(t, tc.registry, profile.CanViewRegistry, "registry view")
			assert.True(t, profile.CanAccessDocumentManagement, "everyone views documents")
			assert.True(t, profile.AllowsArchiveLevel(entities.ArchiveLevelDepartment), "department archive is universal")
			assert.Equal(t, tc.directorate, profile.AllowsArchiveLevel(entities.ArchiveLevelDirectorate), "directorate archive")
		})
	}
}

func TestResolveManagementCannotRegister(t *testing.T) {
	for _, grade := range []string{"MDCS", "EDCS", "MSS1", "MSS2", "MSS3", "MSS4", "MSS5"} {
		profile := Resolve(grade, "")
		assert.False(t, profile.CanRegisterCorrespondence, "grade %s must not register", grade)
	}
}

func TestResolveSuperAdminOverridesGrade(t *testing.T) {
	profile := Resolve("JSS1", entities.RoleSuperAdmin)
	assert.True(t, profile.CanAccessApprovals)
	assert.True(t, profile.CanAccessAdministration)
	assert.True(t, profile.CanRegisterCorrespondence)
	assert.True(t, profile.CanDistribute)
	assert.True(t, profile.AllowsArchiveLevel(entities.ArchiveLevelDirectorate))
}

func TestResolveActingNeverEscalatesBeyondExecutive(t *testing.T) {
	grades := []string{"MDCS", "EDCS", "MSS1", "MSS2", "MSS3", "MSS4", "MSS5", "SSS2", "JSS1", ""}
	permissionSets := [][]string{
		{},
		{DelegatedPermissionView},
		{DelegatedPermissionDraft},
		{DelegatedPermissionForward},
		{DelegatedPermissionCoordinate, DelegatedPermissionSchedule},
		{DelegatedPermissionView, DelegatedPermissionDraft, DelegatedPermissionSchedule, DelegatedPermissionCoordinate, DelegatedPermissionForward},
	}

	for _, executiveGrade := range grades {
		for _, assistantGrade := range grades {
			for _, permissions := range permissionSets {
				executive := Resolve(executiveGrade, "")
				own := Resolve(assistantGrade, "")
				effective := ResolveActing(own, executive, permissions)

				// Every capability gained through delegation must be one the
				// executive itself holds.
				if effective.CanDistribute && !own.CanDistribute {
					assert.True(t, executive.CanDistribute, "exec %s assistant %s perms %v", executiveGrade, assistantGrade, permissions)
				}
				if effective.CanAccessApprovals && !own.CanAccessApprovals {
					assert.True(t, executive.CanAccessApprovals, "exec %s assistant %s perms %v", executiveGrade, assistantGrade, permissions)
				}
				if effective.CanRegisterCorrespondence && !own.CanRegisterCorrespondence {
					assert.True(t, executive.CanRegisterCorrespondence, "exec %s assistant %s perms %v", executiveGrade, assistantGrade, permissions)
				}

				// Delegation never strips the assistant's own capabilities.
				if own.CanRegisterCorrespondence {
					assert.True(t, effective.CanRegisterCorrespondence)
				}
				if own.CanAccessApprovals {
					assert.True(t, effective.CanAccessApprovals)
				}
			}
		}
	}
}

func TestResolveActingForwardGrantsDistributionFromExecutive(t *testing.T) {
	executive := Resolve("MDCS", "")
	assistant := Resolve("SSS2", "")
	require.False(t, assistant.CanDistribute)
	require.False(t, assistant.CanAccessApprovals)

	effective := ResolveActing(assistant, executive, []string{DelegatedPermissionForward})
	assert.True(t, effective.CanDistribute)
	assert.True(t, effective.CanAccessApprovals)
	assert.True(t, effective.CanRegisterCorrespondence, "own registration right is preserved")
}

func TestTierForGradeClosedEnumeration(t *testing.T) {
	assert.Equal(t, entities.TierManagingDirector, entities.TierForGrade("mdcs"))
	assert.Equal(t, entities.TierOfficer, entities.TierForGrade("SSS4"))
	assert.Equal(t, entities.TierStaff, entities.TierForGrade("JSS3"))
	assert.Equal(t, entities.TierUnknown, entities.TierForGrade("GL-07"))
	assert.True(t, entities.TierForGrade("MSS5").IsManagement())
	assert.False(t, entities.TierForGrade("SSS1").IsManagement())
}
