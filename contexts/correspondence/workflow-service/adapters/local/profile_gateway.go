// Package local adapts sibling service modules to the workflow engine's
// ports for in-process deployments.
package local

import (
	"context"
	"log/slog"

	delegationqueries "chancery/contexts/correspondence/delegation-service/application/queries"
	"chancery/contexts/correspondence/workflow-service/ports"
	profileentities "chancery/contexts/identity-access/profile-service/domain/entities"
	profilequeries "chancery/contexts/identity-access/profile-service/application/queries"
	profileservices "chancery/contexts/identity-access/profile-service/domain/services"
)

// ProfileGateway derives the effective capability profile for an actor. When
// the actor holds the active delegation on the correspondence, the delegated
// permission subset is folded in, capped by the executive's own profile.
type ProfileGateway struct {
	Profiles    profilequeries.ResolveProfileUseCase
	Delegations delegationqueries.ActiveForUseCase
	Logger      *slog.Logger
}

func (g ProfileGateway) EffectiveProfile(ctx context.Context, userID string, correspondenceID string) (ports.EffectiveProfile, error) {
	own, err := g.Profiles.Execute(ctx, profilequeries.ResolveProfileQuery{UserID: userID})
	if err != nil {
		return ports.EffectiveProfile{}, err
	}

	effective := toEffective(own.GradeLevel, own.Profile)
	if correspondenceID == "" {
		return effective, nil
	}

	active, found, err := g.Delegations.Execute(ctx, correspondenceID)
	if err != nil {
		return ports.EffectiveProfile{}, err
	}
	if !found || active.Delegation.AssistantID != userID {
		return effective, nil
	}

	executive, err := g.Profiles.Execute(ctx, profilequeries.ResolveProfileQuery{UserID: active.Delegation.ExecutiveID})
	if err != nil {
		return ports.EffectiveProfile{}, err
	}

	acting := profileservices.ResolveActing(own.Profile, executive.Profile, active.Permissions)
	effective = toEffective(own.GradeLevel, acting)
	effective.ActingAsAssistant = true
	effective.AssistantType = string(active.Delegation.AssistantType)
	effective.DelegationID = active.Delegation.DelegationID
	effective.ExecutiveID = active.Delegation.ExecutiveID
	return effective, nil
}

func toEffective(gradeLevel string, profile profileentities.PermissionProfile) ports.EffectiveProfile {
	return ports.EffectiveProfile{
		GradeLevel:                  gradeLevel,
		CanAccessApprovals:          profile.CanAccessApprovals,
		CanRegisterCorrespondence:   profile.CanRegisterCorrespondence,
		CanDistribute:               profile.CanDistribute,
		CanViewRegistry:             profile.CanViewRegistry,
		CanAccessDocumentManagement: profile.CanAccessDocumentManagement,
	}
}

var _ ports.ProfileGateway = ProfileGateway{}
