package queries

import (
	"context"
	"log/slog"
	"strings"

	application "chancery/contexts/identity-access/profile-service/application"
	"chancery/contexts/identity-access/profile-service/domain/entities"
	domainerrors "chancery/contexts/identity-access/profile-service/domain/errors"
	"chancery/contexts/identity-access/profile-service/domain/services"
	"chancery/contexts/identity-access/profile-service/ports"
)

// ResolveProfileQuery identifies the user whose profile is derived.
type ResolveProfileQuery struct {
	UserID string
}

// ResolvedProfile carries the derived capability set plus the grade/role
// inputs it was derived from.
type ResolvedProfile struct {
	UserID     string                     `json:"user_id"`
	GradeLevel string                     `json:"grade_level"`
	Role       string                     `json:"role"`
	Tier       string                     `json:"tier"`
	Profile    entities.PermissionProfile `json:"profile"`
}

// ResolveProfileUseCase recomputes a user's permission profile from the
// directory on every call. A client-supplied profile is never trusted.
type ResolveProfileUseCase struct {
	Directory ports.Directory
	Logger    *slog.Logger
}

func (u ResolveProfileUseCase) Execute(ctx context.Context, query ResolveProfileQuery) (ResolvedProfile, error) {
	logger := application.ResolveLogger(u.Logger)

	userID := strings.TrimSpace(query.UserID)
	if userID == "" {
		return ResolvedProfile{}, domainerrors.ErrInvalidUserID
	}

	grade, err := u.Directory.GetGradeLevel(ctx, userID)
	if err != nil {
		logger.Error("profile grade lookup failed",
			"event", "profile_grade_lookup_failed",
			"module", "identity-access/profile-service",
			"layer", "application",
			"user_id", userID,
			"error", err.Error(),
		)
		return ResolvedProfile{}, err
	}
	role, err := u.Directory.GetRole(ctx, userID)
	if err != nil {
		logger.Error("profile role lookup failed",
			"event", "profile_role_lookup_failed",
			"module", "identity-access/profile-service",
			"layer", "application",
			"user_id", userID,
			"error", err.Error(),
		)
		return ResolvedProfile{}, err
	}

	return ResolvedProfile{
		UserID:     userID,
		GradeLevel: grade,
		Role:       role,
		Tier:       entities.TierForGrade(grade).String(),
		Profile:    services.Resolve(grade, role),
	}, nil
}
