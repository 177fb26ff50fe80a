package ports

import "context"

// Office is a node in the organization hierarchy as reported by the
// external directory.
type Office struct {
	OfficeID       string `json:"office_id"`
	Name           string `json:"name"`
	DivisionID     string `json:"division_id"`
	DepartmentID   string `json:"department_id"`
	ParentOfficeID string `json:"parent_office_id"`
}

// Directory is the read-only boundary to the external organization
// directory. It is assumed eventually consistent; callers tolerate
// slightly stale grade/role data. Unknown users yield empty values, not
// errors, so the resolver can fall back to the minimal default profile.
type Directory interface {
	GetGradeLevel(ctx context.Context, userID string) (string, error)
	GetRole(ctx context.Context, userID string) (string, error)
	ResolveOfficeHierarchy(ctx context.Context, officeID string) ([]Office, error)
}
