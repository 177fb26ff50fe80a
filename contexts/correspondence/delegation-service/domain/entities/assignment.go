package entities

import "time"

// AssistantType distinguishes technical from personal assistants.
type AssistantType string

const (
	AssistantTypeTechnical AssistantType = "TA"
	AssistantTypePersonal  AssistantType = "PA"
)

// Valid reports whether the type is one of the closed set.
func (t AssistantType) Valid() bool {
	return t == AssistantTypeTechnical || t == AssistantTypePersonal
}

// AssignmentPermissions is the closed set of permissions an executive may
// grant on an assignment.
var AssignmentPermissions = []string{"view", "draft", "schedule", "coordinate", "forward"}

// AssistantAssignment is a standing grant of a capability subset from one
// executive to one assistant. At most one assignment exists per
// (executive, assistant) pair.
type AssistantAssignment struct {
	AssignmentID   string        `json:"assignment_id"`
	ExecutiveID    string        `json:"executive_id"`
	AssistantID    string        `json:"assistant_id"`
	Type           AssistantType `json:"type"`
	Specialization string        `json:"specialization,omitempty"`
	Permissions    []string      `json:"permissions"`
	CreatedAt      time.Time     `json:"created_at"`
}

// HasPermission reports whether the assignment grants the named permission.
func (a AssistantAssignment) HasPermission(permission string) bool {
	for _, granted := range a.Permissions {
		if granted == permission {
			return true
		}
	}
	return false
}
