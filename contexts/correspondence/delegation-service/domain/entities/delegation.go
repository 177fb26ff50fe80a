package entities

import "time"

// DelegationStatus is the lifecycle state of a delegation.
type DelegationStatus string

const (
	DelegationStatusActive    DelegationStatus = "active"
	DelegationStatusCompleted DelegationStatus = "completed"
	DelegationStatusRevoked   DelegationStatus = "revoked"
)

// Delegation activates an assistant assignment's authority for exactly one
// correspondence. At most one delegation per correspondence is active; a
// newer delegation supersedes (revokes) the prior one.
type Delegation struct {
	DelegationID     string           `json:"delegation_id"`
	CorrespondenceID string           `json:"correspondence_id"`
	ExecutiveID      string           `json:"executive_id"`
	AssistantID      string           `json:"assistant_id"`
	AssistantType    AssistantType    `json:"assistant_type"`
	Notes            string           `json:"notes,omitempty"`
	Status           DelegationStatus `json:"status"`
	DelegatedAt      time.Time        `json:"delegated_at"`
	CompletedAt      *time.Time       `json:"completed_at,omitempty"`
}

// IsTerminal reports whether the delegation can no longer change state.
func (d Delegation) IsTerminal() bool {
	return d.Status == DelegationStatusCompleted || d.Status == DelegationStatusRevoked
}
