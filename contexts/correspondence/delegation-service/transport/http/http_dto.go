package httptransport

import "time"

// AssignAssistantRequest registers a standing assistant assignment.
type AssignAssistantRequest struct {
	AssistantID    string   `json:"assistant_id"`
	Type           string   `json:"type"`
	Specialization string   `json:"specialization,omitempty"`
	Permissions    []string `json:"permissions"`
}

// AssignmentDTO is one standing executive-to-assistant grant.
type AssignmentDTO struct {
	AssignmentID   string    `json:"assignment_id"`
	ExecutiveID    string    `json:"executive_id"`
	AssistantID    string    `json:"assistant_id"`
	Type           string    `json:"type"`
	Specialization string    `json:"specialization,omitempty"`
	Permissions    []string  `json:"permissions"`
	CreatedAt      time.Time `json:"created_at"`
}

// DelegateRequest activates an assignment's authority for one correspondence.
type DelegateRequest struct {
	CorrespondenceID string `json:"correspondence_id"`
	AssistantID      string `json:"assistant_id"`
	Notes            string `json:"notes,omitempty"`
}

// DelegationDTO is one per-correspondence delegation in any state.
type DelegationDTO struct {
	DelegationID     string     `json:"delegation_id"`
	CorrespondenceID string     `json:"correspondence_id"`
	ExecutiveID      string     `json:"executive_id"`
	AssistantID      string     `json:"assistant_id"`
	AssistantType    string     `json:"assistant_type"`
	Notes            string     `json:"notes,omitempty"`
	Status           string     `json:"status"`
	DelegatedAt      time.Time  `json:"delegated_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

// DelegateResponse reports the new delegation and any superseded one.
type DelegateResponse struct {
	Delegation DelegationDTO  `json:"delegation"`
	Superseded *DelegationDTO `json:"superseded,omitempty"`
}

// ActiveDelegationResponse answers the active-delegation lookup for a
// correspondence.
type ActiveDelegationResponse struct {
	Active      bool           `json:"active"`
	Delegation  *DelegationDTO `json:"delegation,omitempty"`
	Permissions []string       `json:"permissions,omitempty"`
}

// AssistantWorkloadResponse is the assistant's side of the delegation graph.
type AssistantWorkloadResponse struct {
	Assignments []AssignmentDTO `json:"assignments"`
	Delegations []DelegationDTO `json:"delegations"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
