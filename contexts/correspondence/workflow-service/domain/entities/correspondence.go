package entities

import "time"

// Status is the lifecycle state of a correspondence.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusRejected   Status = "rejected"
	StatusArchived   Status = "archived"
)

// IsTerminal reports whether no further minute action is accepted.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusRejected || s == StatusArchived
}

// Direction distinguishes incoming from outgoing correspondence.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// Flow records whether the correspondence moves up or down the hierarchy.
type Flow string

const (
	FlowUpward   Flow = "upward"
	FlowDownward Flow = "downward"
)

// Priority orders correspondence urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Correspondence is one tracked item of official communication. The routing
// plan is the ordered approver chain; RoutingIndex points at the entry the
// current approver occupies, -1 while drafted with no approver. LastStep is
// the highest minute step number issued so far.
type Correspondence struct {
	CorrespondenceID  string     `json:"correspondence_id"`
	ReferenceNumber   string     `json:"reference_number"`
	Subject           string     `json:"subject"`
	SenderName        string     `json:"sender_name"`
	Source            string     `json:"source,omitempty"`
	Direction         Direction  `json:"direction"`
	Flow              Flow       `json:"flow"`
	Priority          Priority   `json:"priority"`
	Status            Status     `json:"status"`
	CurrentApproverID string     `json:"current_approver_id,omitempty"`
	DivisionID        string     `json:"division_id,omitempty"`
	DepartmentID      string     `json:"department_id,omitempty"`
	CreatorID         string     `json:"creator_id"`
	ReceivedDate      *time.Time `json:"received_date,omitempty"`
	LetterDate        *time.Time `json:"letter_date,omitempty"`
	LinkedDocumentIDs []string   `json:"linked_document_ids,omitempty"`
	RoutingPlan       []string   `json:"routing_plan,omitempty"`
	RoutingIndex      int        `json:"routing_index"`
	LastStep          int        `json:"last_step"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

// AtFinalRoutingStep reports whether an approve at the current position
// concludes the routing plan.
func (c Correspondence) AtFinalRoutingStep() bool {
	return c.RoutingIndex < 0 || c.RoutingIndex >= len(c.RoutingPlan)-1
}
