package entities

import "time"

// MinuteAction is the closed set of routing actions.
type MinuteAction string

const (
	ActionMinute  MinuteAction = "minute"
	ActionForward MinuteAction = "forward"
	ActionApprove MinuteAction = "approve"
	ActionReject  MinuteAction = "reject"
	ActionTreat   MinuteAction = "treat"
)

func (a MinuteAction) Valid() bool {
	switch a {
	case ActionMinute, ActionForward, ActionApprove, ActionReject, ActionTreat:
		return true
	}
	return false
}

// RoutesCorrespondence reports whether the action can change status or
// approver. Plain minutes are annotations only.
func (a MinuteAction) RoutesCorrespondence() bool {
	return a != ActionMinute
}

// Minute is one immutable annotation or decision on a correspondence. Step
// numbers are strictly increasing per correspondence; corrections are new
// minutes, never edits. ReadAt is the single mutable field and is set once.
type Minute struct {
	MinuteID         string       `json:"minute_id"`
	CorrespondenceID string       `json:"correspondence_id"`
	AuthorID         string       `json:"author_id"`
	AuthorGradeLevel string       `json:"author_grade_level,omitempty"`
	Action           MinuteAction `json:"action"`
	Direction        Direction    `json:"direction,omitempty"`
	Content          string       `json:"content,omitempty"`
	StepNumber       int          `json:"step_number"`
	FromOffice       string       `json:"from_office,omitempty"`
	ToOffice         string       `json:"to_office,omitempty"`
	ToUserID         string       `json:"to_user_id,omitempty"`
	Mentions         []string     `json:"mentions,omitempty"`
	Signature        string       `json:"signature,omitempty"`
	ActedBySecretary bool         `json:"acted_by_secretary,omitempty"`
	ActedByAssistant bool         `json:"acted_by_assistant,omitempty"`
	AssistantType    string       `json:"assistant_type,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	ReadAt           *time.Time   `json:"read_at,omitempty"`
}
