package httptransport

import "time"

// RegisterCorrespondenceRequest creates a correspondence aggregate.
type RegisterCorrespondenceRequest struct {
	ReferenceNumber string     `json:"reference_number,omitempty"`
	Subject         string     `json:"subject"`
	SenderName      string     `json:"sender_name"`
	Source          string     `json:"source,omitempty"`
	Direction       string     `json:"direction"`
	Flow            string     `json:"flow,omitempty"`
	Priority        string     `json:"priority,omitempty"`
	DivisionID      string     `json:"division_id,omitempty"`
	DepartmentID    string     `json:"department_id,omitempty"`
	ReceivedDate    *time.Time `json:"received_date,omitempty"`
	LetterDate      *time.Time `json:"letter_date,omitempty"`
	RoutingPlan     []string   `json:"routing_plan,omitempty"`
	Content         string     `json:"content,omitempty"`
}

// ApplyMinuteRequest submits one minute action.
type ApplyMinuteRequest struct {
	Action           string   `json:"action"`
	Content          string   `json:"content,omitempty"`
	ToUserID         string   `json:"to_user_id,omitempty"`
	FromOffice       string   `json:"from_office,omitempty"`
	ToOffice         string   `json:"to_office,omitempty"`
	Mentions         []string `json:"mentions,omitempty"`
	Signature        string   `json:"signature,omitempty"`
	ActedBySecretary bool     `json:"acted_by_secretary,omitempty"`
}

// DistributeRequest fans a correspondence copy out.
type DistributeRequest struct {
	RecipientIDs []string `json:"recipient_ids"`
	Purpose      string   `json:"purpose"`
}

// LinkDocumentRequest attaches a stored document id.
type LinkDocumentRequest struct {
	DocumentID string `json:"document_id"`
}

// CorrespondenceDTO mirrors the aggregate for API consumers.
type CorrespondenceDTO struct {
	CorrespondenceID  string     `json:"correspondence_id"`
	ReferenceNumber   string     `json:"reference_number"`
	Subject           string     `json:"subject"`
	SenderName        string     `json:"sender_name"`
	Source            string     `json:"source,omitempty"`
	Direction         string     `json:"direction"`
	Flow              string     `json:"flow,omitempty"`
	Priority          string     `json:"priority"`
	Status            string     `json:"status"`
	CurrentApproverID string     `json:"current_approver_id,omitempty"`
	DivisionID        string     `json:"division_id,omitempty"`
	DepartmentID      string     `json:"department_id,omitempty"`
	CreatorID         string     `json:"creator_id"`
	ReceivedDate      *time.Time `json:"received_date,omitempty"`
	LetterDate        *time.Time `json:"letter_date,omitempty"`
	LinkedDocumentIDs []string   `json:"linked_document_ids,omitempty"`
	RoutingPlan       []string   `json:"routing_plan,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

// MinuteDTO is one entry of the append-only minute log.
type MinuteDTO struct {
	MinuteID         string     `json:"minute_id"`
	CorrespondenceID string     `json:"correspondence_id"`
	AuthorID         string     `json:"author_id"`
	AuthorGradeLevel string     `json:"author_grade_level,omitempty"`
	Action           string     `json:"action"`
	Content          string     `json:"content,omitempty"`
	StepNumber       int        `json:"step_number"`
	FromOffice       string     `json:"from_office,omitempty"`
	ToOffice         string     `json:"to_office,omitempty"`
	ToUserID         string     `json:"to_user_id,omitempty"`
	Mentions         []string   `json:"mentions,omitempty"`
	Signature        string     `json:"signature,omitempty"`
	ActedBySecretary bool       `json:"acted_by_secretary,omitempty"`
	ActedByAssistant bool       `json:"acted_by_assistant,omitempty"`
	AssistantType    string     `json:"assistant_type,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	ReadAt           *time.Time `json:"read_at,omitempty"`
}

// DistributionDTO is one recipient of a circulated copy.
type DistributionDTO struct {
	DistributionID   string    `json:"distribution_id"`
	CorrespondenceID string    `json:"correspondence_id"`
	RecipientID      string    `json:"recipient_id"`
	Purpose          string    `json:"purpose"`
	CreatedBy        string    `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// ApplyMinuteResponse reports the appended minute and the updated aggregate.
type ApplyMinuteResponse struct {
	Minute         MinuteDTO         `json:"minute"`
	Correspondence CorrespondenceDTO `json:"correspondence"`
}

// CorrespondenceDetailResponse pairs the aggregate with its distributions.
type CorrespondenceDetailResponse struct {
	Correspondence CorrespondenceDTO `json:"correspondence"`
	Distributions  []DistributionDTO `json:"distributions"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
