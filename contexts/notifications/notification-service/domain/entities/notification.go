package entities

import "time"

// NotificationType classifies what produced the notification.
type NotificationType string

const (
	TypeWorkflow       NotificationType = "workflow"
	TypeCorrespondence NotificationType = "correspondence"
	TypeSystem         NotificationType = "system"
	TypeAlert          NotificationType = "alert"
	TypeReminder       NotificationType = "reminder"
)

func (t NotificationType) Valid() bool {
	switch t {
	case TypeWorkflow, TypeCorrespondence, TypeSystem, TypeAlert, TypeReminder:
		return true
	}
	return false
}

// NotificationPriority orders delivery urgency.
type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
	PriorityUrgent NotificationPriority = "urgent"
)

func (p NotificationPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// NotificationStatus is the read lifecycle of one notification.
type NotificationStatus string

const (
	StatusUnread   NotificationStatus = "unread"
	StatusRead     NotificationStatus = "read"
	StatusArchived NotificationStatus = "archived"
)

// Notification is one message addressed to a single recipient. SourceEventID
// carries the producing event id so replayed events never create
// duplicates. Module and RelatedObjectID form the deep link clients open.
type Notification struct {
	NotificationID  string               `json:"notification_id"`
	RecipientID     string               `json:"recipient_id"`
	SenderID        string               `json:"sender_id,omitempty"`
	Title           string               `json:"title"`
	Message         string               `json:"message,omitempty"`
	Type            NotificationType     `json:"type"`
	Priority        NotificationPriority `json:"priority"`
	Status          NotificationStatus   `json:"status"`
	Module          string               `json:"module,omitempty"`
	RelatedObjectID string               `json:"related_object_id,omitempty"`
	SourceEventID   string               `json:"source_event_id,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	ReadAt          *time.Time           `json:"read_at,omitempty"`
}
