package httptransport

import "time"

// NotificationDTO mirrors one stored notification for API consumers.
type NotificationDTO struct {
	NotificationID  string     `json:"notification_id"`
	RecipientID     string     `json:"recipient_id"`
	SenderID        string     `json:"sender_id,omitempty"`
	Title           string     `json:"title"`
	Message         string     `json:"message,omitempty"`
	Type            string     `json:"type"`
	Priority        string     `json:"priority"`
	Status          string     `json:"status"`
	Module          string     `json:"module,omitempty"`
	RelatedObjectID string     `json:"related_object_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	ReadAt          *time.Time `json:"read_at,omitempty"`
}

// UnreadCountResponse reports pending notifications for the caller.
type UnreadCountResponse struct {
	Count int `json:"count"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
