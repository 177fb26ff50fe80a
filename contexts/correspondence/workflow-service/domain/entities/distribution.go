package entities

import "time"

// DistributionPurpose states why a recipient receives a copy.
type DistributionPurpose string

const (
	PurposeInformation DistributionPurpose = "information"
	PurposeAction      DistributionPurpose = "action"
	PurposeComment     DistributionPurpose = "comment"
)

func (p DistributionPurpose) Valid() bool {
	return p == PurposeInformation || p == PurposeAction || p == PurposeComment
}

// Distribution records one recipient of a circulated correspondence copy.
// Distribution never changes routing; it only fans a copy out.
type Distribution struct {
	DistributionID   string              `json:"distribution_id"`
	CorrespondenceID string              `json:"correspondence_id"`
	RecipientID      string              `json:"recipient_id"`
	Purpose          DistributionPurpose `json:"purpose"`
	CreatedBy        string              `json:"created_by"`
	CreatedAt        time.Time           `json:"created_at"`
}
