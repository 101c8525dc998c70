package entity

import "time"

const (
	WebhookRecordProcessed int32 = 10
	WebhookRecordIgnored   int32 = 15
	WebhookRecordRejected  int32 = 20
	WebhookRecordFailed    int32 = 25
)

type WebhookRecord struct {
	ID uint64

	DonationID *uint64

	EventType   string
	Reference   string
	Signature   string
	PayloadJSON string
	Status      int32
	Error       *string

	CreatedAt time.Time
}
