package entity

import "time"

type DonationEvent struct {
	ID uint64

	DonationID uint64

	EventType string

	OldStatus *string
	NewStatus string

	PayloadJSON *string

	CreatedAt time.Time
}
