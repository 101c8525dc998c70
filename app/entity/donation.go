package entity

import "time"

const (
	DonationStatusPending = "pending"
	DonationStatusSuccess = "success"
	DonationStatusFailed  = "failed"
)

type Donation struct {
	ID uint64

	Reference         string
	ProviderReference *string

	AmountMinor int64
	Currency    string
	Status      string

	DonorFirstName string
	DonorLastName  string
	DonorEmail     string
	DonorPhone     *string
	Frequency      string

	PaymentURL *string
	Metadata   map[string]string

	PaidAt        *time.Time
	FailureReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func TerminalDonationStatus(status string) bool {
	switch status {
	case DonationStatusSuccess, DonationStatusFailed:
		return true
	default:
		return false
	}
}
