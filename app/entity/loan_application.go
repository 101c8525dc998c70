package entity

import "time"

const (
	LoanStatusPending   = "pending"
	LoanStatusApproved  = "approved"
	LoanStatusRejected  = "rejected"
	LoanStatusDisbursed = "disbursed"
)

type LoanApplication struct {
	ID uint64

	ApplicantName string
	Email         string
	Phone         string

	AmountMinor int64
	Currency    string

	BusinessName string
	BusinessType string
	Purpose      string

	Status     string
	AdminNotes *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LoanStatusTransitionAllowed reports whether a loan application may move
// from one status to another. Rejected is terminal; disbursed requires a
// prior approval.
func LoanStatusTransitionAllowed(from, to string) bool {
	switch to {
	case LoanStatusApproved, LoanStatusRejected:
		return from == LoanStatusPending
	case LoanStatusDisbursed:
		return from == LoanStatusApproved
	case LoanStatusPending:
		return false
	default:
		return false
	}
}
