package service

import (
	"errors"
	"fmt"
)

var (
	ErrDonationNotFound        = errors.New("donation not found")
	ErrLoanApplicationNotFound = errors.New("loan application not found")
	ErrContactMessageNotFound  = errors.New("contact message not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrWebhookUnauthorized     = errors.New("webhook signature verification failed")
	ErrWebhookMalformed        = errors.New("webhook payload malformed")
)

// ValidationError reports bad caller input with the offending field. It is
// raised before any reference is generated or network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
