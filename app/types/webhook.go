package types

import "encoding/json"

const (
	WebhookEventPaymentSuccessful = "payment.successful"
	WebhookEventPaymentFailed     = "payment.failed"
)

// WebhookEvent is the JSON body of a provider push notification. It must
// only be parsed after the signature header has been verified.
type WebhookEvent struct {
	Event string           `json:"event"`
	Data  WebhookEventData `json:"data"`
}

type WebhookEventData struct {
	Reference     string      `json:"reference"`
	Amount        json.Number `json:"amount"`
	Status        string      `json:"status"`
	PaidAt        string      `json:"paidAt"`
	FailureReason string      `json:"failureReason"`
}
