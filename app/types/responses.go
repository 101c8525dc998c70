package types

import "encoding/json"

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type WebhookAckResponse struct {
	Received bool `json:"received"`
}

type InitiateDonationResponse struct {
	Success          bool    `json:"success"`
	PaymentURL       string  `json:"paymentUrl"`
	Reference        string  `json:"reference"`
	PaymentReference string  `json:"paymentReference,omitempty"`
	Amount           float64 `json:"amount"`
	FormattedAmount  string  `json:"formattedAmount"`
}

type VerifyDonationResponse struct {
	Success         bool    `json:"success"`
	Reference       string  `json:"reference"`
	Amount          float64 `json:"amount"`
	FormattedAmount string  `json:"formattedAmount"`
	Status          string  `json:"status"`
	PaidAt          string  `json:"paidAt,omitempty"`
}

type DonationResponse struct {
	ID               uint64            `json:"id"`
	Reference        string            `json:"reference"`
	PaymentReference string            `json:"paymentReference,omitempty"`
	Amount           float64           `json:"amount"`
	FormattedAmount  string            `json:"formattedAmount"`
	Currency         string            `json:"currency"`
	Status           string            `json:"status"`
	FirstName        string            `json:"firstName"`
	LastName         string            `json:"lastName"`
	Email            string            `json:"email"`
	Phone            string            `json:"phone,omitempty"`
	Frequency        string            `json:"frequency"`
	PaymentURL       string            `json:"paymentUrl,omitempty"`
	Metadata         map[string]string `json:"metadata"`
	PaidAt           string            `json:"paidAt,omitempty"`
	FailureReason    string            `json:"failureReason,omitempty"`
	CreatedAt        string            `json:"createdAt"`
	UpdatedAt        string            `json:"updatedAt"`
}

type ListDonationsResponse struct {
	Donations []*DonationResponse `json:"donations"`
}

type ContactMessageResponse struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt"`
}

type ListContactMessagesResponse struct {
	Messages []*ContactMessageResponse `json:"messages"`
}

type LoanApplicationResponse struct {
	ID              uint64  `json:"id"`
	ApplicantName   string  `json:"applicantName"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	Amount          float64 `json:"amount"`
	FormattedAmount string  `json:"formattedAmount"`
	Currency        string  `json:"currency"`
	BusinessName    string  `json:"businessName"`
	BusinessType    string  `json:"businessType"`
	Purpose         string  `json:"purpose"`
	Status          string  `json:"status"`
	AdminNotes      string  `json:"adminNotes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

type ListLoanApplicationsResponse struct {
	Applications []*LoanApplicationResponse `json:"applications"`
}

type SubmitResponse struct {
	Success bool   `json:"success"`
	ID      uint64 `json:"id"`
}

type ContentResponse struct {
	Page      string          `json:"page"`
	UpdatedAt string          `json:"updatedAt"`
	Data      json.RawMessage `json:"data"`
}
