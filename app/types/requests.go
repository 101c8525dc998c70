package types

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type InitiateDonationRequest struct {
	Amount            float64           `json:"amount"`
	FirstName         string            `json:"firstName"`
	LastName          string            `json:"lastName"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	DonationFrequency string            `json:"donationFrequency"`
	Metadata          map[string]string `json:"metadata"`
}

func NewInitiateDonationRequestFromContext(ctx echo.Context) (*InitiateDonationRequest, error) {
	var body InitiateDonationRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.FirstName = strings.TrimSpace(body.FirstName)
	body.LastName = strings.TrimSpace(body.LastName)
	body.Email = strings.TrimSpace(body.Email)
	body.Phone = strings.TrimSpace(body.Phone)
	body.DonationFrequency = strings.ToLower(strings.TrimSpace(body.DonationFrequency))
	if body.DonationFrequency == "" {
		body.DonationFrequency = "one-time"
	}
	if body.Metadata == nil {
		body.Metadata = map[string]string{}
	}

	return &body, nil
}

type VerifyDonationRequest struct {
	Reference string
}

func NewVerifyDonationRequestFromContext(ctx echo.Context) *VerifyDonationRequest {
	return &VerifyDonationRequest{Reference: strings.TrimSpace(ctx.QueryParam("reference"))}
}

func (r *VerifyDonationRequest) Validate() error {
	if r.Reference == "" {
		return errors.New("reference is required")
	}
	return nil
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,max=32"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
}

func NewContactRequestFromContext(ctx echo.Context) (*ContactRequest, error) {
	var body ContactRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.Name = strings.TrimSpace(body.Name)
	body.Email = strings.TrimSpace(body.Email)
	body.Phone = strings.TrimSpace(body.Phone)
	body.Subject = strings.TrimSpace(body.Subject)
	body.Message = strings.TrimSpace(body.Message)

	return &body, nil
}

func (r *ContactRequest) Validate() error {
	return validationMessage(validate.Struct(r))
}

type LoanApplicationRequest struct {
	ApplicantName string  `json:"applicantName" validate:"required,min=2,max=120"`
	Email         string  `json:"email" validate:"required,email"`
	Phone         string  `json:"phone" validate:"required,max=32"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	BusinessName  string  `json:"businessName" validate:"required,max=200"`
	BusinessType  string  `json:"businessType" validate:"required,max=100"`
	Purpose       string  `json:"purpose" validate:"required,min=10,max=5000"`
}

func NewLoanApplicationRequestFromContext(ctx echo.Context) (*LoanApplicationRequest, error) {
	var body LoanApplicationRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.ApplicantName = strings.TrimSpace(body.ApplicantName)
	body.Email = strings.TrimSpace(body.Email)
	body.Phone = strings.TrimSpace(body.Phone)
	body.BusinessName = strings.TrimSpace(body.BusinessName)
	body.BusinessType = strings.TrimSpace(body.BusinessType)
	body.Purpose = strings.TrimSpace(body.Purpose)

	return &body, nil
}

func (r *LoanApplicationRequest) Validate() error {
	return validationMessage(validate.Struct(r))
}

type UpdateLoanStatusRequest struct {
	ID         uint64 `json:"-"`
	Status     string `json:"status"`
	AdminNotes string `json:"adminNotes"`
}

func NewUpdateLoanStatusRequestFromContext(ctx echo.Context) (*UpdateLoanStatusRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}

	var body UpdateLoanStatusRequest
	if err = ctx.Bind(&body); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	body.ID = id
	body.Status = strings.ToLower(strings.TrimSpace(body.Status))
	body.AdminNotes = strings.TrimSpace(body.AdminNotes)

	return &body, nil
}

func (r *UpdateLoanStatusRequest) Validate() error {
	if r.ID == 0 {
		return errors.New("invalid loan application id")
	}
	switch r.Status {
	case "approved", "rejected", "disbursed":
		return nil
	default:
		return errors.New("status must be approved, rejected, or disbursed")
	}
}

type ListDonationsRequest struct {
	Status    string
	Email     string
	Frequency string
	Limit     int32
	Offset    int32
}

func NewListDonationsRequestFromContext(ctx echo.Context) (*ListDonationsRequest, error) {
	req := &ListDonationsRequest{
		Status:    strings.ToLower(strings.TrimSpace(ctx.QueryParam("status"))),
		Email:     strings.TrimSpace(ctx.QueryParam("email")),
		Frequency: strings.ToLower(strings.TrimSpace(ctx.QueryParam("frequency"))),
		Limit:     100,
		Offset:    0,
	}

	if err := parsePaging(ctx, &req.Limit, &req.Offset); err != nil {
		return nil, err
	}

	return req, nil
}

func (r *ListDonationsRequest) Validate() error {
	if r.Status != "" && r.Status != "pending" && r.Status != "success" && r.Status != "failed" {
		return errors.New("status must be pending, success, or failed")
	}
	return validatePaging(r.Limit, r.Offset)
}

type ListMessagesRequest struct {
	UnreadOnly bool
	Limit      int32
	Offset     int32
}

func NewListMessagesRequestFromContext(ctx echo.Context) (*ListMessagesRequest, error) {
	req := &ListMessagesRequest{
		UnreadOnly: strings.EqualFold(strings.TrimSpace(ctx.QueryParam("unread")), "true"),
		Limit:      100,
		Offset:     0,
	}

	if err := parsePaging(ctx, &req.Limit, &req.Offset); err != nil {
		return nil, err
	}

	return req, nil
}

func (r *ListMessagesRequest) Validate() error {
	return validatePaging(r.Limit, r.Offset)
}

type ListLoansRequest struct {
	Status string
	Email  string
	Limit  int32
	Offset int32
}

func NewListLoansRequestFromContext(ctx echo.Context) (*ListLoansRequest, error) {
	req := &ListLoansRequest{
		Status: strings.ToLower(strings.TrimSpace(ctx.QueryParam("status"))),
		Email:  strings.TrimSpace(ctx.QueryParam("email")),
		Limit:  100,
		Offset: 0,
	}

	if err := parsePaging(ctx, &req.Limit, &req.Offset); err != nil {
		return nil, err
	}

	return req, nil
}

func (r *ListLoansRequest) Validate() error {
	switch r.Status {
	case "", "pending", "approved", "rejected", "disbursed":
	default:
		return errors.New("invalid status filter")
	}
	return validatePaging(r.Limit, r.Offset)
}

func parsePaging(ctx echo.Context, limit, offset *int32) error {
	if limitRaw := strings.TrimSpace(ctx.QueryParam("limit")); limitRaw != "" {
		n, err := strconv.ParseInt(limitRaw, 10, 32)
		if err != nil {
			return err
		}
		*limit = int32(n)
	}
	if offsetRaw := strings.TrimSpace(ctx.QueryParam("offset")); offsetRaw != "" {
		n, err := strconv.ParseInt(offsetRaw, 10, 32)
		if err != nil {
			return err
		}
		*offset = int32(n)
	}
	return nil
}

func validatePaging(limit, offset int32) error {
	if limit <= 0 || limit > 500 {
		return errors.New("limit must be between 1 and 500")
	}
	if offset < 0 {
		return errors.New("offset must be >= 0")
	}
	return nil
}

// validationMessage turns the first validator field error into a short
// caller-facing message, e.g. "email is invalid".
func validationMessage(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fieldErr := fieldErrs[0]
	field := lowerFirst(fieldErr.Field())
	switch fieldErr.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "email":
		return fmt.Errorf("%s must be a valid email address", field)
	case "gt":
		return fmt.Errorf("%s must be greater than %s", field, fieldErr.Param())
	case "min":
		return fmt.Errorf("%s must be at least %s characters", field, fieldErr.Param())
	case "max":
		return fmt.Errorf("%s must be at most %s characters", field, fieldErr.Param())
	default:
		return fmt.Errorf("%s is invalid", field)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
