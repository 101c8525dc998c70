package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/entity"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/factory"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/gateway"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/money"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/repository"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/types"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/config"
)

const (
	referencePrefix  = "donation_"
	defaultBatchSize = int32(100)
)

type donationRepository interface {
	Create(ctx context.Context, donation *entity.Donation) error
	Update(ctx context.Context, donation *entity.Donation) error
	FindByReference(ctx context.Context, reference string) (*entity.Donation, error)
	List(ctx context.Context, filter repository.DonationFilter) ([]*entity.Donation, error)
	ListStalePending(ctx context.Context, before time.Time, limit int32) ([]*entity.Donation, error)
	ListExpiredPending(ctx context.Context, cutoff time.Time, limit int32) ([]*entity.Donation, error)
}

type donationEventRepository interface {
	Create(ctx context.Context, event *entity.DonationEvent) error
}

type webhookRecordRepository interface {
	Create(ctx context.Context, record *entity.WebhookRecord) error
}

type paymentGateway interface {
	CreatePaymentLink(ctx context.Context, input *gateway.CreateLinkInput) (*gateway.PaymentLink, error)
	VerifyPayment(ctx context.Context, reference string) (*gateway.Verification, error)
}

type DonationService struct {
	donationRepo  donationRepository
	eventRepo     donationEventRepository
	webhookRepo   webhookRecordRepository
	gateway       paymentGateway
	donationsCfg  config.DonationsConfig
	publicBaseURL string
	webhookSecret string
	logger        logrus.FieldLogger
}

func NewDonationService(
	donationRepo donationRepository,
	eventRepo donationEventRepository,
	webhookRepo webhookRecordRepository,
	gw paymentGateway,
	donationsCfg config.DonationsConfig,
	publicBaseURL string,
	webhookSecret string,
) *DonationService {
	return &DonationService{
		donationRepo:  donationRepo,
		eventRepo:     eventRepo,
		webhookRepo:   webhookRepo,
		gateway:       gw,
		donationsCfg:  donationsCfg,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
		webhookSecret: webhookSecret,
		logger:        factory.NewModuleLogger("donation-service"),
	}
}

// NewReference produces a fresh donation reference: a namespace tag plus a
// v4 UUID. Uniqueness is probabilistic; no storage check is made.
func NewReference() string {
	return referencePrefix + uuid.NewString()
}

func (s *DonationService) InitiateDonation(ctx context.Context, req *types.InitiateDonationRequest) (*entity.Donation, error) {
	if err := validateDonorInput(req); err != nil {
		return nil, err
	}

	amountMinor, err := money.ToMinorUnits(req.Amount)
	if err != nil {
		return nil, newValidationError("amount", err.Error())
	}

	reference := NewReference()
	currency := strings.ToUpper(strings.TrimSpace(s.donationsCfg.Currency))

	link, err := s.gateway.CreatePaymentLink(ctx, &gateway.CreateLinkInput{
		AmountMinor: amountMinor,
		Currency:    currency,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		Reference:   reference,
		RedirectURL: s.publicBaseURL + "/donate/thank-you?reference=" + reference,
		Metadata:    req.Metadata,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	donation := &entity.Donation{
		Reference:      reference,
		AmountMinor:    amountMinor,
		Currency:       currency,
		Status:         entity.DonationStatusPending,
		DonorFirstName: req.FirstName,
		DonorLastName:  req.LastName,
		DonorEmail:     req.Email,
		DonorPhone:     normalizeOptionalString(req.Phone),
		Frequency:      req.DonationFrequency,
		PaymentURL:     normalizeOptionalString(link.PaymentURL),
		Metadata:       cloneMetadata(req.Metadata),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if providerRef := strings.TrimSpace(link.ProviderReference); providerRef != "" {
		donation.ProviderReference = &providerRef
	}

	if err := s.donationRepo.Create(ctx, donation); err != nil {
		return nil, err
	}

	_ = s.eventRepo.Create(ctx, &entity.DonationEvent{
		DonationID: donation.ID,
		EventType:  "donation_created",
		NewStatus:  donation.Status,
		CreatedAt:  now,
	})

	return donation, nil
}

// VerifyDonation resolves a reference to its authoritative provider status
// and syncs the stored donation. Safe to call any number of times for the
// same reference.
func (s *DonationService) VerifyDonation(ctx context.Context, reference string) (*gateway.Verification, error) {
	verification, err := s.gateway.VerifyPayment(ctx, reference)
	if err != nil {
		return nil, err
	}

	donation, err := s.donationRepo.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if donation != nil {
		newStatus := donationStatusFromGateway(verification.Status)
		var failureReason *string
		if newStatus == entity.DonationStatusFailed && verification.RawStatus != "" {
			failureReason = normalizeOptionalString("provider status: " + verification.RawStatus)
		}
		if err := s.applyStatus(ctx, donation, newStatus, verification.PaidAt, failureReason, "donation_verified", nil); err != nil {
			return nil, err
		}
	}

	return verification, nil
}

// HandleWebhook authenticates and processes one provider push. Any error it
// returns maps to a non-2xx response; a nil return means the provider gets
// its acknowledgment even when the event was unrecognized, matched no stored
// donation, or failed to persist, so its retry policy is only driven by auth
// and transport failures. Missed transitions are picked up by reconcile.
func (s *DonationService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if !gateway.VerifySignature(payload, signature, s.webhookSecret) {
		s.recordWebhook(ctx, nil, "", "", signature, payload, entity.WebhookRecordRejected, "signature verification failed")
		return ErrWebhookUnauthorized
	}

	var event types.WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		s.recordWebhook(ctx, nil, "", "", signature, payload, entity.WebhookRecordRejected, "payload is not valid JSON")
		return ErrWebhookMalformed
	}

	reference := strings.TrimSpace(event.Data.Reference)

	var newStatus string
	switch event.Event {
	case types.WebhookEventPaymentSuccessful:
		newStatus = entity.DonationStatusSuccess
	case types.WebhookEventPaymentFailed:
		newStatus = entity.DonationStatusFailed
	default:
		s.logger.WithField("event", event.Event).Warn("Unrecognized webhook event acknowledged")
		s.recordWebhook(ctx, nil, event.Event, reference, signature, payload, entity.WebhookRecordIgnored, "")
		return nil
	}

	donation, err := s.donationRepo.FindByReference(ctx, reference)
	if err != nil {
		s.logger.WithError(err).WithField("reference", reference).Error("Webhook donation lookup failed")
		s.recordWebhook(ctx, nil, event.Event, reference, signature, payload, entity.WebhookRecordFailed, "donation lookup failed: "+err.Error())
		return nil
	}
	if donation == nil {
		s.recordWebhook(ctx, nil, event.Event, reference, signature, payload, entity.WebhookRecordRejected, "no donation for reference")
		return nil
	}

	var paidAt *time.Time
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(event.Data.PaidAt)); err == nil {
		paidAt = &t
	}
	var failureReason *string
	if newStatus == entity.DonationStatusFailed {
		failureReason = normalizeOptionalString(event.Data.FailureReason)
	}

	payloadJSON := string(payload)
	if err := s.applyStatus(ctx, donation, newStatus, paidAt, failureReason, event.Event, &payloadJSON); err != nil {
		s.logger.WithError(err).WithField("reference", reference).Error("Webhook status update failed")
		s.recordWebhook(ctx, &donation.ID, event.Event, reference, signature, payload, entity.WebhookRecordFailed, "status update failed: "+err.Error())
		return nil
	}

	s.recordWebhook(ctx, &donation.ID, event.Event, reference, signature, payload, entity.WebhookRecordProcessed, "")
	return nil
}

func (s *DonationService) GetDonation(ctx context.Context, reference string) (*entity.Donation, error) {
	donation, err := s.donationRepo.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if donation == nil {
		return nil, ErrDonationNotFound
	}
	return donation, nil
}

func (s *DonationService) ListDonations(ctx context.Context, req *types.ListDonationsRequest) ([]*entity.Donation, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}

	return s.donationRepo.List(ctx, repository.DonationFilter{
		Status:    req.Status,
		Email:     req.Email,
		Frequency: req.Frequency,
		Limit:     limit,
		Offset:    req.Offset,
	})
}

// applyStatus transitions a donation idempotently: re-applying the status it
// already has is a no-op apart from filling in a missing paidAt.
func (s *DonationService) applyStatus(
	ctx context.Context,
	donation *entity.Donation,
	newStatus string,
	paidAt *time.Time,
	failureReason *string,
	eventType string,
	payloadJSON *string,
) error {
	now := time.Now().UTC()
	oldStatus := donation.Status

	// A settled donation never moves back to pending.
	if newStatus == entity.DonationStatusPending && entity.TerminalDonationStatus(oldStatus) {
		return nil
	}

	changed := oldStatus != newStatus
	if !changed && (paidAt == nil || donation.PaidAt != nil) {
		return nil
	}

	donation.Status = newStatus
	if paidAt != nil && donation.PaidAt == nil {
		donation.PaidAt = paidAt
	}
	if newStatus == entity.DonationStatusSuccess {
		donation.FailureReason = nil
	} else if failureReason != nil {
		donation.FailureReason = failureReason
	}
	donation.UpdatedAt = now

	if err := s.donationRepo.Update(ctx, donation); err != nil {
		return err
	}

	if changed {
		oldStatusPtr := &oldStatus
		_ = s.eventRepo.Create(ctx, &entity.DonationEvent{
			DonationID:  donation.ID,
			EventType:   eventType,
			OldStatus:   oldStatusPtr,
			NewStatus:   newStatus,
			PayloadJSON: payloadJSON,
			CreatedAt:   now,
		})
	}

	return nil
}

func (s *DonationService) recordWebhook(
	ctx context.Context,
	donationID *uint64,
	eventType, reference, signature string,
	payload []byte,
	status int32,
	reason string,
) {
	record := &entity.WebhookRecord{
		DonationID:  donationID,
		EventType:   eventType,
		Reference:   reference,
		Signature:   strings.TrimSpace(signature),
		PayloadJSON: string(payload),
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}
	if reason = strings.TrimSpace(reason); reason != "" {
		record.Error = &reason
	}
	if err := s.webhookRepo.Create(ctx, record); err != nil {
		s.logger.WithError(err).Warn("Failed to persist webhook record")
	}
}

// Currency is the ISO code donations are charged in.
func (s *DonationService) Currency() string {
	return strings.ToUpper(strings.TrimSpace(s.donationsCfg.Currency))
}

func (s *DonationService) batchSize() int32 {
	if s.donationsCfg.JobBatchSize > 0 {
		return s.donationsCfg.JobBatchSize
	}
	return defaultBatchSize
}

func validateDonorInput(req *types.InitiateDonationRequest) error {
	if strings.TrimSpace(req.FirstName) == "" {
		return newValidationError("firstName", "is required")
	}
	if strings.TrimSpace(req.LastName) == "" {
		return newValidationError("lastName", "is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		return newValidationError("email", "is required")
	}
	return nil
}

func donationStatusFromGateway(status gateway.PaymentStatus) string {
	switch status {
	case gateway.StatusSuccess:
		return entity.DonationStatusSuccess
	case gateway.StatusPending:
		return entity.DonationStatusPending
	default:
		return entity.DonationStatusFailed
	}
}

func normalizeOptionalString(v string) *string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func cloneMetadata(src map[string]string) map[string]string {
	if len(src) == 0 {
		return map[string]string{}
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
