package controller

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/entity"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/gateway"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/repository"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/service"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/types"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/config"
)

const controllerWebhookSecret = "whsec_controller_test"

type controllerDonationRepo struct {
	createFn             func(ctx context.Context, donation *entity.Donation) error
	updateFn             func(ctx context.Context, donation *entity.Donation) error
	findByReferenceFn    func(ctx context.Context, reference string) (*entity.Donation, error)
	listFn               func(ctx context.Context, filter repository.DonationFilter) ([]*entity.Donation, error)
	listStalePendingFn   func(ctx context.Context, before time.Time, limit int32) ([]*entity.Donation, error)
	listExpiredPendingFn func(ctx context.Context, cutoff time.Time, limit int32) ([]*entity.Donation, error)
}

func (r *controllerDonationRepo) Create(ctx context.Context, donation *entity.Donation) error {
	if r.createFn != nil {
		return r.createFn(ctx, donation)
	}
	return nil
}

func (r *controllerDonationRepo) Update(ctx context.Context, donation *entity.Donation) error {
	if r.updateFn != nil {
		return r.updateFn(ctx, donation)
	}
	return nil
}

func (r *controllerDonationRepo) FindByReference(ctx context.Context, reference string) (*entity.Donation, error) {
	if r.findByReferenceFn != nil {
		return r.findByReferenceFn(ctx, reference)
	}
	return nil, nil
}

func (r *controllerDonationRepo) List(ctx context.Context, filter repository.DonationFilter) ([]*entity.Donation, error) {
	if r.listFn != nil {
		return r.listFn(ctx, filter)
	}
	return []*entity.Donation{}, nil
}

func (r *controllerDonationRepo) ListStalePending(ctx context.Context, before time.Time, limit int32) ([]*entity.Donation, error) {
	if r.listStalePendingFn != nil {
		return r.listStalePendingFn(ctx, before, limit)
	}
	return []*entity.Donation{}, nil
}

func (r *controllerDonationRepo) ListExpiredPending(ctx context.Context, cutoff time.Time, limit int32) ([]*entity.Donation, error) {
	if r.listExpiredPendingFn != nil {
		return r.listExpiredPendingFn(ctx, cutoff, limit)
	}
	return []*entity.Donation{}, nil
}

type controllerEventRepo struct{}

func (r *controllerEventRepo) Create(context.Context, *entity.DonationEvent) error {
	return nil
}

type controllerWebhookRepo struct{}

func (r *controllerWebhookRepo) Create(context.Context, *entity.WebhookRecord) error {
	return nil
}

type controllerGateway struct {
	link         *gateway.PaymentLink
	linkErr      error
	verification *gateway.Verification
	verifyErr    error
}

func (g *controllerGateway) CreatePaymentLink(_ context.Context, input *gateway.CreateLinkInput) (*gateway.PaymentLink, error) {
	if g.linkErr != nil {
		return nil, g.linkErr
	}
	if g.link != nil {
		return g.link, nil
	}
	return &gateway.PaymentLink{
		PaymentURL:        "https://pay.lenco.example/l/abc",
		Reference:         input.Reference,
		ProviderReference: "lenco-1",
	}, nil
}

func (g *controllerGateway) VerifyPayment(context.Context, string) (*gateway.Verification, error) {
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	return g.verification, nil
}

func newDonationControllerForTest(repo *controllerDonationRepo, gw *controllerGateway) *DonationController {
	donationService := service.NewDonationService(
		repo,
		&controllerEventRepo{},
		&controllerWebhookRepo{},
		gw,
		config.DonationsConfig{Currency: "USD", PendingTimeout: time.Hour, ReconcileStaleAfter: time.Minute, JobBatchSize: 100},
		"https://foundation.example",
		controllerWebhookSecret,
	)
	return NewDonationController(donationService)
}

func signControllerPayload(payload []byte) string {
	mac := hmac.New(sha256.New, []byte(controllerWebhookSecret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestInitiateDonationBadBody(t *testing.T) {
	ctrl := newDonationControllerForTest(&controllerDonationRepo{}, &controllerGateway{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/donations/initiate", bytes.NewBufferString("{bad"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	if err := ctrl.InitiateDonation(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestInitiateDonationSuccess(t *testing.T) {
	repo := &controllerDonationRepo{createFn: func(_ context.Context, donation *entity.Donation) error {
		donation.ID = 7
		return nil
	}}
	ctrl := newDonationControllerForTest(repo, &controllerGateway{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/donations/initiate", bytes.NewBufferString(`{"amount":50,"firstName":"Ada","lastName":"Banda","email":"ada@example.com"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.InitiateDonation(ctx)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var payload types.InitiateDonationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !payload.Success {
		t.Fatal("expected success true")
	}
	if payload.PaymentURL != "https://pay.lenco.example/l/abc" {
		t.Fatalf("unexpected payment url: %q", payload.PaymentURL)
	}
	if payload.Amount != 50 {
		t.Fatalf("unexpected amount: %v", payload.Amount)
	}
	if payload.FormattedAmount != "$50.00" {
		t.Fatalf("unexpected formatted amount: %q", payload.FormattedAmount)
	}
}

func TestInitiateDonationValidationError(t *testing.T) {
	ctrl := newDonationControllerForTest(&controllerDonationRepo{}, &controllerGateway{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/donations/initiate", bytes.NewBufferString(`{"amount":50,"firstName":"Ada","lastName":"Banda"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.InitiateDonation(ctx)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestInitiateDonationGatewayErrorIsBadGateway(t *testing.T) {
	gw := &controllerGateway{linkErr: &gateway.Error{StatusCode: 503, Message: "provider down"}}
	ctrl := newDonationControllerForTest(&controllerDonationRepo{}, gw)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/donations/initiate", bytes.NewBufferString(`{"amount":50,"firstName":"Ada","lastName":"Banda","email":"ada@example.com"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.InitiateDonation(ctx)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestVerifyDonationMissingReference(t *testing.T) {
	ctrl := newDonationControllerForTest(&controllerDonationRepo{}, &controllerGateway{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/donations/verify", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.VerifyDonation(ctx)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestVerifyDonationSuccess(t *testing.T) {
	paidAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	gw := &controllerGateway{verification: &gateway.Verification{
		Reference:   "donation_1",
		AmountMinor: 5000,
		AmountMajor: 50,
		Status:      gateway.StatusSuccess,
		RawStatus:   "success",
		PaidAt:      &paidAt,
	}}
	ctrl := newDonationControllerForTest(&controllerDonationRepo{}, gw)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/donations/verify?reference=donation_1", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.VerifyDonation(ctx)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var payload types.VerifyDonationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !payload.Success || payload.Status != "success" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.FormattedAmount != "$50.00" {
		t.Fatalf("unexpected formatted amount: %q", payload.FormattedAmount)
	}
	if payload.PaidAt != "2026-08-30T12:00:00Z" {
		t.Fatalf("unexpected paidAt: %q", payload.PaidAt)
	}
}

func TestHandleLencoWebhookBadSignature(t *testing.T) {
	ctrl := newDonationControllerForTest(&controllerDonationRepo{}, &controllerGateway{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/lenco", bytes.NewBufferString(`{"event":"payment.successful","data":{"reference":"donation_1"}}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(signatureHeader, "deadbeef")
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.HandleLencoWebhook(ctx)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHandleLencoWebhookProcessed(t *testing.T) {
	now := time.Now().UTC()
	repo := &controllerDonationRepo{findByReferenceFn: func(_ context.Context, reference string) (*entity.Donation, error) {
		return &entity.Donation{
			ID:          1,
			Reference:   reference,
			AmountMinor: 5000,
			Currency:    "USD",
			Status:      entity.DonationStatusPending,
			Metadata:    map[string]string{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}, nil
	}}
	ctrl := newDonationControllerForTest(repo, &controllerGateway{})
	e := echo.New()

	payload := []byte(`{"event":"payment.successful","data":{"reference":"donation_1","status":"success","paidAt":"2026-08-30T12:00:00Z"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/lenco", bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(signatureHeader, signControllerPayload(payload))
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.HandleLencoWebhook(ctx)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var payloadResp types.WebhookAckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payloadResp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !payloadResp.Received {
		t.Fatal("expected received true")
	}
}

func TestHandleLencoWebhookUnknownEventAcked(t *testing.T) {
	ctrl := newDonationControllerForTest(&controllerDonationRepo{}, &controllerGateway{})
	e := echo.New()

	payload := []byte(`{"event":"payout.settled","data":{}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/lenco", bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(signatureHeader, signControllerPayload(payload))
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.HandleLencoWebhook(ctx)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestGetDonationNotFound(t *testing.T) {
	ctrl := newDonationControllerForTest(&controllerDonationRepo{}, &controllerGateway{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/donations/donation_missing", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("reference")
	ctx.SetParamValues("donation_missing")

	_ = ctrl.GetDonation(ctx)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListDonationsSuccess(t *testing.T) {
	now := time.Now().UTC()
	ctrl := newDonationControllerForTest(&controllerDonationRepo{listFn: func(context.Context, repository.DonationFilter) ([]*entity.Donation, error) {
		return []*entity.Donation{{
			ID:             1,
			Reference:      "donation_1",
			AmountMinor:    5000,
			Currency:       "USD",
			Status:         entity.DonationStatusSuccess,
			DonorFirstName: "Ada",
			DonorLastName:  "Banda",
			DonorEmail:     "ada@example.com",
			Frequency:      "one-time",
			Metadata:       map[string]string{},
			CreatedAt:      now,
			UpdatedAt:      now,
		}}, nil
	}}, &controllerGateway{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/donations?limit=10&offset=0", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.ListDonations(ctx)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var payload types.ListDonationsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(payload.Donations) != 1 || payload.Donations[0].FormattedAmount != "$50.00" {
		t.Fatalf("unexpected payload: %+v", payload.Donations)
	}
}
