package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	StatusPending PaymentStatus = "pending"
	StatusSuccess PaymentStatus = "success"
	StatusFailed  PaymentStatus = "failed"
)

// NormalizeStatus maps a raw provider status token to a PaymentStatus. Only
// the provider's literal "success" counts as success; the collection states
// that precede settlement stay pending; everything else (abandoned, failed,
// reversed, typos) is failed.
func NormalizeStatus(raw string) PaymentStatus {
	switch strings.TrimSpace(raw) {
	case "success":
		return StatusSuccess
	case "pending", "otp-required", "pay-offline":
		return StatusPending
	default:
		return StatusFailed
	}
}

type LencoConfig struct {
	BaseURL     string
	SecretKey   string
	APIKey      string
	HTTPTimeout time.Duration
}

// LencoClient talks to the Lenco collections API. It is stateless and safe
// for concurrent use; construct one and inject it where needed so tests can
// substitute a fake.
type LencoClient struct {
	cfg    LencoConfig
	client *http.Client
}

func NewLencoClient(cfg LencoConfig) *LencoClient {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	return &LencoClient{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type CreateLinkInput struct {
	AmountMinor int64
	Currency    string
	Email       string
	FirstName   string
	LastName    string
	Phone       string
	Reference   string
	RedirectURL string
	Metadata    map[string]string
}

type PaymentLink struct {
	PaymentURL        string
	Reference         string
	ProviderReference string
}

type Verification struct {
	Reference   string
	AmountMinor int64
	AmountMajor float64
	Status      PaymentStatus
	RawStatus   string
	PaidAt      *time.Time
}

type envelope struct {
	Status  *bool           `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *LencoClient) CreatePaymentLink(ctx context.Context, input *CreateLinkInput) (*PaymentLink, error) {
	body := map[string]interface{}{
		"amount":       input.AmountMinor,
		"currency":     strings.ToUpper(strings.TrimSpace(input.Currency)),
		"email":        strings.TrimSpace(input.Email),
		"first_name":   strings.TrimSpace(input.FirstName),
		"last_name":    strings.TrimSpace(input.LastName),
		"reference":    input.Reference,
		"redirect_url": input.RedirectURL,
		"metadata":     input.Metadata,
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		body["phone"] = phone
	}

	data, err := c.postJSON(ctx, "/collections/initialize", body)
	if err != nil {
		return nil, err
	}

	var payload struct {
		PaymentURL       string `json:"paymentUrl"`
		Reference        string `json:"reference"`
		PaymentReference string `json:"paymentReference"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || strings.TrimSpace(payload.PaymentURL) == "" {
		return nil, newError(0, "invalid response from payment provider")
	}

	reference := strings.TrimSpace(payload.Reference)
	if reference == "" {
		reference = input.Reference
	}

	return &PaymentLink{
		PaymentURL:        strings.TrimSpace(payload.PaymentURL),
		Reference:         reference,
		ProviderReference: strings.TrimSpace(payload.PaymentReference),
	}, nil
}

func (c *LencoClient) VerifyPayment(ctx context.Context, reference string) (*Verification, error) {
	data, err := c.get(ctx, "/collections/status/"+url.PathEscape(reference))
	if err != nil {
		return nil, err
	}

	var payload struct {
		Reference string      `json:"reference"`
		Amount    json.Number `json:"amount"`
		Status    string      `json:"status"`
		PaidAt    string      `json:"paidAt"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || strings.TrimSpace(payload.Status) == "" {
		return nil, newError(0, "invalid response from payment provider")
	}

	amountMinor, err := payload.Amount.Int64()
	if err != nil {
		return nil, newError(0, "invalid response from payment provider")
	}

	result := &Verification{
		Reference:   strings.TrimSpace(payload.Reference),
		AmountMinor: amountMinor,
		AmountMajor: decimal.NewFromInt(amountMinor).Div(decimal.NewFromInt(100)).InexactFloat64(),
		Status:      NormalizeStatus(payload.Status),
		RawStatus:   strings.TrimSpace(payload.Status),
	}
	if result.Reference == "" {
		result.Reference = reference
	}
	if paidAt, err := time.Parse(time.RFC3339, strings.TrimSpace(payload.PaidAt)); err == nil {
		result.PaidAt = &paidAt
	}

	return result, nil
}

func (c *LencoClient) postJSON(ctx context.Context, path string, body map[string]interface{}) (json.RawMessage, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *LencoClient) get(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}

	return c.do(req)
}

func (c *LencoClient) do(req *http.Request) (json.RawMessage, error) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	req.Header.Set("x-api-key", c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, newError(0, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(0, err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newError(resp.StatusCode, extractProviderMessage(resp, raw))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, newError(0, "invalid response from payment provider")
	}
	if env.Status != nil && !*env.Status {
		message := strings.TrimSpace(env.Message)
		if message == "" {
			message = "payment provider reported failure"
		}
		return nil, newError(resp.StatusCode, message)
	}

	return env.Data, nil
}

// extractProviderMessage pulls a human-readable message out of an error
// response. HTML error pages from proxies are never parsed as data; only the
// status text survives.
func extractProviderMessage(resp *http.Response, raw []byte) string {
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return http.StatusText(resp.StatusCode)
	}

	var env envelope
	if json.Unmarshal(raw, &env) == nil && strings.TrimSpace(env.Message) != "" {
		return strings.TrimSpace(env.Message)
	}
	return http.StatusText(resp.StatusCode)
}
