package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shop-service/internal/service"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.stripe.com"

// Допустимый разбег между временем подписи и нашим временем.
const signatureTolerance = 5 * time.Minute

var (
	ErrBadSignatureHeader = errors.New("malformed signature header")
	ErrSignatureMismatch  = errors.New("signature mismatch")
	ErrSignatureExpired   = errors.New("signature timestamp outside tolerance")
)

type Config struct {
	SecretKey     string
	WebhookSecret string
	Currency      string // ISO код, например "usd"
	BaseURL       string // для тестов; пустой = боевой API
}

// StripeGateway создаёт checkout-сессии и проверяет подписи вебхуков
// по схеме "t=<ts>,v1=<hmac-sha256(ts.payload)>".
type StripeGateway struct {
	secretKey     string
	webhookSecret []byte
	currency      string
	baseURL       string
	httpClient    *http.Client
	log           *zap.Logger
	now           func() time.Time
}

func NewStripeGateway(cfg Config, log *zap.Logger) *StripeGateway {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "usd"
	}
	return &StripeGateway{
		secretKey:     cfg.SecretKey,
		webhookSecret: []byte(cfg.WebhookSecret),
		currency:      currency,
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{Timeout: 15 * time.Second},
		log:           log,
		now:           time.Now,
	}
}

type sessionResponse struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentIntent string `json:"payment_intent"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, in service.CreateSessionInput) (*service.CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", in.SuccessURL)
	form.Set("cancel_url", in.CancelURL)
	if in.CustomerEmail != "" {
		form.Set("customer_email", in.CustomerEmail)
	}
	if !in.ExpiresAt.IsZero() {
		form.Set("expires_at", strconv.FormatInt(in.ExpiresAt.Unix(), 10))
	}

	for i, li := range in.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", g.currency)
		form.Set(prefix+"[price_data][product_data][name]", li.Name)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(li.UnitAmountCents, 10))
		form.Set(prefix+"[quantity]", strconv.FormatInt(int64(li.Quantity), 10))
	}

	if in.ShippingFeeCents > 0 {
		form.Set("shipping_options[0][shipping_rate_data][type]", "fixed_amount")
		form.Set("shipping_options[0][shipping_rate_data][display_name]", "Shipping")
		form.Set("shipping_options[0][shipping_rate_data][fixed_amount][currency]", g.currency)
		form.Set("shipping_options[0][shipping_rate_data][fixed_amount][amount]", strconv.FormatInt(in.ShippingFeeCents, 10))
	}

	encoded, err := in.Metadata.Encode()
	if err != nil {
		return nil, err
	}
	form.Set("metadata["+service.MetadataKey+"]", encoded)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			g.log.Error("checkout session creation rejected",
				zap.Int("status", resp.StatusCode),
				zap.String("type", apiErr.Error.Type),
				zap.String("message", apiErr.Error.Message))
			return nil, fmt.Errorf("payment api: %s", apiErr.Error.Message)
		}
		return nil, fmt.Errorf("payment api: unexpected status %d", resp.StatusCode)
	}

	var sess sessionResponse
	if err := json.Unmarshal(body, &sess); err != nil {
		return nil, err
	}
	if sess.ID == "" || sess.URL == "" {
		return nil, errors.New("payment api: incomplete session response")
	}

	g.log.Info("checkout session created", zap.String("session_id", sess.ID))

	return &service.CheckoutSession{
		ID:              sess.ID,
		URL:             sess.URL,
		PaymentIntentID: sess.PaymentIntent,
	}, nil
}

type eventEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID            string            `json:"id"`
			PaymentIntent string            `json:"payment_intent"`
			Metadata      map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

func (g *StripeGateway) VerifyEvent(payload []byte, signatureHeader string) (*service.WebhookEvent, error) {
	ts, sigs, err := parseSignatureHeader(signatureHeader)
	if err != nil {
		return nil, err
	}

	age := g.now().Sub(time.Unix(ts, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return nil, ErrSignatureExpired
	}

	expected := ComputeSignature(g.webhookSecret, ts, payload)
	ok := false
	for _, s := range sigs {
		if hmac.Equal([]byte(s), []byte(expected)) {
			ok = true
			break
		}
	}
	if !ok {
		return nil, ErrSignatureMismatch
	}

	var ev eventEnvelope
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if ev.ID == "" || ev.Type == "" {
		return nil, errors.New("decode event: missing id or type")
	}

	return &service.WebhookEvent{
		ID:              ev.ID,
		Type:            ev.Type,
		SessionID:       ev.Data.Object.ID,
		PaymentIntentID: ev.Data.Object.PaymentIntent,
		Metadata:        ev.Data.Object.Metadata,
	}, nil
}

// parseSignatureHeader разбирает "t=1700000000,v1=abcdef...".
// Элементов v1 может быть несколько (ротация секрета).
func parseSignatureHeader(header string) (int64, []string, error) {
	var (
		ts   int64
		sigs []string
	)
	for _, part := range strings.Split(header, ",") {
		k, v, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch k {
		case "t":
			parsed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return 0, nil, ErrBadSignatureHeader
			}
			ts = parsed
		case "v1":
			sigs = append(sigs, v)
		}
	}
	if ts == 0 || len(sigs) == 0 {
		return 0, nil, ErrBadSignatureHeader
	}
	return ts, sigs, nil
}

// ComputeSignature считает hex(hmac-sha256("<ts>.<payload>")).
// Экспортирована для тестов и локальной генерации вебхуков.
func ComputeSignature(secret []byte, ts int64, payload []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
