package payments_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"shop-service/internal/payments"
	"shop-service/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const testSecret = "whsec_test"

func newGateway(baseURL string) *payments.StripeGateway {
	return payments.NewStripeGateway(payments.Config{
		SecretKey:     "sk_test",
		WebhookSecret: testSecret,
		Currency:      "usd",
		BaseURL:       baseURL,
	}, zap.NewNop())
}

func signedHeader(ts int64, payload []byte) string {
	sig := payments.ComputeSignature([]byte(testSecret), ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, sig)
}

func eventPayload(id, typ, sessionID string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"type": %q,
		"data": {"object": {"id": %q, "payment_intent": "pi_1", "metadata": {"order": "{}"}}}
	}`, id, typ, sessionID))
}

func TestVerifyEvent_ValidSignature(t *testing.T) {
	g := newGateway("")
	payload := eventPayload("evt_1", "checkout.session.completed", "cs_1")

	ev, err := g.VerifyEvent(payload, signedHeader(time.Now().Unix(), payload))
	if err != nil {
		t.Fatalf("VerifyEvent: %v", err)
	}
	if ev.ID != "evt_1" || ev.Type != "checkout.session.completed" || ev.SessionID != "cs_1" {
		t.Fatalf("event mismatch: %+v", ev)
	}
	if ev.PaymentIntentID != "pi_1" || ev.Metadata["order"] != "{}" {
		t.Fatalf("event payload mismatch: %+v", ev)
	}
}

func TestVerifyEvent_WrongSecret(t *testing.T) {
	g := newGateway("")
	payload := eventPayload("evt_1", "checkout.session.completed", "cs_1")

	ts := time.Now().Unix()
	sig := payments.ComputeSignature([]byte("whsec_other"), ts, payload)
	_, err := g.VerifyEvent(payload, fmt.Sprintf("t=%d,v1=%s", ts, sig))
	if err == nil {
		t.Fatal("expected signature mismatch")
	}
}

func TestVerifyEvent_TamperedPayload(t *testing.T) {
	g := newGateway("")
	payload := eventPayload("evt_1", "checkout.session.completed", "cs_1")
	header := signedHeader(time.Now().Unix(), payload)

	tampered := eventPayload("evt_1", "checkout.session.completed", "cs_ATTACKER")
	if _, err := g.VerifyEvent(tampered, header); err == nil {
		t.Fatal("tampered payload must not verify")
	}
}

func TestVerifyEvent_StaleTimestamp(t *testing.T) {
	g := newGateway("")
	payload := eventPayload("evt_1", "checkout.session.completed", "cs_1")

	stale := time.Now().Add(-time.Hour).Unix()
	if _, err := g.VerifyEvent(payload, signedHeader(stale, payload)); err == nil {
		t.Fatal("stale signature must not verify")
	}
}

func TestVerifyEvent_MalformedHeader(t *testing.T) {
	g := newGateway("")
	payload := eventPayload("evt_1", "checkout.session.completed", "cs_1")

	for _, header := range []string{"", "garbage", "t=abc,v1=def", "v1=onlysig"} {
		if _, err := g.VerifyEvent(payload, header); err == nil {
			t.Fatalf("header %q must not verify", header)
		}
	}
}

func TestCreateCheckoutSession_RequestShape(t *testing.T) {
	var form url.Values
	var authz string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		authz = r.Header.Get("Authorization")
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		form = r.PostForm
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":             "cs_test_1",
			"url":            "https://pay.example/cs_test_1",
			"payment_intent": "pi_test_1",
		})
	}))
	defer srv.Close()

	g := newGateway(srv.URL)
	sess, err := g.CreateCheckoutSession(context.Background(), service.CreateSessionInput{
		LineItems: []service.LineItem{
			{Name: "Sofa", UnitAmountCents: 2599, Quantity: 2},
		},
		Metadata: service.SessionMetadata{
			SchemaVersion: service.MetadataSchemaVersion,
			UserID:        uuid.New(),
			Items:         []service.MetadataItem{{ProductID: uuid.New(), Quantity: 2}},
		},
		CustomerEmail:    "a@b.c",
		SuccessURL:       "https://shop.example/ok",
		CancelURL:        "https://shop.example/cancel",
		ExpiresAt:        time.Now().Add(3 * time.Hour),
		ShippingFeeCents: 500,
	})
	if err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}

	if sess.ID != "cs_test_1" || sess.URL != "https://pay.example/cs_test_1" || sess.PaymentIntentID != "pi_test_1" {
		t.Fatalf("session mismatch: %+v", sess)
	}
	if authz != "Bearer sk_test" {
		t.Fatalf("authorization mismatch: %q", authz)
	}
	if got := form.Get("mode"); got != "payment" {
		t.Fatalf("mode mismatch: %q", got)
	}
	if got := form.Get("line_items[0][price_data][unit_amount]"); got != "2599" {
		t.Fatalf("unit_amount mismatch: %q", got)
	}
	if got := form.Get("line_items[0][quantity]"); got != "2" {
		t.Fatalf("quantity mismatch: %q", got)
	}
	if got := form.Get("shipping_options[0][shipping_rate_data][fixed_amount][amount]"); got != "500" {
		t.Fatalf("shipping amount mismatch: %q", got)
	}
	if got := form.Get("metadata[order]"); got == "" {
		t.Fatal("metadata must be present")
	}
	if got := form.Get("customer_email"); got != "a@b.c" {
		t.Fatalf("customer_email mismatch: %q", got)
	}
}

func TestCreateCheckoutSession_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"type": "invalid_request_error", "message": "amount too small"}}`))
	}))
	defer srv.Close()

	g := newGateway(srv.URL)
	_, err := g.CreateCheckoutSession(context.Background(), service.CreateSessionInput{
		LineItems: []service.LineItem{{Name: "Sofa", UnitAmountCents: 1, Quantity: 1}},
		Metadata: service.SessionMetadata{
			SchemaVersion: service.MetadataSchemaVersion,
			UserID:        uuid.New(),
			Items:         []service.MetadataItem{{ProductID: uuid.New(), Quantity: 1}},
		},
	})
	if err == nil {
		t.Fatal("expected api error")
	}
}
