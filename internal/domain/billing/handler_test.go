package billing_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/listify/listify-api/internal/pkg/stripe"
)

func TestStripeWebhookEndpoint(t *testing.T) {
	f := newFixture()
	handler := newBillingHandler(f)

	payload, sig := signedCheckoutEvent(t, f.userID, 60, "pi_http_1", testSecret)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", sig)
	rec := httptest.NewRecorder()
	handler.StripeWebhook(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if f.purchaser.total() != 60 {
		t.Errorf("expected 60 credits, got %d", f.purchaser.total())
	}
}

func TestStripeWebhookEndpointRejectsBadSignature(t *testing.T) {
	f := newFixture()
	handler := newBillingHandler(f)

	payload := []byte(`{"id":"evt_x","type":"checkout.session.completed","data":{"object":{}}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", stripe.SignPayload(payload, "whsec_wrong", time.Now()))
	rec := httptest.NewRecorder()
	handler.StripeWebhook(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if f.purchaser.calls != 0 {
		t.Error("no credits should move on rejected webhook")
	}
}

func TestListPackagesEndpoint(t *testing.T) {
	f := newFixture()
	handler := newBillingHandler(f)

	rec := httptest.NewRecorder()
	handler.ListPackages(rec, httptest.NewRequest(http.MethodGet, "/billing/packages", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, id := range []string{"starter", "popular", "pro"} {
		if !bytes.Contains([]byte(body), []byte(id)) {
			t.Errorf("package %q missing from response: %s", id, body)
		}
	}
}
