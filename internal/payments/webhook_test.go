package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v79"
)

const testWebhookSecret = "whsec_test_secret"

type recordingService struct {
	events []stripe.Event
}

func (r *recordingService) HandleEvent(ctx context.Context, event stripe.Event) error {
	r.events = append(r.events, event)
	return nil
}

func newWebhookRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupPaymentRoutes(router.Group("/api/v1"), NewController(svc, testWebhookSecret))
	return router
}

// signPayload builds a Stripe-Signature header the same way the processor
// does: v1 is an HMAC-SHA256 of "<timestamp>.<payload>".
func signPayload(payload []byte, secret string, at time.Time) string {
	ts := fmt.Sprintf("%d", at.Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts + "."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestWebhookAcceptsSignedEvent(t *testing.T) {
	svc := &recordingService{}
	router := newWebhookRouter(svc)

	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_123"}}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signPayload(payload, testWebhookSecret, time.Now()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if len(svc.events) != 1 {
		t.Fatalf("handled events = %d, want 1", len(svc.events))
	}
	if svc.events[0].Type != "payment_intent.succeeded" {
		t.Errorf("event type = %q", svc.events[0].Type)
	}
}

func TestWebhookAcceptsOtherAPIVersions(t *testing.T) {
	svc := &recordingService{}
	router := newWebhookRouter(svc)

	// The account's API version rides along in the event; a mismatch with
	// the SDK's pinned version must not reject a correctly signed payload.
	payload := []byte(`{"id":"evt_2","api_version":"2023-10-16","type":"payment_intent.succeeded","data":{"object":{"id":"pi_456"}}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signPayload(payload, testWebhookSecret, time.Now()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if len(svc.events) != 1 {
		t.Fatalf("handled events = %d, want 1", len(svc.events))
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	svc := &recordingService{}
	router := newWebhookRouter(svc)

	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_123"}}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signPayload(payload, "whsec_wrong_secret", time.Now()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if len(svc.events) != 0 {
		t.Error("unverified payloads must never reach the service")
	}
}

func TestWebhookRejectsTamperedPayload(t *testing.T) {
	svc := &recordingService{}
	router := newWebhookRouter(svc)

	signed := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_123"}}}`)
	tampered := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_999"}}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(tampered))
	req.Header.Set("Stripe-Signature", signPayload(signed, testWebhookSecret, time.Now()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if len(svc.events) != 0 {
		t.Error("tampered payloads must never reach the service")
	}
}

func TestWebhookRejectsStaleTimestamp(t *testing.T) {
	svc := &recordingService{}
	router := newWebhookRouter(svc)

	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_123"}}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signPayload(payload, testWebhookSecret, time.Now().Add(-time.Hour)))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
