package identity

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeVerifier struct {
	err error
}

func (f fakeVerifier) Verify(payload []byte, headers http.Header) error {
	return f.err
}

func newWebhookRouter(verifier Verifier, repo *fakeUserRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupIdentityRoutes(router.Group("/api/v1"), NewController(NewService(repo), verifier))
	return router
}

func TestWebhookAppliesVerifiedEvent(t *testing.T) {
	repo := newFakeUserRepo()
	router := newWebhookRouter(fakeVerifier{}, repo)

	payload := []byte(`{
		"type": "user.created",
		"data": {
			"id": "user_abc",
			"first_name": "Ada",
			"last_name": "Lovelace",
			"email_addresses": [{"email_address": "ada@example.com"}],
			"image_url": "https://img.example.com/ada.png"
		}
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/identity/webhook", bytes.NewReader(payload))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if repo.users["user_abc"] == nil {
		t.Error("verified event must reach the user mirror")
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	repo := newFakeUserRepo()
	router := newWebhookRouter(fakeVerifier{err: errors.New("no matching signature")}, repo)

	payload := []byte(`{"type":"user.created","data":{"id":"user_abc"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/identity/webhook", bytes.NewReader(payload))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if len(repo.users) != 0 {
		t.Error("unverified payloads must never reach the service")
	}
}

func TestWebhookRejectsMalformedPayload(t *testing.T) {
	router := newWebhookRouter(fakeVerifier{}, newFakeUserRepo())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/identity/webhook", bytes.NewReader([]byte("{not json")))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
