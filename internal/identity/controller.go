package identity

import (
	"encoding/json"
	"io"
	"net/http"

	"quickshow/internal/shared/utils/response"
	"quickshow/pkg/logger"

	"github.com/gin-gonic/gin"
	svix "github.com/svix/svix-webhooks/go"
)

// Verifier checks an inbound webhook's signature against the shared secret.
type Verifier interface {
	Verify(payload []byte, headers http.Header) error
}

// NewSvixVerifier builds the production verifier for provider-delivered
// lifecycle webhooks (Svix transport).
func NewSvixVerifier(secret string) (Verifier, error) {
	return svix.NewWebhook(secret)
}

type Controller struct {
	service  Service
	verifier Verifier
}

func NewController(service Service, verifier Verifier) *Controller {
	return &Controller{service: service, verifier: verifier}
}

// HandleWebhook handles POST /api/v1/identity/webhook
func (c *Controller) HandleWebhook(ctx *gin.Context) {
	appLogger := logger.GetDefault()

	payload, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := c.verifier.Verify(payload, ctx.Request.Header); err != nil {
		appLogger.LogWebhookRejected(ctx.Request.Context(), "identity", err.Error(), ctx.ClientIP())
		response.Error(ctx, http.StatusBadRequest, "webhook signature verification failed")
		return
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		response.Error(ctx, http.StatusBadRequest, "invalid event payload")
		return
	}

	if err := c.service.HandleEvent(ctx.Request.Context(), event); err != nil {
		response.Error(ctx, http.StatusInternalServerError, err.Error())
		return
	}

	response.OK(ctx, http.StatusOK, "event processed", nil)
}
