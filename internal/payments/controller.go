package payments

import (
	"net/http"

	"quickshow/internal/shared/utils/response"
	"quickshow/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v79/webhook"
)

type Controller struct {
	service       Service
	webhookSecret string
}

func NewController(service Service, webhookSecret string) *Controller {
	return &Controller{service: service, webhookSecret: webhookSecret}
}

// HandleWebhook handles POST /api/v1/payments/webhook.
//
// The raw body must be verified against the signature header before any
// parsing; a rebuilt body would not match.
func (ctrl *Controller) HandleWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "failed to read request body")
		return
	}

	// Dashboard-configured endpoints deliver with the account's API
	// version, which need not match the SDK's pinned one; only the
	// signature and timestamp decide whether the payload is trusted.
	event, err := webhook.ConstructEventWithOptions(payload, c.GetHeader("Stripe-Signature"), ctrl.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
		Tolerance:                webhook.DefaultTolerance,
	})
	if err != nil {
		logger.GetDefault().LogWebhookRejected(c.Request.Context(), "stripe", err.Error(), c.ClientIP())
		response.Error(c, http.StatusBadRequest, "invalid signature")
		return
	}

	if err := ctrl.service.HandleEvent(c.Request.Context(), event); err != nil {
		// Non-2xx makes the processor redeliver; the paid transition is
		// idempotent so replays are safe.
		logger.GetDefault().WithError(err).Error("failed to process payment event", "event_id", event.ID)
		response.Error(c, http.StatusInternalServerError, "failed to process event")
		return
	}

	response.OK(c, http.StatusOK, "received", nil)
}
