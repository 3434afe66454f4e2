package payments

import "github.com/gin-gonic/gin"

// SetupPaymentRoutes configures the payment processor webhook route.
// Unauthenticated; the signature header is the auth.
func SetupPaymentRoutes(rg *gin.RouterGroup, controller *Controller) {
	payments := rg.Group("/payments")
	{
		payments.POST("/webhook", controller.HandleWebhook)
	}
}
