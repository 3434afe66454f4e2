package identity

import "github.com/gin-gonic/gin"

// SetupIdentityRoutes configures the identity lifecycle webhook route.
// The endpoint is unauthenticated; the Svix signature is the auth.
func SetupIdentityRoutes(rg *gin.RouterGroup, controller *Controller) {
	identity := rg.Group("/identity")
	{
		identity.POST("/webhook", controller.HandleWebhook)
	}
}
