package payments

import (
	"github.com/gin-gonic/gin"
)

// SetupPaymentRoutes configures the payment authorization and webhook routes
func SetupPaymentRoutes(rg *gin.RouterGroup, controller *Controller) {
	rg.POST("/payment-authorizations", controller.CreateAuthorization) // POST /api/v1/payment-authorizations

	webhooks := rg.Group("/webhooks")
	{
		webhooks.POST("/payment", controller.HandleWebhook) // POST /api/v1/webhooks/payment
	}
}
