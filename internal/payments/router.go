package payments

import (
	"github.com/gin-gonic/gin"
)

func SetupPaymentRoutes(router *gin.RouterGroup, controller Controller) {
	// The webhook is authenticated by signature, not by user token
	payments := router.Group("/payments")
	{
		payments.POST("/webhook", controller.HandleWebhook) // POST /api/v1/payments/webhook - Provider callbacks
	}
}
