package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pgd-harmeet/shipstation-triggers/internal/interfaces/http/handler"
)

func RegisterRoutes(
	r *gin.Engine,
	webhookHandler *handler.WebhookHandler,
	noteHandler *handler.CustomerNoteHandler,
	healthHandler *handler.HealthHandler,
) {
	r.GET("/healthz", healthHandler.Health)

	api := r.Group("/api")
	{
		api.POST("/webhooks/shipstation", webhookHandler.ShipStation)

		api.GET("/customer-notes", noteHandler.Queue)
		api.POST("/customer-notes", noteHandler.Queue)
		api.POST("/customer-notes/apply", noteHandler.Apply)
	}
}
