package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pgd-harmeet/shipstation-triggers/internal/application/eagle"
	"github.com/pgd-harmeet/shipstation-triggers/internal/domain/shipment"
)

type ShipNotifyQueuer interface {
	QueueShipNotify(ctx context.Context, hook shipment.Webhook) (string, error)
}

type WebhookHandler struct {
	svc ShipNotifyQueuer
}

func NewWebhookHandler(svc ShipNotifyQueuer) *WebhookHandler {
	return &WebhookHandler{svc: svc}
}

// ShipStation receives the SHIP_NOTIFY webhook and queues the resource URL.
func (h *WebhookHandler) ShipStation(c *gin.Context) {
	var hook shipment.Webhook
	if err := c.ShouldBindJSON(&hook); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if hook.ResourceURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resource_url is required"})
		return
	}

	queued, err := h.svc.QueueShipNotify(c.Request.Context(), hook)
	if err != nil {
		_ = c.Error(err)
		status := http.StatusBadGateway
		if errors.Is(err, eagle.ErrNotShipNotify) || errors.Is(err, eagle.ErrInvalidResource) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"resource_url": queued,
		"message":      "Successfully queued this resource URL",
	})
}
