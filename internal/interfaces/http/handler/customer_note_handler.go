package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pgd-harmeet/shipstation-triggers/internal/application/customernote"
)

type CustomerNoteService interface {
	QueueNote(ctx context.Context, orderNumber string) error
	AddNote(ctx context.Context, orderNumber string) (int, error)
}

type CustomerNoteHandler struct {
	svc CustomerNoteService
}

func NewCustomerNoteHandler(svc CustomerNoteService) *CustomerNoteHandler {
	return &CustomerNoteHandler{svc: svc}
}

// Queue defers the WSI note for ?orderNumber= to the worker.
func (h *CustomerNoteHandler) Queue(c *gin.Context) {
	orderNumber := c.Query("orderNumber")

	if err := h.svc.QueueNote(c.Request.Context(), orderNumber); err != nil {
		_ = c.Error(err)
		status := http.StatusBadGateway
		if errors.Is(err, customernote.ErrMissingOrderNumber) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": "Could not queue " + orderNumber})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_number": orderNumber,
		"message":      "Successfully queued " + orderNumber,
	})
}

// Apply adds the WSI note for ?orderNumber= before responding.
func (h *CustomerNoteHandler) Apply(c *gin.Context) {
	orderNumber := c.Query("orderNumber")

	n, err := h.svc.AddNote(c.Request.Context(), orderNumber)
	if err != nil {
		_ = c.Error(err)
		switch {
		case errors.Is(err, customernote.ErrMissingOrderNumber),
			errors.Is(err, customernote.ErrTagNotFound),
			errors.Is(err, customernote.ErrNoOrders),
			errors.Is(err, customernote.ErrNoTaggedOrders):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{
				"error":   "There was an issue adding a note to one of the orders",
				"updated": n,
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_number": orderNumber,
		"updated":      n,
		"message":      "Successfully added note",
	})
}
