package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type notifyRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// SendNotification broadcasts a push message to every subscribed device.
// Unlike the CRUD handlers, delivery errors are logged but never surfaced to
// the caller.
func (h *Handler) SendNotification(c *gin.Context) {
	var req notifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.notifier.Send(c.Request.Context(), req.Title, req.Body)
	if err != nil {
		h.log.Error().Err(err).Msg("error sending notification")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Notification failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "response": id})
}
