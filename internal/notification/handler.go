package notification

import (
	"net/http"

	"docuvault/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the notification log
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// List returns the caller's most recent notifications.
func (h *Handler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)

	notifications, err := h.service.ListRecent(c.Request.Context(), claims.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkAllRead flags every unread notification of the caller as read.
func (h *Handler) MarkAllRead(c *gin.Context) {
	claims := middleware.GetClaims(c)

	if err := h.service.MarkAllRead(c.Request.Context(), claims.UserID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}
