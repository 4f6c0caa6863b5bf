package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/coffeeassessoria/sparkboard-automation/internal/store"
)

type NotificationHandler struct {
	sink   store.NotificationSink
	logger *zap.Logger
}

func NewNotificationHandler(sink store.NotificationSink, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{sink: sink, logger: logger}
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	notifications, err := h.sink.List(c.Request.Context())
	if err != nil {
		h.logger.Error("ListNotifications: failed to fetch notifications", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id := c.Param("id")

	ok, err := h.sink.MarkRead(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("MarkAsRead: failed to mark notification", zap.String("notification_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notification as read"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	id := c.Param("id")

	ok, err := h.sink.Delete(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("DeleteNotification: failed to delete notification", zap.String("notification_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete notification"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
