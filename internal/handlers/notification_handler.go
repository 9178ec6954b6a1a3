package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/internal/models"
	"marketplace-service/internal/services"
)

// NotificationHandler exposes the in-app notification endpoints.
type NotificationHandler struct {
	notifications services.NotificationService
}

func NewNotificationHandler(notifications services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// ListNotifications godoc
// @Summary List the caller's notifications
// @Tags notifications
// @Produce json
// @Param unreadOnly query bool false "Only unread"
// @Success 200 {object} map[string]interface{}
// @Router /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, _, ok := principal(c)
	if !ok {
		return
	}
	page, limit := pageParams(c)
	unreadOnly := c.Query("unreadOnly") == "true"

	notifications, total, err := h.notifications.ListUserNotifications(userID, unreadOnly, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"pagination":    models.NewPaginationInfo(page, limit, total),
	})
}

// UnreadCount returns the caller's unread notification count.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, _, ok := principal(c)
	if !ok {
		return
	}

	count, err := h.notifications.UnreadCount(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.UnreadCountResponse{UnreadCount: count})
}

// MarkRead marks one notification read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, _, ok := principal(c)
	if !ok {
		return
	}
	notificationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(userID, notificationID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAllRead marks every unread notification of the caller read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, _, ok := principal(c)
	if !ok {
		return
	}

	if err := h.notifications.MarkAllRead(userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteNotification removes one notification of the caller.
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID, _, ok := principal(c)
	if !ok {
		return
	}
	notificationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.notifications.Delete(userID, notificationID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
