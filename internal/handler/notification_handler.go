package handler

import (
	"context"

	"blood-bank-dashboard/internal/dashboard"
	"blood-bank-dashboard/internal/models"
	"blood-bank-dashboard/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationQueries interface {
	GetUnreadNotifications(ctx context.Context, userID string) ([]models.Notification, error)
}

// NotificationHandler works on the caller's own notifications only. The
// store scopes every write by user id, so a foreign id answers 404.
type NotificationHandler struct {
	views   *dashboard.Registry
	queries NotificationQueries
	logger  *zap.Logger
}

func NewNotificationHandler(views *dashboard.Registry, queries NotificationQueries, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{views: views, queries: queries, logger: logger}
}

func (h *NotificationHandler) view(c *gin.Context) *dashboard.NotificationsView {
	return h.views.Notifications(c.Request.Context(), userID(c))
}

// List returns the notification panel, or only the unread rows straight
// from the store when unread=true
func (h *NotificationHandler) List(c *gin.Context) {
	if c.Query("unread") == "true" {
		items, err := h.queries.GetUnreadNotifications(c.Request.Context(), userID(c))
		if err != nil {
			respondError(c, h.logger, err, "Failed to fetch notifications")
			return
		}
		if items == nil {
			items = []models.Notification{}
		}
		utils.SuccessResponse(c, gin.H{"items": items, "unread_count": len(items)})
		return
	}
	utils.SuccessResponse(c, h.view(c).Snapshot())
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	v := h.view(c)
	if err := v.MarkAsRead(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Failed to mark notification as read")
		return
	}
	utils.SuccessResponse(c, gin.H{"unread_count": v.UnreadCount()})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	v := h.view(c)
	if err := v.MarkAllAsRead(c.Request.Context()); err != nil {
		respondError(c, h.logger, err, "Failed to mark notifications as read")
		return
	}
	utils.SuccessResponse(c, gin.H{"unread_count": v.UnreadCount()})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	v := h.view(c)
	if err := v.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Failed to delete notification")
		return
	}
	utils.SuccessResponse(c, gin.H{"unread_count": v.UnreadCount()})
}

func (h *NotificationHandler) ClearAll(c *gin.Context) {
	if err := h.view(c).ClearAll(c.Request.Context()); err != nil {
		respondError(c, h.logger, err, "Failed to clear notifications")
		return
	}
	utils.MessageResponse(c, "Notifications cleared")
}
