package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rideadmin/pkg/models"
	"rideadmin/service"
)

// GET /api/notifications?type=booking_created&unread=true
func (h *Handler) listNotifications(c *gin.Context) {
	notes, err := h.svc.Notification().List(c.Request.Context(), service.NotificationFilter{
		Type:       models.NotificationType(c.Query("type")),
		UnreadOnly: c.Query("unread") == "true",
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func (h *Handler) notificationStats(c *gin.Context) {
	st, err := h.svc.Notification().Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) sendNotification(c *gin.Context) {
	var in service.NotificationInput
	if err := bindJSON(c, &in); err != nil {
		h.fail(c, err)
		return
	}
	n, err := h.svc.Notification().Send(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h *Handler) markNotificationRead(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	n, err := h.svc.Notification().MarkRead(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *Handler) markAllNotificationsRead(c *gin.Context) {
	marked, err := h.svc.Notification().MarkAllRead(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": marked})
}
