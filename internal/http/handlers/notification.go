package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/peerlink/peerlink-backend/internal/platform/ctxutil"
	"github.com/peerlink/peerlink-backend/internal/services"
)

type NotificationHandler struct {
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (nh *NotificationHandler) List(c *gin.Context) {
	listed, err := nh.notificationService.ListForUser(c.Request.Context(), ctxutil.UserID(c.Request.Context()))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"notifications": listed})
}

func (nh *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := nh.notificationService.CountUnread(c.Request.Context(), ctxutil.UserID(c.Request.Context()))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"unread": count})
}

func (nh *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	if err := nh.notificationService.MarkRead(c.Request.Context(), ctxutil.UserID(c.Request.Context()), notificationID); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}
