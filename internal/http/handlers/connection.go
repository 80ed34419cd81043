package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/peerlink/peerlink-backend/internal/platform/ctxutil"
	"github.com/peerlink/peerlink-backend/internal/services"
)

type ConnectionHandler struct {
	connectionService services.ConnectionService
}

func NewConnectionHandler(connectionService services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connectionService: connectionService}
}

func (ch *ConnectionHandler) Request(c *gin.Context) {
	var req struct {
		TargetID uuid.UUID `json:"target_id"`
		Message  string    `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	conn, err := ch.connectionService.Request(c.Request.Context(), ctxutil.UserID(c.Request.Context()), req.TargetID, req.Message)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"connection": conn})
}

func (ch *ConnectionHandler) Accept(c *gin.Context) {
	conn, err := ch.connectionService.Accept(c.Request.Context(), c.Param("id"), ctxutil.UserID(c.Request.Context()))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"connection": conn})
}

func (ch *ConnectionHandler) Reject(c *gin.Context) {
	if err := ch.connectionService.Reject(c.Request.Context(), c.Param("id"), ctxutil.UserID(c.Request.Context())); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (ch *ConnectionHandler) Remove(c *gin.Context) {
	if err := ch.connectionService.Remove(c.Request.Context(), c.Param("id"), ctxutil.UserID(c.Request.Context())); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (ch *ConnectionHandler) List(c *gin.Context) {
	conns, err := ch.connectionService.ListForUser(c.Request.Context(), ctxutil.UserID(c.Request.Context()))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"connections": conns})
}
