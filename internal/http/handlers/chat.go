package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/peerlink/peerlink-backend/internal/platform/ctxutil"
	"github.com/peerlink/peerlink-backend/internal/services"
)

type ChatHandler struct {
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (ch *ChatHandler) Send(c *gin.Context) {
	var req struct {
		Body string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	msg, err := ch.chatService.Send(c.Request.Context(), ctxutil.UserID(c.Request.Context()), c.Param("channel"), req.Body)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"message": msg})
}

func (ch *ChatHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	listed, err := ch.chatService.List(c.Request.Context(), ctxutil.UserID(c.Request.Context()), c.Param("channel"), limit)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"messages": listed})
}
