package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/peerlink/peerlink-backend/internal/platform/ctxutil"
	"github.com/peerlink/peerlink-backend/internal/realtime"
)

type SSEHandler struct {
	hub *realtime.SSEHub
}

func NewSSEHandler(hub *realtime.SSEHub) *SSEHandler {
	return &SSEHandler{hub: hub}
}

// Stream opens the live subscription. Every client is subscribed to its own
// user channel, which is where notification and connection events land.
func (sh *SSEHandler) Stream(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	if userID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	client := sh.hub.NewSSEClient(userID)
	sh.hub.AddChannel(client, userID.String())
	defer sh.hub.CloseClient(client)

	sh.hub.ServeHTTP(c.Writer, c.Request, client)
}
