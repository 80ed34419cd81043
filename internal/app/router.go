package app

import (
	"github.com/gin-gonic/gin"

	"github.com/peerlink/peerlink-backend/internal/server"
)

func wireRouter(cfg Config, h Handlers, m Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AllowOrigins:        server.SplitOrigins(cfg.AllowOrigins),
		AuthMiddleware:      m.Auth,
		AuthHandler:         h.Auth,
		UserHandler:         h.User,
		PeersHandler:        h.Peers,
		ConnectionHandler:   h.Connection,
		NotificationHandler: h.Notification,
		MeetingHandler:      h.Meeting,
		GroupHandler:        h.Group,
		ChatHandler:         h.Chat,
		SSEHandler:          h.SSE,
	})
}
