package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/peerlink/peerlink-backend/internal/http/handlers"
	"github.com/peerlink/peerlink-backend/internal/http/middleware"
)

type RouterConfig struct {
	AllowOrigins []string

	AuthMiddleware *middleware.AuthMiddleware

	AuthHandler         *handlers.AuthHandler
	UserHandler         *handlers.UserHandler
	PeersHandler        *handlers.PeersHandler
	ConnectionHandler   *handlers.ConnectionHandler
	NotificationHandler *handlers.NotificationHandler
	MeetingHandler      *handlers.MeetingHandler
	GroupHandler        *handlers.GroupHandler
	ChatHandler         *handlers.ChatHandler
	SSEHandler          *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.POST("/refresh", cfg.AuthHandler.Refresh)

	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	protected.POST("/logout", cfg.AuthHandler.Logout)

	protected.GET("/sse/stream", cfg.SSEHandler.Stream)

	protected.GET("/user", cfg.UserHandler.GetMe)
	protected.PUT("/user/profile", cfg.UserHandler.UpdateProfile)
	protected.GET("/users/:id", cfg.UserHandler.GetByID)

	protected.GET("/peers", cfg.PeersHandler.Find)

	protected.GET("/connections", cfg.ConnectionHandler.List)
	protected.POST("/connections", cfg.ConnectionHandler.Request)
	protected.POST("/connections/:id/accept", cfg.ConnectionHandler.Accept)
	protected.POST("/connections/:id/reject", cfg.ConnectionHandler.Reject)
	protected.DELETE("/connections/:id", cfg.ConnectionHandler.Remove)
	protected.GET("/connections/:id/meetings", cfg.MeetingHandler.ListForConnection)

	protected.GET("/notifications", cfg.NotificationHandler.List)
	protected.GET("/notifications/unread", cfg.NotificationHandler.UnreadCount)
	protected.POST("/notifications/:id/read", cfg.NotificationHandler.MarkRead)

	protected.GET("/meetings", cfg.MeetingHandler.List)
	protected.POST("/meetings", cfg.MeetingHandler.Schedule)
	protected.POST("/meetings/:id/accept", cfg.MeetingHandler.Accept)
	protected.POST("/meetings/:id/reject", cfg.MeetingHandler.Reject)
	protected.POST("/meetings/:id/cancel", cfg.MeetingHandler.Cancel)

	protected.GET("/groups", cfg.GroupHandler.List)
	protected.POST("/groups", cfg.GroupHandler.Create)
	protected.GET("/groups/:id/members", cfg.GroupHandler.Members)
	protected.POST("/groups/:id/members", cfg.GroupHandler.AddMembers)

	protected.GET("/chat/:channel/messages", cfg.ChatHandler.List)
	protected.POST("/chat/:channel/messages", cfg.ChatHandler.Send)

	return router
}

// SplitOrigins parses a comma separated origin list from the environment.
func SplitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
