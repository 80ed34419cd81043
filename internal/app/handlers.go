package app

import (
	"github.com/peerlink/peerlink-backend/internal/http/handlers"
	"github.com/peerlink/peerlink-backend/internal/platform/logger"
	"github.com/peerlink/peerlink-backend/internal/realtime"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Peers        *handlers.PeersHandler
	Connection   *handlers.ConnectionHandler
	Notification *handlers.NotificationHandler
	Meeting      *handlers.MeetingHandler
	Group        *handlers.GroupHandler
	Chat         *handlers.ChatHandler
	SSE          *handlers.SSEHandler
}

func wireHandlers(log *logger.Logger, s Services, hub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:         handlers.NewAuthHandler(s.Auth),
		User:         handlers.NewUserHandler(s.User),
		Peers:        handlers.NewPeersHandler(s.Matching),
		Connection:   handlers.NewConnectionHandler(s.Connection),
		Notification: handlers.NewNotificationHandler(s.Notification),
		Meeting:      handlers.NewMeetingHandler(s.Meeting),
		Group:        handlers.NewGroupHandler(s.Group),
		Chat:         handlers.NewChatHandler(s.Chat),
		SSE:          handlers.NewSSEHandler(hub),
	}
}
