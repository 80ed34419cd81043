package app

import (
	"gorm.io/gorm"

	"github.com/peerlink/peerlink-backend/internal/platform/logger"
	"github.com/peerlink/peerlink-backend/internal/realtime"
	"github.com/peerlink/peerlink-backend/internal/realtime/bus"
	"github.com/peerlink/peerlink-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	User         services.UserService
	Matching     services.MatchingService
	Connection   services.ConnectionService
	Notification services.NotificationService
	Meeting      services.MeetingService
	Group        services.GroupService
	Chat         services.ChatService

	// Bus is non-nil when events fan out through Redis so multiple
	// instances share one stream.
	Bus bus.Bus
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, hub *realtime.SSEHub) (Services, error) {
	log.Info("Wiring services...")

	var emitter services.SSEEmitter = &services.HubEmitter{Hub: hub}
	var eventBus bus.Bus
	if cfg.RedisAddr != "" {
		b, err := bus.NewRedisBus(log)
		if err != nil {
			return Services{}, err
		}
		eventBus = b
		emitter = &services.RedisEmitter{Bus: b}
	}

	notification := services.NewNotificationService(db, log, r.Notification, emitter)
	connection := services.NewConnectionService(db, log, r.Connection, r.User, notification, emitter)

	return Services{
		Auth:         services.NewAuthService(db, log, r.User, r.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		User:         services.NewUserService(log, r.User),
		Matching:     services.NewMatchingService(log, r.User),
		Connection:   connection,
		Notification: notification,
		Meeting:      services.NewMeetingService(db, log, r.Meeting, r.Connection, notification, emitter),
		Group:        services.NewGroupService(db, log, r.Group, r.User, notification),
		Chat:         services.NewChatService(log, r.ChatMessage, r.Connection, r.Group, notification, emitter),
		Bus:          eventBus,
	}, nil
}
