package app

import (
	"gorm.io/gorm"

	"github.com/peerlink/peerlink-backend/internal/data/repos"
	"github.com/peerlink/peerlink-backend/internal/platform/logger"
)

type Repos struct {
	User         repos.UserRepo
	UserToken    repos.UserTokenRepo
	Connection   repos.ConnectionRepo
	Notification repos.NotificationRepo
	Meeting      repos.MeetingRepo
	Group        repos.GroupRepo
	ChatMessage  repos.ChatMessageRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:         repos.NewUserRepo(db, log),
		UserToken:    repos.NewUserTokenRepo(db, log),
		Connection:   repos.NewConnectionRepo(db, log),
		Notification: repos.NewNotificationRepo(db, log),
		Meeting:      repos.NewMeetingRepo(db, log),
		Group:        repos.NewGroupRepo(db, log),
		ChatMessage:  repos.NewChatMessageRepo(db, log),
	}
}
