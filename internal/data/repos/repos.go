package repos

import (
	"github.com/peerlink/peerlink-backend/internal/data/repos/auth"
	"github.com/peerlink/peerlink-backend/internal/data/repos/chat"
	"github.com/peerlink/peerlink-backend/internal/data/repos/connection"
	"github.com/peerlink/peerlink-backend/internal/data/repos/group"
	"github.com/peerlink/peerlink-backend/internal/data/repos/meeting"
	"github.com/peerlink/peerlink-backend/internal/data/repos/notification"
	"github.com/peerlink/peerlink-backend/internal/data/repos/user"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo
type ConnectionRepo = connection.ConnectionRepo
type NotificationRepo = notification.NotificationRepo
type MeetingRepo = meeting.MeetingRepo
type GroupRepo = group.GroupRepo
type ChatMessageRepo = chat.ChatMessageRepo

var (
	NewUserRepo         = user.NewUserRepo
	NewUserTokenRepo    = auth.NewUserTokenRepo
	NewConnectionRepo   = connection.NewConnectionRepo
	NewNotificationRepo = notification.NewNotificationRepo
	NewMeetingRepo      = meeting.NewMeetingRepo
	NewGroupRepo        = group.NewGroupRepo
	NewChatMessageRepo  = chat.NewChatMessageRepo
)
