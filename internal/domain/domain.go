package domain

import (
	"github.com/peerlink/peerlink-backend/internal/domain/chat"
	"github.com/peerlink/peerlink-backend/internal/domain/connection"
	"github.com/peerlink/peerlink-backend/internal/domain/group"
	"github.com/peerlink/peerlink-backend/internal/domain/meeting"
	"github.com/peerlink/peerlink-backend/internal/domain/notification"
	"github.com/peerlink/peerlink-backend/internal/domain/user"
)

type (
	User      = user.User
	UserToken = user.UserToken

	Connection       = connection.Connection
	ConnectionStatus = connection.Status

	Notification      = notification.Notification
	NotificationType  = notification.Type
	NotificationRefs  = notification.Refs

	Meeting       = meeting.Meeting
	MeetingStatus = meeting.Status
	MeetingType   = meeting.Type

	Group       = group.Group
	GroupMember = group.GroupMember

	ChatMessage = chat.Message
)

const (
	ConnectionPending  = connection.StatusPending
	ConnectionActive   = connection.StatusActive
	ConnectionRejected = connection.StatusRejected

	NotificationConnectionRequest  = notification.TypeConnectionRequest
	NotificationConnectionAccepted = notification.TypeConnectionAccepted
	NotificationMeetingScheduled   = notification.TypeMeetingScheduled
	NotificationMeetingAccepted    = notification.TypeMeetingAccepted
	NotificationMeetingRejected    = notification.TypeMeetingRejected
	NotificationNewMessage         = notification.TypeNewMessage
	NotificationGroupInvite        = notification.TypeGroupInvite

	MeetingPending   = meeting.StatusPending
	MeetingAccepted  = meeting.StatusAccepted
	MeetingRejected  = meeting.StatusRejected
	MeetingCompleted = meeting.StatusCompleted
	MeetingCancelled = meeting.StatusCancelled

	MeetingVideo    = meeting.TypeVideo
	MeetingInPerson = meeting.TypeInPerson
	MeetingText     = meeting.TypeText
)

// ConnectionPairID re-exports the deterministic pair id derivation.
var (
	ConnectionPairID   = connection.PairID
	ConnectionSortPair = connection.SortPair
)
