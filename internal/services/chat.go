package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/peerlink/peerlink-backend/internal/data/repos"
	types "github.com/peerlink/peerlink-backend/internal/domain"
	"github.com/peerlink/peerlink-backend/internal/platform/apperr"
	"github.com/peerlink/peerlink-backend/internal/platform/dbctx"
	"github.com/peerlink/peerlink-backend/internal/platform/logger"
	"github.com/peerlink/peerlink-backend/internal/realtime"
)

const defaultChatPageSize = 50

// ChatService appends and lists messages on a channel. A channel id is
// either a connection id (direct chat) or a group id (group chat); the
// sender must participate in whichever one it names.
type ChatService interface {
	Send(ctx context.Context, senderID uuid.UUID, channelID, body string) (*types.ChatMessage, error)
	List(ctx context.Context, actorID uuid.UUID, channelID string, limit int) ([]*types.ChatMessage, error)
}

type chatService struct {
	log       *logger.Logger
	chatRepo  repos.ChatMessageRepo
	connRepo  repos.ConnectionRepo
	groupRepo repos.GroupRepo
	sink      NotificationSink
	emit      SSEEmitter
}

func NewChatService(log *logger.Logger, chatRepo repos.ChatMessageRepo, connRepo repos.ConnectionRepo, groupRepo repos.GroupRepo, sink NotificationSink, emit SSEEmitter) ChatService {
	return &chatService{
		log:       log.With("service", "ChatService"),
		chatRepo:  chatRepo,
		connRepo:  connRepo,
		groupRepo: groupRepo,
		sink:      sink,
		emit:      emit,
	}
}

func (cs *chatService) Send(ctx context.Context, senderID uuid.UUID, channelID, body string) (*types.ChatMessage, error) {
	const op = "Chat.Send"

	if senderID == uuid.Nil {
		return nil, apperr.Validation(op, "missing sender id")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperr.Validation(op, "message body is empty")
	}

	recipients, err := cs.channelRecipients(ctx, op, channelID, senderID)
	if err != nil {
		return nil, err
	}

	msg, err := cs.chatRepo.Create(dbctx.Context{Ctx: ctx}, &types.ChatMessage{
		ID:        uuid.New(),
		ChannelID: channelID,
		SenderID:  senderID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, apperr.Unavailable(op, err)
	}

	refs := types.NotificationRefs{ConnectionID: channelID}
	if groupID, err := uuid.Parse(channelID); err == nil {
		refs = types.NotificationRefs{GroupID: groupID}
	}
	preview := body
	if len(preview) > 80 {
		preview = preview[:80]
	}
	for _, recipientID := range recipients {
		if _, err := cs.sink.Emit(ctx, recipientID, types.NotificationNewMessage,
			"New Message", preview, refs); err != nil {
			cs.log.Warn("Failed to deliver chat notification",
				"channel_id", channelID, "recipient_id", recipientID, "error", err)
		}
		if cs.emit != nil {
			cs.emit.Emit(ctx, realtime.SSEMessage{
				Channel: recipientID.String(),
				Event:   realtime.SSEEventChatMessage,
				Data:    map[string]any{"message": msg},
			})
		}
	}
	return msg, nil
}

func (cs *chatService) List(ctx context.Context, actorID uuid.UUID, channelID string, limit int) ([]*types.ChatMessage, error) {
	const op = "Chat.List"

	if actorID == uuid.Nil {
		return nil, apperr.Validation(op, "missing user id")
	}
	if _, err := cs.channelRecipients(ctx, op, channelID, actorID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultChatPageSize
	}
	listed, err := cs.chatRepo.ListForChannel(dbctx.Context{Ctx: ctx}, channelID, limit)
	if err != nil {
		return nil, apperr.Unavailable(op, err)
	}
	return listed, nil
}

// channelRecipients resolves the channel, checks the actor belongs to it and
// returns the other members.
func (cs *chatService) channelRecipients(ctx context.Context, op string, channelID string, actorID uuid.UUID) ([]uuid.UUID, error) {
	if channelID == "" {
		return nil, apperr.Validation(op, "missing channel id")
	}
	dbc := dbctx.Context{Ctx: ctx}

	if groupID, err := uuid.Parse(channelID); err == nil {
		members, err := cs.groupRepo.Members(dbc, groupID)
		if err != nil {
			return nil, apperr.Unavailable(op, err)
		}
		if len(members) == 0 {
			return nil, apperr.NotFound(op, "channel not found")
		}
		recipients := make([]uuid.UUID, 0, len(members)-1)
		isMember := false
		for _, m := range members {
			if m.UserID == actorID {
				isMember = true
				continue
			}
			recipients = append(recipients, m.UserID)
		}
		if !isMember {
			return nil, apperr.Validation(op, "sender is not a member of this group")
		}
		return recipients, nil
	}

	conn, err := cs.connRepo.GetByID(dbc, channelID)
	if err != nil {
		return nil, apperr.Unavailable(op, err)
	}
	if conn == nil {
		return nil, apperr.NotFound(op, "channel not found")
	}
	if !conn.HasParticipant(actorID) {
		return nil, apperr.Validation(op, "sender is not a participant")
	}
	if conn.Status != types.ConnectionActive {
		return nil, apperr.Conflict(op, "chat requires an active connection")
	}
	return []uuid.UUID{conn.PeerOf(actorID)}, nil
}
