package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/peerlink/peerlink-backend/internal/data/repos"
	types "github.com/peerlink/peerlink-backend/internal/domain"
	"github.com/peerlink/peerlink-backend/internal/platform/apperr"
	"github.com/peerlink/peerlink-backend/internal/platform/dbctx"
	"github.com/peerlink/peerlink-backend/internal/platform/logger"
	"github.com/peerlink/peerlink-backend/internal/realtime"
)

// NotificationSink is the narrow surface other services emit through. The
// record write is the durable part; the SSE broadcast rides along
// best-effort.
type NotificationSink interface {
	Emit(ctx context.Context, recipientID uuid.UUID, notifType types.NotificationType, title, body string, refs types.NotificationRefs) (uuid.UUID, error)
}

type NotificationService interface {
	NotificationSink
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
}

type notificationService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.NotificationRepo
	emit SSEEmitter
}

func NewNotificationService(db *gorm.DB, log *logger.Logger, repo repos.NotificationRepo, emit SSEEmitter) NotificationService {
	return &notificationService{
		db:   db,
		log:  log.With("service", "NotificationService"),
		repo: repo,
		emit: emit,
	}
}

func (ns *notificationService) Emit(ctx context.Context, recipientID uuid.UUID, notifType types.NotificationType, title, body string, refs types.NotificationRefs) (uuid.UUID, error) {
	const op = "Notification.Emit"
	if recipientID == uuid.Nil {
		return uuid.Nil, apperr.Validation(op, "missing recipient id")
	}
	if notifType == "" {
		return uuid.Nil, apperr.Validation(op, "missing notification type")
	}

	notif := &types.Notification{
		ID:           uuid.New(),
		RecipientID:  recipientID,
		Type:         notifType,
		Title:        title,
		Body:         body,
		ConnectionID: refs.ConnectionID,
		CreatedAt:    time.Now().UTC(),
	}
	if refs.MeetingID != uuid.Nil {
		id := refs.MeetingID
		notif.MeetingID = &id
	}
	if refs.GroupID != uuid.Nil {
		id := refs.GroupID
		notif.GroupID = &id
	}

	if _, err := ns.repo.Create(dbctx.Context{Ctx: ctx}, notif); err != nil {
		return uuid.Nil, apperr.Unavailable(op, err)
	}

	if ns.emit != nil {
		ns.emit.Emit(ctx, realtime.SSEMessage{
			Channel: recipientID.String(),
			Event:   realtime.SSEEventNotificationCreated,
			Data:    map[string]any{"notification": notif},
		})
	}
	return notif.ID, nil
}

func (ns *notificationService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Notification, error) {
	const op = "Notification.ListForUser"
	if userID == uuid.Nil {
		return nil, apperr.Validation(op, "missing user id")
	}
	listed, err := ns.repo.ListForRecipient(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, apperr.Unavailable(op, err)
	}
	return listed, nil
}

func (ns *notificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	const op = "Notification.CountUnread"
	if userID == uuid.Nil {
		return 0, apperr.Validation(op, "missing user id")
	}
	count, err := ns.repo.CountUnread(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return 0, apperr.Unavailable(op, err)
	}
	return count, nil
}

func (ns *notificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	const op = "Notification.MarkRead"
	if userID == uuid.Nil || notificationID == uuid.Nil {
		return apperr.Validation(op, "missing id")
	}
	ok, err := ns.repo.MarkRead(dbctx.Context{Ctx: ctx}, notificationID, userID)
	if err != nil {
		return apperr.Unavailable(op, err)
	}
	if !ok {
		return apperr.NotFound(op, "notification not found")
	}
	return nil
}
