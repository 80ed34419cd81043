package notification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/peerlink/peerlink-backend/internal/domain"
	"github.com/peerlink/peerlink-backend/internal/platform/dbctx"
	"github.com/peerlink/peerlink-backend/internal/platform/logger"
)

type NotificationRepo interface {
	Create(dbc dbctx.Context, notif *types.Notification) (*types.Notification, error)
	ListForRecipient(dbc dbctx.Context, recipientID uuid.UUID) ([]*types.Notification, error)
	CountUnread(dbc dbctx.Context, recipientID uuid.UUID) (int64, error)
	// MarkRead flips read to true; notifications are never otherwise mutated.
	MarkRead(dbc dbctx.Context, id uuid.UUID, recipientID uuid.UUID) (bool, error)
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return &notificationRepo{db: db, log: baseLog.With("repo", "NotificationRepo")}
}

func (r *notificationRepo) base(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *notificationRepo) Create(dbc dbctx.Context, notif *types.Notification) (*types.Notification, error) {
	if notif == nil {
		return nil, nil
	}
	if err := r.base(dbc).Create(notif).Error; err != nil {
		return nil, err
	}
	return notif, nil
}

func (r *notificationRepo) ListForRecipient(dbc dbctx.Context, recipientID uuid.UUID) ([]*types.Notification, error) {
	var results []*types.Notification
	if recipientID == uuid.Nil {
		return results, nil
	}
	if err := r.base(dbc).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *notificationRepo) CountUnread(dbc dbctx.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	if recipientID == uuid.Nil {
		return 0, nil
	}
	if err := r.base(dbc).
		Model(&types.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *notificationRepo) MarkRead(dbc dbctx.Context, id uuid.UUID, recipientID uuid.UUID) (bool, error) {
	if id == uuid.Nil || recipientID == uuid.Nil {
		return false, nil
	}
	res := r.base(dbc).
		Model(&types.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("read", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
