package chat

import (
	"gorm.io/gorm"

	types "github.com/peerlink/peerlink-backend/internal/domain"
	"github.com/peerlink/peerlink-backend/internal/platform/dbctx"
	"github.com/peerlink/peerlink-backend/internal/platform/logger"
)

type ChatMessageRepo interface {
	Create(dbc dbctx.Context, msg *types.ChatMessage) (*types.ChatMessage, error)
	ListForChannel(dbc dbctx.Context, channelID string, limit int) ([]*types.ChatMessage, error)
}

type chatMessageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
	return &chatMessageRepo{db: db, log: baseLog.With("repo", "ChatMessageRepo")}
}

func (r *chatMessageRepo) base(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *chatMessageRepo) Create(dbc dbctx.Context, msg *types.ChatMessage) (*types.ChatMessage, error) {
	if msg == nil {
		return nil, nil
	}
	if err := r.base(dbc).Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

func (r *chatMessageRepo) ListForChannel(dbc dbctx.Context, channelID string, limit int) ([]*types.ChatMessage, error) {
	var results []*types.ChatMessage
	if channelID == "" {
		return results, nil
	}
	q := r.base(dbc).
		Where("channel_id = ?", channelID).
		Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
