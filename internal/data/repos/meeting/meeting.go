package meeting

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/peerlink/peerlink-backend/internal/domain"
	"github.com/peerlink/peerlink-backend/internal/platform/dbctx"
	"github.com/peerlink/peerlink-backend/internal/platform/logger"
)

type MeetingRepo interface {
	Create(dbc dbctx.Context, meeting *types.Meeting) (*types.Meeting, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Meeting, error)
	UpdateFieldsByStatus(dbc dbctx.Context, id uuid.UUID, allowed []types.MeetingStatus, updates map[string]any) (bool, error)
	ListForConnection(dbc dbctx.Context, connectionID string) ([]*types.Meeting, error)
	ListForUser(dbc dbctx.Context, connectionIDs []string) ([]*types.Meeting, error)
}

type meetingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMeetingRepo(db *gorm.DB, baseLog *logger.Logger) MeetingRepo {
	return &meetingRepo{db: db, log: baseLog.With("repo", "MeetingRepo")}
}

func (r *meetingRepo) base(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *meetingRepo) Create(dbc dbctx.Context, meeting *types.Meeting) (*types.Meeting, error) {
	if meeting == nil {
		return nil, nil
	}
	if err := r.base(dbc).Create(meeting).Error; err != nil {
		return nil, err
	}
	return meeting, nil
}

func (r *meetingRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Meeting, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var found types.Meeting
	err := r.base(dbc).Where("id = ?", id).First(&found).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *meetingRepo) UpdateFieldsByStatus(dbc dbctx.Context, id uuid.UUID, allowed []types.MeetingStatus, updates map[string]any) (bool, error) {
	if id == uuid.Nil || len(allowed) == 0 || len(updates) == 0 {
		return false, nil
	}
	res := r.base(dbc).
		Model(&types.Meeting{}).
		Where("id = ? AND status IN ?", id, allowed).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *meetingRepo) ListForConnection(dbc dbctx.Context, connectionID string) ([]*types.Meeting, error) {
	var results []*types.Meeting
	if connectionID == "" {
		return results, nil
	}
	if err := r.base(dbc).
		Where("connection_id = ?", connectionID).
		Order("scheduled_for ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *meetingRepo) ListForUser(dbc dbctx.Context, connectionIDs []string) ([]*types.Meeting, error) {
	var results []*types.Meeting
	if len(connectionIDs) == 0 {
		return results, nil
	}
	if err := r.base(dbc).
		Where("connection_id IN ?", connectionIDs).
		Order("scheduled_for ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
