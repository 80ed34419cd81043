package group

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/peerlink/peerlink-backend/internal/domain"
	"github.com/peerlink/peerlink-backend/internal/platform/dbctx"
	"github.com/peerlink/peerlink-backend/internal/platform/logger"
)

type GroupRepo interface {
	Create(dbc dbctx.Context, g *types.Group, members []*types.GroupMember) (*types.Group, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Group, error)
	AddMembers(dbc dbctx.Context, members []*types.GroupMember) error
	Members(dbc dbctx.Context, groupID uuid.UUID) ([]*types.GroupMember, error)
	IsMember(dbc dbctx.Context, groupID, userID uuid.UUID) (bool, error)
	ListForUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Group, error)
}

type groupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGroupRepo(db *gorm.DB, baseLog *logger.Logger) GroupRepo {
	return &groupRepo{db: db, log: baseLog.With("repo", "GroupRepo")}
}

func (r *groupRepo) base(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *groupRepo) Create(dbc dbctx.Context, g *types.Group, members []*types.GroupMember) (*types.Group, error) {
	if g == nil {
		return nil, nil
	}
	if err := r.base(dbc).Create(g).Error; err != nil {
		return nil, err
	}
	if len(members) > 0 {
		if err := r.base(dbc).Create(&members).Error; err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (r *groupRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Group, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var found types.Group
	err := r.base(dbc).Where("id = ?", id).First(&found).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *groupRepo) AddMembers(dbc dbctx.Context, members []*types.GroupMember) error {
	if len(members) == 0 {
		return nil
	}
	return r.base(dbc).Create(&members).Error
}

func (r *groupRepo) Members(dbc dbctx.Context, groupID uuid.UUID) ([]*types.GroupMember, error) {
	var results []*types.GroupMember
	if groupID == uuid.Nil {
		return results, nil
	}
	if err := r.base(dbc).
		Where("group_id = ?", groupID).
		Order("added_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *groupRepo) IsMember(dbc dbctx.Context, groupID, userID uuid.UUID) (bool, error) {
	if groupID == uuid.Nil || userID == uuid.Nil {
		return false, nil
	}
	var count int64
	if err := r.base(dbc).
		Model(&types.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *groupRepo) ListForUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Group, error) {
	var results []*types.Group
	if userID == uuid.Nil {
		return results, nil
	}
	if err := r.base(dbc).
		Joins("JOIN study_group_member ON study_group_member.group_id = study_group.id").
		Where("study_group_member.user_id = ?", userID).
		Order("study_group.created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
