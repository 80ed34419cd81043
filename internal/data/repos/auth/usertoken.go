package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/peerlink/peerlink-backend/internal/domain"
	"github.com/peerlink/peerlink-backend/internal/platform/dbctx"
	"github.com/peerlink/peerlink-backend/internal/platform/logger"
)

type UserTokenRepo interface {
	Create(dbc dbctx.Context, token *types.UserToken) (*types.UserToken, error)
	GetByRefreshToken(dbc dbctx.Context, refreshToken string) (*types.UserToken, error)
	DeleteByRefreshToken(dbc dbctx.Context, refreshToken string) error
	DeleteForUser(dbc dbctx.Context, userID uuid.UUID) error
	DeleteExpired(dbc dbctx.Context, cutoff time.Time) error
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return &userTokenRepo{db: db, log: baseLog.With("repo", "UserTokenRepo")}
}

func (r *userTokenRepo) base(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *userTokenRepo) Create(dbc dbctx.Context, token *types.UserToken) (*types.UserToken, error) {
	if token == nil {
		return nil, nil
	}
	if err := r.base(dbc).Create(token).Error; err != nil {
		return nil, err
	}
	return token, nil
}

func (r *userTokenRepo) GetByRefreshToken(dbc dbctx.Context, refreshToken string) (*types.UserToken, error) {
	if refreshToken == "" {
		return nil, nil
	}
	var found types.UserToken
	err := r.base(dbc).Where("refresh_token = ?", refreshToken).First(&found).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *userTokenRepo) DeleteByRefreshToken(dbc dbctx.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return r.base(dbc).
		Where("refresh_token = ?", refreshToken).
		Delete(&types.UserToken{}).Error
}

func (r *userTokenRepo) DeleteForUser(dbc dbctx.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return nil
	}
	return r.base(dbc).
		Where("user_id = ?", userID).
		Delete(&types.UserToken{}).Error
}

func (r *userTokenRepo) DeleteExpired(dbc dbctx.Context, cutoff time.Time) error {
	return r.base(dbc).
		Where("expires_at < ?", cutoff).
		Delete(&types.UserToken{}).Error
}
