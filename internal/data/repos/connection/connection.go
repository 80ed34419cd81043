package connection

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/peerlink/peerlink-backend/internal/domain"
	"github.com/peerlink/peerlink-backend/internal/platform/dbctx"
	"github.com/peerlink/peerlink-backend/internal/platform/logger"
)

type ConnectionRepo interface {
	Create(dbc dbctx.Context, conn *types.Connection) (*types.Connection, error)
	GetByID(dbc dbctx.Context, id string) (*types.Connection, error)
	// UpdateFieldsByStatus applies updates only while the record still holds
	// one of the allowed statuses. The boolean reports whether the
	// compare-and-set won; callers translate a lost race into a conflict.
	UpdateFieldsByStatus(dbc dbctx.Context, id string, allowed []types.ConnectionStatus, updates map[string]any) (bool, error)
	Delete(dbc dbctx.Context, id string) (bool, error)
	ListForUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Connection, error)
}

type connectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConnectionRepo(db *gorm.DB, baseLog *logger.Logger) ConnectionRepo {
	return &connectionRepo{db: db, log: baseLog.With("repo", "ConnectionRepo")}
}

func (r *connectionRepo) base(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *connectionRepo) Create(dbc dbctx.Context, conn *types.Connection) (*types.Connection, error) {
	if conn == nil {
		return nil, nil
	}
	if err := r.base(dbc).Create(conn).Error; err != nil {
		return nil, err
	}
	return conn, nil
}

func (r *connectionRepo) GetByID(dbc dbctx.Context, id string) (*types.Connection, error) {
	if id == "" {
		return nil, nil
	}
	var found types.Connection
	err := r.base(dbc).Where("id = ?", id).First(&found).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *connectionRepo) UpdateFieldsByStatus(dbc dbctx.Context, id string, allowed []types.ConnectionStatus, updates map[string]any) (bool, error) {
	if id == "" || len(allowed) == 0 || len(updates) == 0 {
		return false, nil
	}
	res := r.base(dbc).
		Model(&types.Connection{}).
		Where("id = ? AND status IN ?", id, allowed).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *connectionRepo) Delete(dbc dbctx.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	res := r.base(dbc).
		Where("id = ?", id).
		Delete(&types.Connection{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *connectionRepo) ListForUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Connection, error) {
	var results []*types.Connection
	if userID == uuid.Nil {
		return results, nil
	}
	if err := r.base(dbc).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
