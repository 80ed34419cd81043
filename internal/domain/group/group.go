package group

import (
	"time"

	"github.com/google/uuid"
)

type Group struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Group) TableName() string { return "study_group" }

type GroupMember struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_member" json:"group_id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_member;index" json:"user_id"`
	AddedAt time.Time `gorm:"not null" json:"added_at"`
}

func (GroupMember) TableName() string { return "study_group_member" }
