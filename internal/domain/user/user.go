package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password    string    `gorm:"not null;column:password" json:"-"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	AvatarURL   string    `gorm:"column:avatar_url" json:"avatar_url"`
	Major       string    `gorm:"column:major" json:"major"`
	CollegeName string    `gorm:"column:college_name" json:"college_name"`

	SkillsOffered datatypes.JSONSlice[string] `gorm:"column:skills_offered" json:"skills_offered"`
	SkillsNeeded  datatypes.JSONSlice[string] `gorm:"column:skills_needed" json:"skills_needed"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }

// ProfileComplete reports whether the user can enter matching pools.
// An empty major marks an incomplete profile.
func (u *User) ProfileComplete() bool {
	return u != nil && u.Major != ""
}

type UserToken struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	RefreshToken string    `gorm:"not null;uniqueIndex;column:refresh_token" json:"-"`
	ExpiresAt    time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (UserToken) TableName() string { return "user_token" }
