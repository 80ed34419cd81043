package meeting

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type Type string

const (
	TypeVideo    Type = "video"
	TypeInPerson Type = "in-person"
	TypeText     Type = "text"
)

type Meeting struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ConnectionID string    `gorm:"not null;index;column:connection_id" json:"connection_id"`
	RequestedBy  uuid.UUID `gorm:"type:uuid;not null" json:"requested_by"`

	ScheduledFor    time.Time `gorm:"not null" json:"scheduled_for"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	MeetingType     Type      `gorm:"not null" json:"meeting_type"`
	Notes           string    `gorm:"column:notes" json:"notes,omitempty"`

	// MeetingLink is a placeholder for video meetings; real conferencing
	// integration is out of scope.
	MeetingLink string `gorm:"column:meeting_link" json:"meeting_link,omitempty"`

	Status    Status    `gorm:"not null;index" json:"status"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Meeting) TableName() string { return "meeting" }
