package notification

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeConnectionRequest  Type = "connection_request"
	TypeConnectionAccepted Type = "connection_accepted"
	TypeMeetingScheduled   Type = "meeting_scheduled"
	TypeMeetingAccepted    Type = "meeting_accepted"
	TypeMeetingRejected    Type = "meeting_rejected"
	TypeNewMessage         Type = "new_message"
	TypeGroupInvite        Type = "group_invite"
)

// Refs carries optional correlation ids a notification points back at.
type Refs struct {
	ConnectionID string    `json:"connection_id,omitempty"`
	MeetingID    uuid.UUID `json:"meeting_id,omitempty"`
	GroupID      uuid.UUID `json:"group_id,omitempty"`
}

// Notification is an addressed event record. It is created as a side effect
// of service operations and only ever mutated to flip Read to true.
type Notification struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Type        Type      `gorm:"not null" json:"type"`
	Title       string    `gorm:"not null" json:"title"`
	Body        string    `gorm:"column:body" json:"body"`

	ConnectionID string     `gorm:"column:connection_id" json:"connection_id,omitempty"`
	MeetingID    *uuid.UUID `gorm:"type:uuid;column:meeting_id" json:"meeting_id,omitempty"`
	GroupID      *uuid.UUID `gorm:"type:uuid;column:group_id" json:"group_id,omitempty"`

	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (Notification) TableName() string { return "notification" }
