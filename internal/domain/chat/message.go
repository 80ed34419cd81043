package chat

import (
	"time"

	"github.com/google/uuid"
)

// Message belongs to a channel, which is either a connection id or a group
// id. Plain text only.
type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChannelID string    `gorm:"not null;index;column:channel_id" json:"channel_id"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	Body      string    `gorm:"not null" json:"body"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (Message) TableName() string { return "chat_message" }
