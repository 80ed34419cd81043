package connection

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusRejected Status = "rejected"
)

// Connection is the single record representing the relationship between two
// users. Its primary key is derived from the unordered participant pair, so
// at most one record can ever exist per pair regardless of who initiates.
type Connection struct {
	ID string `gorm:"primaryKey;column:id" json:"id"`

	// Participants in lexicographic UUID order. The pair is unordered for
	// identity purposes; requested_by records which side initiated.
	UserAID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_a_id"`
	UserBID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_b_id"`

	RequestedBy    uuid.UUID `gorm:"type:uuid;not null" json:"requested_by"`
	Score          int       `gorm:"not null" json:"score"`
	RequestMessage string    `gorm:"column:request_message" json:"request_message,omitempty"`
	Status         Status    `gorm:"not null;index" json:"status"`

	// CreatedAt is reset when a rejected connection is reactivated.
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Connection) TableName() string { return "connection" }

// PairID derives the deterministic connection id for an unordered user pair.
// Sorting the identifiers first makes the derivation commutative: either
// side can initiate and both arrive at the same id.
func PairID(a, b uuid.UUID) string {
	low, high := a.String(), b.String()
	if high < low {
		low, high = high, low
	}
	return "match_" + low + "_" + high
}

// SortPair returns the two ids in the storage order used by UserAID/UserBID.
func SortPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if b.String() < a.String() {
		return b, a
	}
	return a, b
}

// HasParticipant reports whether id is one of the two participants.
func (c *Connection) HasParticipant(id uuid.UUID) bool {
	return c != nil && (c.UserAID == id || c.UserBID == id)
}

// PeerOf returns the other participant for a given member id.
func (c *Connection) PeerOf(id uuid.UUID) uuid.UUID {
	if c == nil {
		return uuid.Nil
	}
	if c.UserAID == id {
		return c.UserBID
	}
	return c.UserAID
}
