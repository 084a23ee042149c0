package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // required for pq.Int64Array
	"gorm.io/gorm"
)

// Conversation types.
const (
	ConversationPrivate = "PRIVATE"
	ConversationGroup   = "GROUP"
)

// Conversation represents a persisted thread between two or more users.
// ParticipantIDs is stored as a sorted, duplicate-free PostgreSQL array:
// sorting makes the PRIVATE uniqueness rule a plain equality lookup.
type Conversation struct {
	ID string `gorm:"primaryKey" json:"id"` // UUID

	// Type is PRIVATE (exactly two participants) or GROUP.
	Type string `gorm:"type:text;not null;index" json:"type"`
	// Name is optional and only meaningful for GROUP conversations.
	Name string `gorm:"type:text" json:"name,omitempty"`
	// ParticipantIDs holds the member user ids, ascending, unique.
	ParticipantIDs pq.Int64Array `gorm:"type:bigint[];not null" json:"participantIds"`

	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt advances on every new message and drives inbox ordering.
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate is a GORM hook that assigns a fresh UUID when the
// conversation is created without an explicit id.
func (c *Conversation) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// HasParticipant reports whether userID is a member of the conversation.
// Authorization decisions always go through this on the persisted row,
// never through the in-memory room registry.
func (c *Conversation) HasParticipant(userID uint) bool {
	for _, id := range c.ParticipantIDs {
		if uint(id) == userID {
			return true
		}
	}
	return false
}

// ConversationSummary is a conversation annotated with its most recent
// message, as returned by the inbox listing.
type ConversationSummary struct {
	Conversation
	LastMessage *Message `json:"lastMessage,omitempty"`
}
