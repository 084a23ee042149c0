package models

import "time"

// Message content types. Anything else is rejected at the boundary.
const (
	MessageText  = "text"
	MessageImage = "image"
	MessageVideo = "video"
	MessageAudio = "audio"
)

// ValidMessageType reports whether t is one of the supported content types.
func ValidMessageType(t string) bool {
	switch t {
	case MessageText, MessageImage, MessageVideo, MessageAudio:
		return true
	}
	return false
}

// Message is a persisted chat message. Messages are immutable once created;
// the autoincrement ID doubles as the per-conversation sequence, so insertion
// order is chronological order.
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID string    `gorm:"type:uuid;not null;index:idx_conv_msg" json:"conversationId"`
	SenderID       uint      `gorm:"not null;index:idx_conv_msg" json:"senderId"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	Type           string    `gorm:"type:text;not null" json:"type"`
	IsRead         bool      `gorm:"not null;default:false;index" json:"isRead"`
	CreatedAt      time.Time `json:"createdAt"`
}

// MessageEvent is the broadcast payload for a newly persisted message,
// enriched with the sender's display profile.
type MessageEvent struct {
	ID             uint       `json:"id"`
	ConversationID string     `json:"conversationId"`
	SenderID       uint       `json:"senderId"`
	Content        string     `json:"content"`
	Type           string     `json:"type"`
	CreatedAt      time.Time  `json:"createdAt"`
	Sender         SenderInfo `json:"sender"`
}
