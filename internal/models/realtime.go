package models

import "encoding/json"

// Client-to-server event names.
const (
	EventJoin        = "conversation:join"
	EventSendMessage = "message:send"
	EventMarkRead    = "message:read"
	EventTypingStart = "typing:start"
	EventTypingStop  = "typing:stop"
)

// Server-to-client event names.
const (
	EventMessageNew    = "message:new"
	EventMessageSeen   = "message:seen"
	EventTyping        = "typing"
	EventTypingStopped = "typing:stopped"
	EventError         = "error"
)

// ClientEvent is the inbound WebSocket envelope. Data is decoded per event
// name; unknown event names are rejected back to the sender.
type ClientEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ServerEvent is the outbound WebSocket envelope.
type ServerEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// JoinPayload joins the connection to one conversation room.
type JoinPayload struct {
	ConversationID string `json:"conversationId"`
}

// SendMessagePayload carries a message to persist and fan out.
type SendMessagePayload struct {
	ConversationID string `json:"conversationId"`
	Content        string `json:"content"`
	Type           string `json:"type"`
}

// MarkReadPayload marks every unread peer message in the conversation read.
type MarkReadPayload struct {
	ConversationID string `json:"conversationId"`
}

// TypingEvent is the ephemeral typing indicator relayed to the room.
// It is never persisted.
type TypingEvent struct {
	ConversationID string `json:"conversationId"`
	UserID         uint   `json:"userId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
}

// SeenEvent tells the room that a reader has caught up on a conversation.
type SeenEvent struct {
	ConversationID string `json:"conversationId"`
	UserID         uint   `json:"userId"`
}

// ErrorEvent is delivered only to the connection whose request failed.
type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PushEvent is published to the push-dispatch collaborator when a persisted
// message targets a participant with no live connection.
type PushEvent struct {
	UserID         uint   `json:"userId"`
	ConversationID string `json:"conversationId"`
	MessageID      uint   `json:"messageId"`
	Preview        string `json:"preview"`
}
