package chat

import (
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"newsdesk/backend/internal/models"
	"newsdesk/backend/internal/storage"
)

const previewLength = 120

// Broadcaster fans events out to every live connection joined to a
// conversation's room. Implemented by the chathub; a no-op or recording
// implementation serves in tests.
type Broadcaster interface {
	Broadcast(conversationID string, evt models.ServerEvent)
}

// Messages persists and sequences chat messages and triggers fan-out.
type Messages struct {
	Storage   storage.Storage
	Broadcast Broadcaster
}

func NewMessages(s storage.Storage, b Broadcaster) *Messages {
	return &Messages{Storage: s, Broadcast: b}
}

// Send verifies membership, persists the message, advances the conversation's
// activity timestamp and broadcasts the enriched payload to the room,
// including the sender's own other devices, which de-duplicate by message id.
// A persistence failure aborts the whole operation; nothing unsaved is ever
// fanned out.
func (m *Messages) Send(conversationID string, senderID uint, content, msgType string) (*models.MessageEvent, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: empty message content", ErrValidation)
	}
	if !models.ValidMessageType(msgType) {
		return nil, fmt.Errorf("%w: unknown message type %q", ErrValidation, msgType)
	}

	conv, err := m.Storage.GetConversationByID(conversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if conv == nil {
		return nil, fmt.Errorf("%w: conversation %s", ErrNotFound, conversationID)
	}
	if !conv.HasParticipant(senderID) {
		return nil, fmt.Errorf("%w: user %d in conversation %s", ErrNotParticipant, senderID, conversationID)
	}

	msg := &models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		Type:           msgType,
	}
	if err := m.Storage.CreateMessage(msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := m.Storage.TouchConversation(conversationID); err != nil {
		// The message itself is durable; inbox ordering self-corrects on the
		// next message.
		log.Printf("WARNING: Failed to touch conversation %s: %v", conversationID, err)
	}

	evt := &models.MessageEvent{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		Content:        msg.Content,
		Type:           msg.Type,
		CreatedAt:      msg.CreatedAt,
		Sender:         models.SenderInfo{ID: senderID},
	}
	sender, err := m.Storage.GetUserByID(senderID)
	if err != nil || sender == nil {
		log.Printf("WARNING: Failed to load sender profile %d: %v", senderID, err)
	} else {
		evt.Sender = sender.Sender()
	}

	m.Broadcast.Broadcast(conversationID, models.ServerEvent{
		Event: models.EventMessageNew,
		Data:  evt,
	})

	m.signalOffline(conv, msg)

	return evt, nil
}

// signalOffline emits a push signal for every participant with no live
// connection. Best-effort: push delivery policy belongs to the dispatcher.
func (m *Messages) signalOffline(conv *models.Conversation, msg *models.Message) {
	for _, pid := range conv.ParticipantIDs {
		userID := uint(pid)
		if userID == msg.SenderID {
			continue
		}
		online, err := m.Storage.IsUserOnline(userID)
		if err != nil {
			log.Printf("WARNING: Failed to check presence for user %d: %v", userID, err)
			continue
		}
		if online {
			continue
		}

		preview := msg.Content
		if msg.Type != models.MessageText {
			preview = msg.Type
		} else if len(preview) > previewLength {
			preview = truncateAtRune(preview, previewLength)
		}

		if err := m.Storage.PublishPushEvent(models.PushEvent{
			UserID:         userID,
			ConversationID: msg.ConversationID,
			MessageID:      msg.ID,
			Preview:        preview,
		}); err != nil {
			log.Printf("WARNING: Failed to publish push event for user %d: %v", userID, err)
		}
	}
}

// truncateAtRune cuts s to at most max bytes without splitting a UTF-8
// sequence in the middle.
func truncateAtRune(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// History returns one page of the conversation's messages in chronological
// order. Storage pages newest-first for cheap pagination; the page is
// reversed here so clients always render oldest-to-newest.
func (m *Messages) History(conversationID string, userID uint, page, limit int) ([]models.Message, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	conv, err := m.Storage.GetConversationByID(conversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if conv == nil {
		return nil, fmt.Errorf("%w: conversation %s", ErrNotFound, conversationID)
	}
	if !conv.HasParticipant(userID) {
		return nil, fmt.Errorf("%w: user %d in conversation %s", ErrNotParticipant, userID, conversationID)
	}

	msgs, err := m.Storage.ListMessages(conversationID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
