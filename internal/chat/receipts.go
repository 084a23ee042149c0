package chat

import (
	"fmt"

	"newsdesk/backend/internal/models"
	"newsdesk/backend/internal/storage"
)

// Receipts transitions message read-state and notifies peers.
//
// Unread is a single boolean per message, which is exact for two-party
// PRIVATE conversations. For GROUP conversations with more than two
// participants the first reader flips the flag for everyone; per-user read
// cursors are an open product decision.
type Receipts struct {
	Storage   storage.Storage
	Broadcast Broadcaster
}

func NewReceipts(s storage.Storage, b Broadcaster) *Receipts {
	return &Receipts{Storage: s, Broadcast: b}
}

// MarkRead flips every unread message in the conversation authored by
// someone other than readerID. Idempotent: a repeat call changes nothing
// and never errors. After the durable transition the room is told, best
// effort, that the reader caught up; the persisted state stays
// authoritative either way.
func (r *Receipts) MarkRead(conversationID string, readerID uint) (int64, error) {
	conv, err := r.Storage.GetConversationByID(conversationID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if conv == nil {
		return 0, fmt.Errorf("%w: conversation %s", ErrNotFound, conversationID)
	}
	if !conv.HasParticipant(readerID) {
		return 0, fmt.Errorf("%w: user %d in conversation %s", ErrNotParticipant, readerID, conversationID)
	}

	updated, err := r.Storage.MarkMessagesRead(conversationID, readerID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if updated > 0 {
		r.Broadcast.Broadcast(conversationID, models.ServerEvent{
			Event: models.EventMessageSeen,
			Data: models.SeenEvent{
				ConversationID: conversationID,
				UserID:         readerID,
			},
		})
	}
	return updated, nil
}
