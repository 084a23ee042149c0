package chat

import (
	"fmt"
	"sort"

	"newsdesk/backend/internal/models"
	"newsdesk/backend/internal/storage"

	"github.com/lib/pq"
)

// Directory creates and looks up conversations. PRIVATE creation is
// idempotent per unordered participant pair.
type Directory struct {
	Storage storage.Storage
}

func NewDirectory(s storage.Storage) *Directory {
	return &Directory{Storage: s}
}

// normalizeParticipants folds the caller into the set, removes duplicates
// and sorts ascending so the stored array is canonical for any ordering the
// client sent.
func normalizeParticipants(callerID uint, participantIDs []uint) pq.Int64Array {
	seen := map[int64]bool{int64(callerID): true}
	ids := pq.Int64Array{int64(callerID)}
	for _, id := range participantIDs {
		if id == 0 || seen[int64(id)] {
			continue
		}
		seen[int64(id)] = true
		ids = append(ids, int64(id))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Create makes a new conversation for the caller. For PRIVATE requests an
// existing conversation with the same unordered pair is returned instead of
// creating a duplicate; the second return value reports whether a row was
// actually created.
func (d *Directory) Create(callerID uint, participantIDs []uint, convType, name string) (*models.Conversation, bool, error) {
	ids := normalizeParticipants(callerID, participantIDs)

	switch convType {
	case models.ConversationPrivate:
		if len(ids) != 2 {
			return nil, false, fmt.Errorf("%w: private conversation requires exactly 2 participants, got %d", ErrValidation, len(ids))
		}
		existing, err := d.Storage.FindPrivateConversationByParticipants(ids)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if existing != nil {
			return existing, false, nil
		}
	case models.ConversationGroup:
		if len(ids) < 2 {
			return nil, false, fmt.Errorf("%w: group conversation requires at least 2 participants", ErrValidation)
		}
	default:
		return nil, false, fmt.Errorf("%w: unknown conversation type %q", ErrValidation, convType)
	}

	conv := &models.Conversation{
		Type:           convType,
		Name:           name,
		ParticipantIDs: ids,
	}
	if err := d.Storage.CreateConversation(conv); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return conv, true, nil
}

// ListForUser returns the user's conversations ordered by most recent
// activity, each annotated with its latest message.
func (d *Directory) ListForUser(userID uint, page, limit int) ([]models.ConversationSummary, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	summaries, err := d.Storage.ListConversationsForUser(userID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return summaries, nil
}

// GetByID returns the conversation if userID is a participant.
func (d *Directory) GetByID(userID uint, conversationID string) (*models.Conversation, error) {
	conv, err := d.Storage.GetConversationByID(conversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if conv == nil {
		return nil, fmt.Errorf("%w: conversation %s", ErrNotFound, conversationID)
	}
	if !conv.HasParticipant(userID) {
		return nil, fmt.Errorf("%w: user %d in conversation %s", ErrNotParticipant, userID, conversationID)
	}
	return conv, nil
}
