package handler_test

import (
	"fmt"
	"sort"
	"time"

	"newsdesk/backend/internal/models"

	"github.com/lib/pq"
)

// fakeStorage is a small in-memory Storage used to exercise the REST
// gateway end to end without Postgres or Redis.
type fakeStorage struct {
	users  map[uint]*models.User
	convs  map[string]*models.Conversation
	msgs   []models.Message
	nextID uint
	online map[uint]bool
	pushed []models.PushEvent
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		users:  make(map[uint]*models.User),
		convs:  make(map[string]*models.Conversation),
		online: make(map[uint]bool),
	}
}

func (f *fakeStorage) SaveUser(user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeStorage) GetUserByID(id uint) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeStorage) CreateConversation(conv *models.Conversation) error {
	if conv.ID == "" {
		conv.ID = fmt.Sprintf("conv-%d", len(f.convs)+1)
	}
	conv.CreatedAt = time.Now()
	conv.UpdatedAt = conv.CreatedAt
	f.convs[conv.ID] = conv
	return nil
}

func (f *fakeStorage) GetConversationByID(id string) (*models.Conversation, error) {
	return f.convs[id], nil
}

func (f *fakeStorage) FindPrivateConversationByParticipants(ids pq.Int64Array) (*models.Conversation, error) {
	for _, conv := range f.convs {
		if conv.Type != models.ConversationPrivate || len(conv.ParticipantIDs) != len(ids) {
			continue
		}
		match := true
		for i := range ids {
			if conv.ParticipantIDs[i] != ids[i] {
				match = false
				break
			}
		}
		if match {
			return conv, nil
		}
	}
	return nil, nil
}

func (f *fakeStorage) ListConversationsForUser(userID uint, page, limit int) ([]models.ConversationSummary, error) {
	var summaries []models.ConversationSummary
	for _, conv := range f.convs {
		if !conv.HasParticipant(userID) {
			continue
		}
		summary := models.ConversationSummary{Conversation: *conv}
		for i := len(f.msgs) - 1; i >= 0; i-- {
			if f.msgs[i].ConversationID == conv.ID {
				msg := f.msgs[i]
				summary.LastMessage = &msg
				break
			}
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

func (f *fakeStorage) ListConversationIDsForUser(userID uint) ([]string, error) {
	var ids []string
	for id, conv := range f.convs {
		if conv.HasParticipant(userID) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeStorage) TouchConversation(id string) error {
	if conv, ok := f.convs[id]; ok {
		conv.UpdatedAt = time.Now()
	}
	return nil
}

func (f *fakeStorage) CreateMessage(msg *models.Message) error {
	f.nextID++
	msg.ID = f.nextID
	msg.CreatedAt = time.Now()
	f.msgs = append(f.msgs, *msg)
	return nil
}

func (f *fakeStorage) ListMessages(conversationID string, page, limit int) ([]models.Message, error) {
	var all []models.Message
	for _, msg := range f.msgs {
		if msg.ConversationID == conversationID {
			all = append(all, msg)
		}
	}
	// Newest first, then apply paging.
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (f *fakeStorage) MarkMessagesRead(conversationID string, readerID uint) (int64, error) {
	var updated int64
	for i := range f.msgs {
		msg := &f.msgs[i]
		if msg.ConversationID == conversationID && msg.SenderID != readerID && !msg.IsRead {
			msg.IsRead = true
			updated++
		}
	}
	return updated, nil
}

func (f *fakeStorage) SetUserOnline(userID uint) error {
	f.online[userID] = true
	return nil
}

func (f *fakeStorage) SetUserOffline(userID uint) error {
	delete(f.online, userID)
	return nil
}

func (f *fakeStorage) IsUserOnline(userID uint) (bool, error) {
	return f.online[userID], nil
}

func (f *fakeStorage) PublishPushEvent(evt models.PushEvent) error {
	f.pushed = append(f.pushed, evt)
	return nil
}
