package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"newsdesk/backend/internal/models"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Redis keys and channels.
const (
	onlineUsersKey  = "online_users"
	pushNotifyTopic = "push:notify"
)

// Storage is the persistence contract the messaging core depends on.
// Conversations and messages are the single source of truth; the in-memory
// room registry is always rebuilt from here and never trusted instead.
type Storage interface {
	SaveUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)

	CreateConversation(conv *models.Conversation) error
	GetConversationByID(id string) (*models.Conversation, error)
	FindPrivateConversationByParticipants(ids pq.Int64Array) (*models.Conversation, error)
	ListConversationsForUser(userID uint, page, limit int) ([]models.ConversationSummary, error)
	ListConversationIDsForUser(userID uint) ([]string, error)
	TouchConversation(id string) error

	CreateMessage(msg *models.Message) error
	ListMessages(conversationID string, page, limit int) ([]models.Message, error)
	MarkMessagesRead(conversationID string, readerID uint) (int64, error)

	SetUserOnline(userID uint) error
	SetUserOffline(userID uint) error
	IsUserOnline(userID uint) (bool, error)
	PublishPushEvent(evt models.PushEvent) error
}

// Service implements Storage over PostgreSQL (GORM) and Redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// SaveUser upserts an editorial profile row.
func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// GetUserByID returns the profile for display enrichment, or nil when the
// user does not exist.
func (s *Service) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateConversation persists a new conversation row.
func (s *Service) CreateConversation(conv *models.Conversation) error {
	if err := s.DB.Create(conv).Error; err != nil {
		log.Printf("ERROR: Failed to create conversation: %v", err)
		return err
	}
	return nil
}

// GetConversationByID returns the conversation, or nil when unknown.
func (s *Service) GetConversationByID(id string) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.DB.Where("id = ?", id).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to get conversation %s: %v", id, err)
		return nil, err
	}
	return &conv, nil
}

// FindPrivateConversationByParticipants looks up the PRIVATE conversation
// whose participant set equals ids exactly. ids must be sorted ascending,
// which makes the unordered-pair rule a plain array equality.
func (s *Service) FindPrivateConversationByParticipants(ids pq.Int64Array) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.DB.Where("type = ? AND participant_ids = ?", models.ConversationPrivate, ids).
		First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to look up private conversation: %v", err)
		return nil, err
	}
	return &conv, nil
}

// ListConversationsForUser returns the user's conversations ordered by most
// recent activity, each annotated with its latest message.
func (s *Service) ListConversationsForUser(userID uint, page, limit int) ([]models.ConversationSummary, error) {
	var convs []models.Conversation
	err := s.DB.Where("? = ANY(participant_ids)", int64(userID)).
		Order("updated_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&convs).Error
	if err != nil {
		log.Printf("ERROR: Failed to list conversations for user %d: %v", userID, err)
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		summary := models.ConversationSummary{Conversation: conv}

		var last models.Message
		err := s.DB.Where("conversation_id = ?", conv.ID).
			Order("id DESC").
			First(&last).Error
		if err == nil {
			summary.LastMessage = &last
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// ListConversationIDsForUser returns every conversation id the user
// participates in, used to rebuild room membership on (re)connect.
func (s *Service) ListConversationIDsForUser(userID uint) ([]string, error) {
	var ids []string
	err := s.DB.Model(&models.Conversation{}).
		Where("? = ANY(participant_ids)", int64(userID)).
		Pluck("id", &ids).Error
	if err != nil {
		log.Printf("ERROR: Failed to list conversation ids for user %d: %v", userID, err)
		return nil, err
	}
	return ids, nil
}

// TouchConversation advances UpdatedAt so the inbox ordering follows the
// latest message.
func (s *Service) TouchConversation(id string) error {
	return s.DB.Model(&models.Conversation{}).
		Where("id = ?", id).
		Update("updated_at", gorm.Expr("NOW()")).Error
}

// CreateMessage persists a message. The autoincrement primary key assigned
// here is the per-conversation sequence.
func (s *Service) CreateMessage(msg *models.Message) error {
	if err := s.DB.Create(msg).Error; err != nil {
		log.Printf("ERROR: Failed to save message for conversation %s: %v", msg.ConversationID, err)
		return err
	}
	return nil
}

// ListMessages returns one history page, newest first. Callers reverse the
// page before delivery so clients always render oldest-to-newest.
func (s *Service) ListMessages(conversationID string, page, limit int) ([]models.Message, error) {
	var msgs []models.Message
	err := s.DB.Where("conversation_id = ?", conversationID).
		Order("id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&msgs).Error
	if err != nil {
		log.Printf("ERROR: Failed to get messages for conversation %s: %v", conversationID, err)
		return nil, err
	}
	return msgs, nil
}

// MarkMessagesRead flips every unread message in the conversation not
// authored by readerID. Returns the number of rows changed; zero on a
// repeat call, which is treated as success.
func (s *Service) MarkMessagesRead(conversationID string, readerID uint) (int64, error) {
	result := s.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, readerID, false).
		Update("is_read", true)
	if result.Error != nil {
		log.Printf("ERROR: Failed to mark messages read for conversation %s: %v", conversationID, result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// SetUserOnline records a live connection for the user in Redis.
func (s *Service) SetUserOnline(userID uint) error {
	return s.Redis.SAdd(s.Ctx, onlineUsersKey, int64(userID)).Err()
}

// SetUserOffline removes the user from the online set once their last
// connection is gone.
func (s *Service) SetUserOffline(userID uint) error {
	return s.Redis.SRem(s.Ctx, onlineUsersKey, int64(userID)).Err()
}

// IsUserOnline checks the online set; used to decide who gets a push signal.
func (s *Service) IsUserOnline(userID uint) (bool, error) {
	return s.Redis.SIsMember(s.Ctx, onlineUsersKey, int64(userID)).Result()
}

// PublishPushEvent hands a "message for offline participant" signal to the
// push-dispatch collaborator over Redis Pub/Sub. Delivery policy is theirs.
func (s *Service) PublishPushEvent(evt models.PushEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	if err := s.Redis.Publish(s.Ctx, pushNotifyTopic, payload).Err(); err != nil {
		log.Printf("ERROR: Failed to publish push event for user %d: %v", evt.UserID, err)
		return err
	}
	return nil
}
