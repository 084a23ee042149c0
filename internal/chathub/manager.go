package chathub

import (
	"fmt"
	"log"
	"sync"

	"newsdesk/backend/internal/chat"
	"newsdesk/backend/internal/models"
	"newsdesk/backend/internal/storage"
)

// Hub owns the room registry: conversation id -> set of live connections.
// It is constructed once in main and passed by reference to everything that
// broadcasts, so tests build a fresh one and tear it down deterministically.
//
// The registry is never authoritative for who is a participant: every join
// re-reads the persisted participant set, and a restart simply rebuilds the
// rooms from storage as connections come back.
type Hub struct {
	Storage storage.Storage

	// Bound after construction; see Attach.
	Messages *chat.Messages
	Receipts *chat.Receipts

	mu     sync.RWMutex
	rooms  map[string]map[Client]struct{}
	byConn map[Client]map[string]struct{}
	byUser map[uint]map[Client]struct{}
}

func NewHub(s storage.Storage) *Hub {
	return &Hub{
		Storage: s,
		rooms:   make(map[string]map[Client]struct{}),
		byConn:  make(map[Client]map[string]struct{}),
		byUser:  make(map[uint]map[Client]struct{}),
	}
}

// Attach binds the message and receipt services. They broadcast through the
// hub, so they are constructed after it.
func (h *Hub) Attach(m *chat.Messages, r *chat.Receipts) {
	h.Messages = m
	h.Receipts = r
}

// Register records a new live connection and marks the user online.
func (h *Hub) Register(c Client) {
	h.mu.Lock()
	if h.byUser[c.GetUserID()] == nil {
		h.byUser[c.GetUserID()] = make(map[Client]struct{})
	}
	h.byUser[c.GetUserID()][c] = struct{}{}
	h.byConn[c] = make(map[string]struct{})
	h.mu.Unlock()

	if err := h.Storage.SetUserOnline(c.GetUserID()); err != nil {
		log.Printf("WARNING: Failed to mark user %d online: %v", c.GetUserID(), err)
	}
	log.Printf("Client registered for user %d", c.GetUserID())
}

// Unregister removes the connection from every room and closes it. The user
// goes offline only when their last connection is gone. Idempotent.
func (h *Hub) Unregister(c Client) {
	userID := c.GetUserID()

	h.mu.Lock()
	for convID := range h.byConn[c] {
		delete(h.rooms[convID], c)
		if len(h.rooms[convID]) == 0 {
			delete(h.rooms, convID)
		}
	}
	delete(h.byConn, c)
	delete(h.byUser[userID], c)
	lastConnection := len(h.byUser[userID]) == 0
	if lastConnection {
		delete(h.byUser, userID)
	}
	h.mu.Unlock()

	if lastConnection {
		if err := h.Storage.SetUserOffline(userID); err != nil {
			log.Printf("WARNING: Failed to mark user %d offline: %v", userID, err)
		}
	}
	c.Close()
}

// JoinAll joins the connection to every conversation its user participates
// in, so later fan-out reaches it without per-conversation joins.
func (h *Hub) JoinAll(c Client) error {
	ids, err := h.Storage.ListConversationIDsForUser(c.GetUserID())
	if err != nil {
		return fmt.Errorf("%w: %v", chat.ErrPersistence, err)
	}
	for _, id := range ids {
		h.join(c, id)
	}
	return nil
}

// Join verifies the conversation exists and the connection's user is a
// participant of the persisted row, then joins the room.
func (h *Hub) Join(c Client, conversationID string) error {
	conv, err := h.Storage.GetConversationByID(conversationID)
	if err != nil {
		return fmt.Errorf("%w: %v", chat.ErrPersistence, err)
	}
	if conv == nil {
		return fmt.Errorf("%w: conversation %s", chat.ErrNotFound, conversationID)
	}
	if !conv.HasParticipant(c.GetUserID()) {
		return fmt.Errorf("%w: user %d in conversation %s", chat.ErrNotParticipant, c.GetUserID(), conversationID)
	}
	h.join(c, conversationID)
	return nil
}

func (h *Hub) join(c Client, conversationID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[conversationID] == nil {
		h.rooms[conversationID] = make(map[Client]struct{})
	}
	h.rooms[conversationID][c] = struct{}{}
	if h.byConn[c] == nil {
		h.byConn[c] = make(map[string]struct{})
	}
	h.byConn[c][conversationID] = struct{}{}
}

// InRoom reports whether the connection has joined the conversation's room.
func (h *Hub) InRoom(c Client, conversationID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.rooms[conversationID][c]
	return ok
}

// RoomSize returns the number of live connections in a room.
func (h *Hub) RoomSize(conversationID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[conversationID])
}

// Broadcast delivers evt to every live connection in the room, the sender's
/// own other devices included. Delivery is best-effort per connection: a slow
// consumer whose buffer is full is dropped and catches up via history.
func (h *Hub) Broadcast(conversationID string, evt models.ServerEvent) {
	h.broadcast(conversationID, nil, evt)
}

// BroadcastExcept is Broadcast minus the originating connection, used for
// ephemeral typing relays.
func (h *Hub) BroadcastExcept(conversationID string, except Client, evt models.ServerEvent) {
	h.broadcast(conversationID, except, evt)
}

func (h *Hub) broadcast(conversationID string, except Client, evt models.ServerEvent) {
	var dropped []Client

	h.mu.RLock()
	for c := range h.rooms[conversationID] {
		if c == except {
			continue
		}
		if !c.TrySend(evt) {
			// Slow consumer; dropping keeps backpressure bounded.
			dropped = append(dropped, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range dropped {
		log.Printf("WARNING: Dropping slow connection for user %d", c.GetUserID())
		h.Unregister(c)
	}
}
