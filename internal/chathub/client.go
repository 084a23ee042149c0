package chathub

import "newsdesk/backend/internal/models"

// Client is the interface for one live connection. It abstracts the
// underlying transport so the hub can fan out to WebSocket connections and
// test doubles uniformly. A user with several devices holds several
// independent Clients.
type Client interface {
	// GetUserID returns the authenticated user bound at handshake.
	GetUserID() uint

	// TrySend enqueues an outbound event without blocking. It reports false
	// when the client is closed or its buffer is full; it must never panic,
	// even after Close, because the hub may race a delivery against another
	// goroutine tearing the connection down.
	TrySend(evt models.ServerEvent) bool

	// Run starts the client's read and write pumps.
	Run()
	// Close signals shutdown to the pumps. Safe to call more than once.
	Close()
}
