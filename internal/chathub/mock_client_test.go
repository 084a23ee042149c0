package chathub_test

import "newsdesk/backend/internal/models"

// MockClient is a channel-backed test double for the chathub.Client
// interface. RecvChannel is buffered so hub fan-out never blocks in tests.
type MockClient struct {
	userID      uint
	RecvChannel chan models.ServerEvent
	closed      bool
}

func newMockClient(userID uint) *MockClient {
	return &MockClient{
		userID:      userID,
		RecvChannel: make(chan models.ServerEvent, 10),
	}
}

func (c *MockClient) GetUserID() uint {
	return c.userID
}

func (c *MockClient) TrySend(evt models.ServerEvent) bool {
	if c.closed {
		return false
	}
	select {
	case c.RecvChannel <- evt:
		return true
	default:
		return false
	}
}

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.closed = true
}

// Received drains and returns everything delivered so far.
func (c *MockClient) Received() []models.ServerEvent {
	var events []models.ServerEvent
	for {
		select {
		case evt := <-c.RecvChannel:
			events = append(events, evt)
		default:
			return events
		}
	}
}
