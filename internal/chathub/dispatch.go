package chathub

import (
	"encoding/json"
	"fmt"
	"log"

	"newsdesk/backend/internal/chat"
	"newsdesk/backend/internal/models"
)

// HandleMessage decodes one inbound envelope and routes it. Per-event errors
// go back to the originating connection only; other participants observe
// nothing and the connection stays open.
func (h *Hub) HandleMessage(c Client, raw []byte) {
	var evt models.ClientEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		h.sendError(c, "invalid_request", "malformed event envelope")
		return
	}

	switch evt.Event {
	case models.EventJoin:
		var p models.JoinPayload
		if err := json.Unmarshal(evt.Data, &p); err != nil || p.ConversationID == "" {
			h.sendError(c, "invalid_request", "conversationId is required")
			return
		}
		if err := h.Join(c, p.ConversationID); err != nil {
			h.reportError(c, err)
		}

	case models.EventSendMessage:
		var p models.SendMessagePayload
		if err := json.Unmarshal(evt.Data, &p); err != nil || p.ConversationID == "" {
			h.sendError(c, "invalid_request", "conversationId is required")
			return
		}
		if _, err := h.Messages.Send(p.ConversationID, c.GetUserID(), p.Content, p.Type); err != nil {
			h.reportError(c, err)
		}

	case models.EventMarkRead:
		var p models.MarkReadPayload
		if err := json.Unmarshal(evt.Data, &p); err != nil || p.ConversationID == "" {
			h.sendError(c, "invalid_request", "conversationId is required")
			return
		}
		if _, err := h.Receipts.MarkRead(p.ConversationID, c.GetUserID()); err != nil {
			h.reportError(c, err)
		}

	case models.EventTypingStart:
		h.relayTyping(c, evt.Data, models.EventTyping)

	case models.EventTypingStop:
		h.relayTyping(c, evt.Data, models.EventTypingStopped)

	default:
		h.sendError(c, "unknown_event", "unknown event name: "+evt.Event)
	}
}

// relayTyping forwards an ephemeral typing indicator to every other live
// connection in the room. Nothing is persisted and a dropped relay is
// inconsequential. Authorization reads the stored participant set, same as
// every other event; room membership alone is not trusted.
func (h *Hub) relayTyping(c Client, data json.RawMessage, outEvent string) {
	var p models.TypingEvent
	if err := json.Unmarshal(data, &p); err != nil || p.ConversationID == "" {
		h.sendError(c, "invalid_request", "conversationId is required")
		return
	}
	conv, err := h.Storage.GetConversationByID(p.ConversationID)
	if err != nil {
		h.reportError(c, fmt.Errorf("%w: %v", chat.ErrPersistence, err))
		return
	}
	if conv == nil {
		h.reportError(c, fmt.Errorf("%w: conversation %s", chat.ErrNotFound, p.ConversationID))
		return
	}
	if !conv.HasParticipant(c.GetUserID()) {
		h.reportError(c, fmt.Errorf("%w: user %d in conversation %s", chat.ErrNotParticipant, c.GetUserID(), p.ConversationID))
		return
	}

	p.UserID = c.GetUserID()
	if user, err := h.Storage.GetUserByID(c.GetUserID()); err == nil && user != nil {
		p.FirstName = user.FirstName
		p.LastName = user.LastName
	}

	h.BroadcastExcept(p.ConversationID, c, models.ServerEvent{
		Event: outEvent,
		Data:  p,
	})
}

// reportError maps a service error onto an error event for the actor.
func (h *Hub) reportError(c Client, err error) {
	log.Printf("WARNING: Event from user %d failed: %v", c.GetUserID(), err)
	h.sendError(c, chat.CodeFor(err), err.Error())
}

func (h *Hub) sendError(c Client, code, message string) {
	c.TrySend(models.ServerEvent{
		Event: models.EventError,
		Data:  models.ErrorEvent{Code: code, Message: message},
	})
}
