package handler

import (
	"errors"
	"net/http"

	"newsdesk/backend/internal/auth"
	"newsdesk/backend/internal/chat"
	"newsdesk/backend/internal/chathub"

	"github.com/gin-gonic/gin"
)

// Handler wires the REST gateway and the WebSocket handshake to the shared
// chat services, so business rules never diverge between the two transports.
type Handler struct {
	Hub       *chathub.Hub
	Verifier  *auth.Verifier
	Directory *chat.Directory
	Messages  *chat.Messages
	Receipts  *chat.Receipts
}

func NewHandler(hub *chathub.Hub, verifier *auth.Verifier, directory *chat.Directory, messages *chat.Messages, receipts *chat.Receipts) *Handler {
	return &Handler{
		Hub:       hub,
		Verifier:  verifier,
		Directory: directory,
		Messages:  messages,
		Receipts:  receipts,
	}
}

// abortWithError maps a service error onto an HTTP response.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, chat.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, chat.ErrNotParticipant):
		status = http.StatusForbidden
	case errors.Is(err, chat.ErrNotFound):
		status = http.StatusNotFound
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error": chat.CodeFor(err),
	})
}
