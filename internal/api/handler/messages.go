package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type sendMessageInput struct {
	Content string `json:"content" binding:"required"`
	Type    string `json:"type" binding:"required"`
}

// SendMessage is the stateless mirror of the message:send event. The same
// Messages service persists and fans out, so connected devices still get
// the broadcast.
func (h *Handler) SendMessage(c *gin.Context) {
	var input sendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	msg, err := h.Messages.Send(c.Param("id"), identity(c).UserID, input.Content, input.Type)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// ListMessages returns one history page in chronological order.
func (h *Handler) ListMessages(c *gin.Context) {
	page, limit := pageParams(c)
	msgs, err := h.Messages.History(c.Param("id"), identity(c).UserID, page, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// MarkRead flips the caller's unread peer messages in the conversation.
// Repeating the call is a harmless no-op.
func (h *Handler) MarkRead(c *gin.Context) {
	updated, err := h.Receipts.MarkRead(c.Param("id"), identity(c).UserID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
