package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type createConversationInput struct {
	ParticipantIDs []uint `json:"participantIds" binding:"required"`
	Type           string `json:"type" binding:"required"`
	Name           string `json:"name"`
}

// CreateConversation creates a conversation for the caller. PRIVATE
// creation is idempotent: requesting an existing pair returns the original
// conversation with 200 instead of 201.
func (h *Handler) CreateConversation(c *gin.Context) {
	var input createConversationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	conv, created, err := h.Directory.Create(identity(c).UserID, input.ParticipantIDs, input.Type, input.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"conversation": conv, "created": created})
}

// ListConversations returns the caller's conversations, most recent
// activity first, each with its latest message.
func (h *Handler) ListConversations(c *gin.Context) {
	page, limit := pageParams(c)
	summaries, err := h.Directory.ListForUser(identity(c).UserID, page, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": summaries})
}

// GetConversation returns one conversation the caller participates in.
func (h *Handler) GetConversation(c *gin.Context) {
	conv, err := h.Directory.GetByID(identity(c).UserID, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation": conv})
}

func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		limit = 50
	}
	return page, limit
}
