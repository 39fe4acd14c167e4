package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/treffchat/treffchat/internal/middleware"
	"github.com/treffchat/treffchat/internal/service"
	"go.uber.org/zap"
)

// ConversationHandler exposes direct-message conversations.
type ConversationHandler struct {
	svc    *service.ConversationService
	logger *zap.Logger
}

func NewConversationHandler(svc *service.ConversationService, logger *zap.Logger) *ConversationHandler {
	return &ConversationHandler{svc: svc, logger: logger}
}

// List handles GET /v1/conversations
//
// Enriched summaries, most recently active first. Anonymous callers
// get an empty list.
func (h *ConversationHandler) List(c *gin.Context) {
	summaries, err := h.svc.ListForUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

type getOrCreateRequest struct {
	OtherUserID uuid.UUID `json:"other_user_id" binding:"required"`
}

type getOrCreateResponse struct {
	ConversationID uuid.UUID `json:"conversation_id"`
}

// GetOrCreate handles POST /v1/conversations
//
// Returns the existing conversation with the other user, or creates it.
func (h *ConversationHandler) GetOrCreate(c *gin.Context) {
	var req getOrCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conversationID, err := h.svc.GetOrCreate(c.Request.Context(), middleware.GetUserID(c), req.OtherUserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, getOrCreateResponse{ConversationID: conversationID})
}
