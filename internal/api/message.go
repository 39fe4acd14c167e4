package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/treffchat/treffchat/internal/middleware"
	"github.com/treffchat/treffchat/internal/models"
	"github.com/treffchat/treffchat/internal/service"
	"go.uber.org/zap"
)

// MessageHandler exposes sending and the paginated history queries.
type MessageHandler struct {
	svc    *service.MessageService
	logger *zap.Logger
}

func NewMessageHandler(svc *service.MessageService, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{svc: svc, logger: logger}
}

type sendMessageRequest struct {
	ChannelID      *uuid.UUID `json:"channel_id"`
	ConversationID *uuid.UUID `json:"conversation_id"`
	Content        string     `json:"content" binding:"required"`
}

// target folds the two optional wire fields into a MessageTarget. This
// is the only place the both/neither branch exists; past here the
// target type carries the exactly-one invariant.
func (r sendMessageRequest) target() (models.MessageTarget, string) {
	switch {
	case r.ChannelID != nil && r.ConversationID != nil:
		return models.MessageTarget{}, "cannot specify both channel_id and conversation_id"
	case r.ChannelID != nil:
		return models.ChannelTarget(*r.ChannelID), ""
	case r.ConversationID != nil:
		return models.ConversationTarget(*r.ConversationID), ""
	default:
		return models.MessageTarget{}, "must specify channel_id or conversation_id"
	}
}

// Send handles POST /v1/messages
func (h *MessageHandler) Send(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target, errMsg := req.target()
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	msg, err := h.svc.Send(c.Request.Context(), middleware.GetUserID(c), target, req.Content)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// ListByChannel handles GET /v1/channels/:id/messages?before=123&limit=30
func (h *MessageHandler) ListByChannel(c *gin.Context) {
	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid channel id"})
		return
	}

	before, limit, ok := paginationParams(c)
	if !ok {
		return
	}

	page, err := h.svc.ListByChannel(c.Request.Context(), middleware.GetUserID(c), channelID, before, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListByConversation handles GET /v1/conversations/:id/messages?before=123&limit=30
func (h *MessageHandler) ListByConversation(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}

	before, limit, ok := paginationParams(c)
	if !ok {
		return
	}

	page, err := h.svc.ListByConversation(c.Request.Context(), middleware.GetUserID(c), conversationID, before, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// paginationParams reads the cursor query params. "before" is the id
// cursor (0 = from the latest); "limit" is clamped by the service.
// Writes a 400 and returns ok=false on malformed values.
func paginationParams(c *gin.Context) (before int64, limit int, ok bool) {
	if b := c.Query("before"); b != "" {
		var err error
		before, err = strconv.ParseInt(b, 10, 64)
		if err != nil || before < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'before' parameter"})
			return 0, 0, false
		}
	}
	if l := c.Query("limit"); l != "" {
		var err error
		limit, err = strconv.Atoi(l)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'limit' parameter"})
			return 0, 0, false
		}
	}
	return before, limit, true
}
