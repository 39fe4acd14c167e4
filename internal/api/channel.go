package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/treffchat/treffchat/internal/middleware"
	"github.com/treffchat/treffchat/internal/models"
	"github.com/treffchat/treffchat/internal/service"
	"go.uber.org/zap"
)

// ChannelHandler exposes the channel directory and membership actions.
type ChannelHandler struct {
	svc    *service.ChannelService
	logger *zap.Logger
}

func NewChannelHandler(svc *service.ChannelService, logger *zap.Logger) *ChannelHandler {
	return &ChannelHandler{svc: svc, logger: logger}
}

// ListJoined handles GET /v1/me/channels
//
// Returns the caller's channels and regions in one payload; anonymous
// callers get empty groups.
func (h *ChannelHandler) ListJoined(c *gin.Context) {
	joined, err := h.svc.ListJoined(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, joined)
}

// ListAvailable handles GET /v1/me/channels/available?type=channel|region
func (h *ChannelHandler) ListAvailable(c *gin.Context) {
	channelType := models.ChannelType(c.Query("type"))

	channels, err := h.svc.ListAvailable(c.Request.Context(), middleware.GetUserID(c), channelType)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, channels)
}

// ListByType handles GET /v1/directory/channels?type=channel|region
func (h *ChannelHandler) ListByType(c *gin.Context) {
	channelType := models.ChannelType(c.Query("type"))

	channels, err := h.svc.ListByType(c.Request.Context(), channelType)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, channels)
}

// GetBySlug handles GET /v1/directory/channels/:slug
func (h *ChannelHandler) GetBySlug(c *gin.Context) {
	channel, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if channel == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "channel not found"})
		return
	}
	c.JSON(http.StatusOK, channel)
}

type joinResponse struct {
	MembershipID int64 `json:"membership_id"`
}

// Join handles POST /v1/channels/:id/join
//
// Idempotent: joining twice returns the same membership id.
func (h *ChannelHandler) Join(c *gin.Context) {
	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid channel id"})
		return
	}

	membershipID, err := h.svc.Join(c.Request.Context(), middleware.GetUserID(c), channelID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, joinResponse{MembershipID: membershipID})
}

// Leave handles POST /v1/channels/:id/leave
//
// Idempotent: leaving a channel the caller never joined is a 204 too.
func (h *ChannelHandler) Leave(c *gin.Context) {
	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid channel id"})
		return
	}

	if err := h.svc.Leave(c.Request.Context(), middleware.GetUserID(c), channelID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
