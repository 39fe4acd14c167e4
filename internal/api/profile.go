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

// ProfileHandler exposes profile reads, updates, and user search.
type ProfileHandler struct {
	svc    *service.ProfileService
	logger *zap.Logger
}

func NewProfileHandler(svc *service.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, logger: logger}
}

// Me handles GET /v1/me/profile
//
// Soft-fail read: anonymous callers get a null body.
func (h *ProfileHandler) Me(c *gin.Context) {
	bundle, err := h.svc.Get(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

// GetByUserID handles GET /v1/profiles/:userId
func (h *ProfileHandler) GetByUserID(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	profile, err := h.svc.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Update handles PATCH /v1/me/profile
//
// Partial update: absent fields are left as they are. Creates the
// profile row on first update.
func (h *ProfileHandler) Update(c *gin.Context) {
	var patch models.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.svc.Update(c.Request.Context(), middleware.GetUserID(c), patch)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Search handles GET /v1/users/search?q=term
//
// Empty or blank terms return an empty list, as do anonymous callers.
func (h *ProfileHandler) Search(c *gin.Context) {
	results, err := h.svc.SearchUsers(c.Request.Context(), middleware.GetUserID(c), c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, results)
}
