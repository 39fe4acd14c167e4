package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/treffchat/treffchat/internal/models"
	"go.uber.org/zap"
)

// respondError maps service sentinel errors to the HTTP taxonomy:
// 401 no caller, 403 caller lacks membership, 400 bad input, 404 no
// such row, 409 conflicting signup. Anything else is a logged 500 with
// a generic body — internals never leak to clients.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, models.ErrNotMember), errors.Is(err, models.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
