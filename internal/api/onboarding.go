package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/treffchat/treffchat/internal/middleware"
	"github.com/treffchat/treffchat/internal/service"
	"go.uber.org/zap"
)

// OnboardingHandler exposes the post-login defaults mutation.
type OnboardingHandler struct {
	svc    *service.OnboardingService
	logger *zap.Logger
}

func NewOnboardingHandler(svc *service.OnboardingService, logger *zap.Logger) *OnboardingHandler {
	return &OnboardingHandler{svc: svc, logger: logger}
}

// EnsureDefaults handles POST /v1/onboarding/ensure-defaults
//
// Clients call this after every login; the service makes it idempotent.
func (h *OnboardingHandler) EnsureDefaults(c *gin.Context) {
	if err := h.svc.EnsureDefaults(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
