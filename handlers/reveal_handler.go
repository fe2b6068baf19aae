package handlers

import (
	"net/http"

	"secretsanta/middleware"
	"secretsanta/services"

	"github.com/gin-gonic/gin"
)

type RevealHandler struct {
	revealService *services.RevealService
	limiter       *services.RevealLimiter
}

func NewRevealHandler(revealService *services.RevealService, limiter *services.RevealLimiter) *RevealHandler {
	return &RevealHandler{
		revealService: revealService,
		limiter:       limiter,
	}
}

func (h *RevealHandler) Reveal(c *gin.Context) {
	gameID, ok := idParam(c, "id", services.ErrParticipantNotFound)
	if !ok {
		return
	}

	h.reveal(c, gameID, func(slug, code string) (*services.RevealResult, error) {
		return h.revealService.Reveal(c.Request.Context(), gameID, slug, code)
	})
}

// RevealLegacy answers the slug-only links of the single-scope era.
func (h *RevealHandler) RevealLegacy(c *gin.Context) {
	h.reveal(c, 0, func(slug, code string) (*services.RevealResult, error) {
		return h.revealService.RevealLegacy(c.Request.Context(), slug, code)
	})
}

func (h *RevealHandler) reveal(c *gin.Context, gameID uint, lookup func(slug, code string) (*services.RevealResult, error)) {
	var req services.RevealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(c, "access code is required")
		return
	}

	if !h.limiter.Allow(c.Request.Context(), gameID, c.ClientIP()) {
		middleware.RecordReveal(services.ErrRateLimited.Code)
		middleware.ErrorResponse(c, services.ErrRateLimited, "")
		return
	}

	result, err := lookup(c.Param("slug"), req.Code)
	if err != nil {
		if appErr, ok := services.AsAppError(err); ok {
			middleware.RecordReveal(appErr.Code)
		}
		middleware.ErrorResponse(c, err, "failed to reveal assignment")
		return
	}

	middleware.RecordReveal("ok")
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"name":        result.Name,
		"assigned_to": result.AssignedTo,
	})
}
