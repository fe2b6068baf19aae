package handlers

import (
	"net/http"
	"strconv"

	"secretsanta/middleware"
	"secretsanta/services"

	"github.com/gin-gonic/gin"
)

type ParticipantHandler struct {
	participantService *services.ParticipantService
}

func NewParticipantHandler(participantService *services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participantService: participantService}
}

func (h *ParticipantHandler) AddParticipant(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	gameID, ok := gameIDParam(c)
	if !ok {
		return
	}

	var req services.AddParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(c, "invalid participant payload")
		return
	}

	participant, err := h.participantService.Add(c.Request.Context(), userID, gameID, req.Name)
	if err != nil {
		middleware.ErrorResponse(c, err, "failed to add participant")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "participant": participant})
}

func (h *ParticipantHandler) RemoveParticipant(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	gameID, ok := gameIDParam(c)
	if !ok {
		return
	}
	participantID, ok := idParam(c, "pid", services.ErrParticipantNotFound)
	if !ok {
		return
	}

	if err := h.participantService.Remove(c.Request.Context(), userID, gameID, participantID); err != nil {
		middleware.ErrorResponse(c, err, "failed to remove participant")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ParticipantHandler) ClearParticipants(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	gameID, ok := gameIDParam(c)
	if !ok {
		return
	}

	if err := h.participantService.Clear(c.Request.Context(), userID, gameID); err != nil {
		middleware.ErrorResponse(c, err, "failed to clear participants")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ParticipantHandler) QRCode(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	gameID, ok := gameIDParam(c)
	if !ok {
		return
	}
	participantID, ok := idParam(c, "pid", services.ErrParticipantNotFound)
	if !ok {
		return
	}

	size, _ := strconv.Atoi(c.Query("size"))

	png, err := h.participantService.QRCode(c.Request.Context(), userID, gameID, participantID, size)
	if err != nil {
		middleware.ErrorResponse(c, err, "qr generation failed")
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
