package handlers

import (
	"net/http"

	"secretsanta/middleware"
	"secretsanta/services"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	gameService       *services.GameService
	assignmentService *services.AssignmentService
}

func NewGameHandler(gameService *services.GameService, assignmentService *services.AssignmentService) *GameHandler {
	return &GameHandler{
		gameService:       gameService,
		assignmentService: assignmentService,
	}
}

func (h *GameHandler) CreateGame(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}

	var req services.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(c, "invalid game payload")
		return
	}

	game, err := h.gameService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		middleware.ErrorResponse(c, err, "failed to create game")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "game": game})
}

func (h *GameHandler) ListGames(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}

	games, err := h.gameService.List(c.Request.Context(), userID)
	if err != nil {
		middleware.ErrorResponse(c, err, "failed to list games")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "games": games})
}

func (h *GameHandler) GetGame(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	gameID, ok := gameIDParam(c)
	if !ok {
		return
	}

	detail, err := h.gameService.Get(c.Request.Context(), userID, gameID)
	if err != nil {
		middleware.ErrorResponse(c, err, "failed to load game")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"game":         detail.Game,
		"participants": detail.Participants,
	})
}

func (h *GameHandler) DeleteGame(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	gameID, ok := gameIDParam(c)
	if !ok {
		return
	}

	if err := h.gameService.Delete(c.Request.Context(), userID, gameID); err != nil {
		middleware.ErrorResponse(c, err, "failed to delete game")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *GameHandler) Assign(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	gameID, ok := gameIDParam(c)
	if !ok {
		return
	}

	if err := h.assignmentService.Assign(c.Request.Context(), userID, gameID); err != nil {
		middleware.ErrorResponse(c, err, "failed to generate assignments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *GameHandler) ResetAssignments(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	gameID, ok := gameIDParam(c)
	if !ok {
		return
	}

	if err := h.assignmentService.Reset(c.Request.Context(), userID, gameID); err != nil {
		middleware.ErrorResponse(c, err, "failed to reset assignments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
