package handlers

import (
	"log"
	"net/http"

	"secretsanta/middleware"
	"secretsanta/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type FeedHandler struct {
	gameService *services.GameService
	hub         *services.Hub
	upgrader    websocket.Upgrader
}

// NewFeedHandler accepts dashboard connections from allowedOrigins, or from
// the same host only when none are given.
func NewFeedHandler(gameService *services.GameService, hub *services.Hub, allowedOrigins ...string) *FeedHandler {
	h := &FeedHandler{
		gameService: gameService,
		hub:         hub,
	}
	if len(allowedOrigins) > 0 {
		allowed := make(map[string]bool, len(allowedOrigins))
		for _, o := range allowedOrigins {
			allowed[o] = true
		}
		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed[origin]
		}
	}
	return h
}

// Dashboard upgrades to a websocket that receives change events of one game.
func (h *FeedHandler) Dashboard(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	gameID, ok := gameIDParam(c)
	if !ok {
		return
	}

	if err := h.gameService.CheckOwnership(c.Request.Context(), userID, gameID); err != nil {
		middleware.ErrorResponse(c, err, "failed to load game")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed for game %d: %v", gameID, err)
		return
	}

	h.hub.RegisterClient(conn, gameID, userID)
}
