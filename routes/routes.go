package routes

import (
	"net/http"

	"secretsanta/handlers"
	"secretsanta/middleware"
	"secretsanta/services"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	sessions *services.SessionManager,
	authHandler *handlers.AuthHandler,
	gameHandler *handlers.GameHandler,
	participantHandler *handlers.ParticipantHandler,
	revealHandler *handlers.RevealHandler,
	userHandler *handlers.UserHandler,
	feedHandler *handlers.FeedHandler,
) {
	requireUser := middleware.RequireUser(sessions)

	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireUser, middleware.NoStore(), authHandler.Me)
		}

		// Public reveal routes
		api.POST("/games/:id/reveal/:slug", revealHandler.Reveal)
		api.POST("/reveal/:slug", revealHandler.RevealLegacy)

		// Organizer routes
		games := api.Group("/games", requireUser, middleware.NoStore())
		{
			games.POST("", gameHandler.CreateGame)
			games.GET("", gameHandler.ListGames)
			games.GET("/:id", gameHandler.GetGame)
			games.DELETE("/:id", gameHandler.DeleteGame)
			games.POST("/:id/assign", gameHandler.Assign)
			games.POST("/:id/reset", gameHandler.ResetAssignments)
			games.POST("/:id/participants", participantHandler.AddParticipant)
			games.DELETE("/:id/participants", participantHandler.ClearParticipants)
			games.DELETE("/:id/participants/:pid", participantHandler.RemoveParticipant)
			games.GET("/:id/participants/:pid/qr", participantHandler.QRCode)
		}

		// Super admin routes
		admin := api.Group("/admin", requireUser, middleware.RequireSuperAdmin(), middleware.NoStore())
		{
			admin.POST("/users", userHandler.CreateUser)
			admin.GET("/users", userHandler.ListUsers)
			admin.DELETE("/users/:id", userHandler.DeleteUser)
		}
	}

	// WebSocket endpoint for live organizer dashboards
	router.GET("/ws/games/:id", requireUser, feedHandler.Dashboard)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/metrics", middleware.MetricsHandler())
}
