package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"secretsanta/config"
	"secretsanta/handlers"
	"secretsanta/middleware"
	"secretsanta/routes"
	"secretsanta/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func runServer(ctx context.Context, cfg *config.Config) error {
	// Initialize database
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}

	// Initialize Redis; without it reveals are not rate limited
	redisClient, err := config.InitRedis(cfg)
	if err != nil {
		log.Printf("Warning: %v, reveal rate limiting disabled", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()
	defer hub.Stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddress, cfg.Port),
		Handler:           newRouter(cfg, db, redisClient, hub),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newRouter wires services and handlers into a gin engine.
func newRouter(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, hub *services.Hub) *gin.Engine {
	links := services.NewShareLinks(cfg.PublicURL)
	users := services.NewUserService(db)
	sessions := services.NewSessionManager(db, cfg.SessionMode, cfg.JWTSecret, cfg.IsProduction())
	authService := services.NewAuthService(db, users, cfg.AdminUser, cfg.AdminPassword)
	gameService := services.NewGameService(db, links, hub)
	participantService := services.NewParticipantService(db, gameService, links, hub)
	assignmentService := services.NewAssignmentService(db, services.NewDeranger(cfg.AssignMaxAttempts), hub)
	revealService := services.NewRevealService(db)
	limiter := services.NewRevealLimiter(redisClient, cfg.RevealRateLimit, cfg.RevealRateWindow)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, sessions)
	gameHandler := handlers.NewGameHandler(gameService, assignmentService)
	participantHandler := handlers.NewParticipantHandler(participantService)
	revealHandler := handlers.NewRevealHandler(revealService, limiter)
	userHandler := handlers.NewUserHandler(users)
	feedHandler := handlers.NewFeedHandler(gameService, hub, cfg.PublicURL)

	router := gin.Default()
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(cfg.PublicURL))

	routes.SetupRoutes(router, sessions, authHandler, gameHandler, participantHandler, revealHandler, userHandler, feedHandler)

	return router
}
