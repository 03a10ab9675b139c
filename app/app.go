package app

import (
	"context"
	"database/sql"
	"go-events-api/config"
	"go-events-api/db"
	"go-events-api/handler"
	"go-events-api/logger"
	"go-events-api/repository"
	"go-events-api/router"
	"go-events-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate("file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error migrating the database: %v", err)
	}

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	r := buildRouter(database, redisClient)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

// buildRouter wires repositories, services and handlers together.
func buildRouter(database *sql.DB, redisClient *redis.Client) http.Handler {
	userRepo := repository.NewUserRepository(database)
	eventRepo := repository.NewEventRepository(database)
	chatRepo := repository.NewChatRepository(database)

	tokenService := service.NewTokenServiceFromConfig()
	authService := service.NewAuthService(userRepo, tokenService, config.AppConfig.BcryptCost)
	eventService := service.NewEventService(eventRepo, redisClient)
	profileService := service.NewProfileService(userRepo, eventRepo)
	chatService := service.NewChatService(chatRepo, eventRepo)

	authMW := handler.NewAuthMiddleware(authService)
	authHandler := handler.NewAuthHandler(authService, profileService, config.AppConfig.JWT.RefreshTTL)
	eventHandler := handler.NewEventHandler(eventService)
	profileHandler := handler.NewProfileHandler(profileService)
	chatHandler := handler.NewChatHandler(chatService)

	return router.NewRouter(authHandler, eventHandler, profileHandler, chatHandler, authMW)
}

// TestApp bundles the wired router with its backing connections for
// integration tests.
type TestApp struct {
	DB     *sql.DB
	Redis  *redis.Client
	Router http.Handler
}

func NewTestApp(database *sql.DB, redisClient *redis.Client) *TestApp {
	return &TestApp{
		DB:     database,
		Redis:  redisClient,
		Router: buildRouter(database, redisClient),
	}
}
