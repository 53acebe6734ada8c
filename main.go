package main

import (
	"context"
	"log"
	"time"

	"clinic-booking/cmd"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/wire"
	"clinic-booking/pkg/database"
	"clinic-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Optional Redis, used for the shared rate limiter
	var redisClient *redis.Client
	if config.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unreachable, falling back to in-process rate limiting", zap.Error(err))
			redisClient = nil
		} else {
			logger.Info("Redis connected successfully")
		}
		cancel()
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Expired sessions are swept in the background rather than on every auth.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if deleted, err := repos.Session.DeleteExpired(ctx); err != nil {
				logger.Warn("Session cleanup failed", zap.Error(err))
			} else if deleted > 0 {
				logger.Info("Expired sessions removed", zap.Int64("count", deleted))
			}
			cancel()
		}
	}()

	// Wire all dependencies
	app := wire.Wiring(db, repos, config, redisClient, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
